package cfg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Table is the CYK table for one word. Cell (i, j) holds the non-terminals
// that derive the substring of length j starting at i
type Table struct {
	word     string
	accepted bool

	// rows[j-1][i] is cell (i, j)
	rows [][]symbolSet
}

// Word returns the word the table was built for
func (t *Table) Word() string {
	return t.word
}

// Accepted returns true if the start symbol derives the word
func (t *Table) Accepted() bool {
	return t.accepted
}

// Cell returns the non-terminals of cell (i, length) in alphabetical order,
// or nil if there is no such cell
func (t *Table) Cell(i, length int) []Symbol {
	if length < 1 || length > len(t.rows) || i < 0 || i >= len(t.rows[length-1]) {
		return nil
	}
	return t.rows[length-1][i].sorted()
}

// String prints every cell of the table, one per line, ordered by start
// index, then length:
//
//	T[0][1] = {A}
//	T[0][2] = {S}
//	T[1][1] = {B}
func (t *Table) String() string {
	var sb strings.Builder
	for i := range t.word {
		for length := 1; i+length <= len(t.word); length++ {
			fmt.Fprintf(&sb, "T[%d][%d] = {%s}\n", i, length, joinSymbols(t.Cell(i, length)))
		}
	}
	return sb.String()
}

// Recognizer decides membership with the CYK algorithm. It keeps its own
// copy of the grammar rules, so it is safe to use from several goroutines and
// is not affected by later changes to the grammar
type Recognizer struct {
	start     Symbol
	terminals symbolSet
	lambda    bool
	index     *cnfIndex
	logger    *slog.Logger
}

// NewRecognizer creates a recognizer for g. The grammar must have a start
// symbol, at least one production, and be in CNF
func NewRecognizer(g *Grammar, opts ...Option) (*Recognizer, error) {
	o := newOptions(opts)
	start, err := g.Start()
	if err != nil {
		return nil, errors.Wrap(err, "NewRecognizer")
	}
	if g.IsEmpty() {
		return nil, errors.Wrap(ErrEmptyGrammar, "NewRecognizer")
	}
	if !g.IsCNF() {
		return nil, errors.Wrap(ErrNotInCNF, "NewRecognizer")
	}

	terminals := symbolSet{}
	for s := range g.terminals {
		terminals[s] = true
	}
	return &Recognizer{
		start:     start,
		terminals: terminals,
		lambda:    g.hasRule(start, LambdaString),
		index:     newCNFIndex(g),
		logger:    o.logger,
	}, nil
}

// IsDerived returns true if word is in the language of the grammar
func (r *Recognizer) IsDerived(word string) (bool, error) {
	table, err := r.Table(word)
	if err != nil {
		return false, err
	}
	return table.Accepted(), nil
}

// Table runs the CYK algorithm on word and returns the complete table. The
// empty word is accepted iff the start symbol has a lambda rule; its table
// has no cells
func (r *Recognizer) Table(word string) (*Table, error) {
	for i := 0; i < len(word); i++ {
		if !r.terminals[Symbol(word[i])] {
			return nil, errors.Wrapf(ErrInvalidWord, "CYK: '%c' at %d in '%s' is not a terminal", word[i], i, word)
		}
	}

	table := &Table{word: word}
	if word == "" {
		table.accepted = r.lambda
		return table, nil
	}
	debug := r.logger.Enabled(context.Background(), slog.LevelDebug)

	// Row 1: apply all terminal rules
	n := len(word)
	table.rows = make([][]symbolSet, n)
	table.rows[0] = make([]symbolSet, n)
	for i := 0; i < n; i++ {
		cell := symbolSet{}
		for _, A := range r.index.terminalRules[Symbol(word[i])] {
			cell[A] = true
		}
		table.rows[0][i] = cell
	}
	if debug {
		r.logRow(table, 1)
	}

	// Row 2 to row n: apply non-terminal rules
	// Length of span
	for length := 2; length <= n; length++ {
		columns := n - length + 1
		table.rows[length-1] = make([]symbolSet, columns)
		// Start of span
		for start := 0; start < columns; start++ {
			cell := symbolSet{}
			// Partition of span
			for partition := 1; partition < length; partition++ {
				left := table.rows[partition-1][start]
				right := table.rows[length-partition-1][start+partition]
				for B := range left {
					rightRules, ok := r.index.rules[B]
					if !ok {
						continue
					}
					for C := range right {
						// Ok, there are some rules A ::= BC
						for _, A := range rightRules[C] {
							cell[A] = true
						}
					}
				}
			}
			table.rows[length-1][start] = cell
		}
		if debug {
			r.logRow(table, length)
		}
	}

	table.accepted = table.rows[n-1][0][r.start]
	return table, nil
}

// logRow logs the cells of one row of the table for debugging
func (r *Recognizer) logRow(table *Table, length int) {
	cells := []string{}
	for i := range table.rows[length-1] {
		cells = append(cells, fmt.Sprintf("[%d: %s]", i, joinSymbols(table.Cell(i, length))))
	}
	r.logger.Debug("CYK row",
		slog.String("word", table.word),
		slog.Int("length", length),
		slog.String("cells", strings.Join(cells, " ")))
}

// IsDerivedUsingCYK returns true if word is in the language of g, which must
// be in CNF
func (g *Grammar) IsDerivedUsingCYK(word string) (bool, error) {
	recognizer, err := NewRecognizer(g)
	if err != nil {
		return false, err
	}
	return recognizer.IsDerived(word)
}

// CYKStateString returns every cell the CYK algorithm computes for word, as
// printed by Table.String
func (g *Grammar) CYKStateString(word string) (string, error) {
	recognizer, err := NewRecognizer(g)
	if err != nil {
		return "", err
	}
	table, err := recognizer.Table(word)
	if err != nil {
		return "", err
	}
	return table.String(), nil
}
