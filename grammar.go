package cfg

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Grammar is a context-free grammar over single-character symbols. The
// normalization and CNF passes mutate it in place, so a Grammar must not be
// shared between goroutines while a pass is running.
type Grammar struct {
	terminals    symbolSet
	nonterminals symbolSet
	productions  map[Symbol]map[string]bool

	// start is 0 while the start symbol is unset
	start Symbol
}

// NewGrammar creates an empty grammar
func NewGrammar() *Grammar {
	return &Grammar{
		terminals:    symbolSet{},
		nonterminals: symbolSet{},
		productions:  map[Symbol]map[string]bool{},
	}
}

// AddTerminal declares a terminal symbol
func (g *Grammar) AddTerminal(terminal Symbol) error {
	if !terminal.IsTerminal() {
		return errors.Wrapf(ErrInvalidSymbol, "AddTerminal: '%c' is not a lowercase letter", terminal)
	}
	if g.terminals[terminal] {
		return errors.Wrapf(ErrDuplicateSymbol, "AddTerminal: '%c'", terminal)
	}
	g.terminals[terminal] = true
	return nil
}

// RemoveTerminal removes a terminal and every production it appears in
func (g *Grammar) RemoveTerminal(terminal Symbol) error {
	if !g.terminals[terminal] {
		return errors.Wrapf(ErrUndefinedSymbol, "RemoveTerminal: '%c'", terminal)
	}
	g.removeSymbol(terminal)
	return nil
}

// AddNonterminal declares a non-terminal symbol
func (g *Grammar) AddNonterminal(nonterminal Symbol) error {
	if !nonterminal.IsNonterminal() {
		return errors.Wrapf(ErrInvalidSymbol, "AddNonterminal: '%c' is not an uppercase letter", nonterminal)
	}
	if g.nonterminals[nonterminal] {
		return errors.Wrapf(ErrDuplicateSymbol, "AddNonterminal: '%c'", nonterminal)
	}
	g.nonterminals[nonterminal] = true
	return nil
}

// RemoveNonterminal removes a non-terminal, its productions and every
// production it appears in. If it was the start symbol, the start symbol
// becomes unset
func (g *Grammar) RemoveNonterminal(nonterminal Symbol) error {
	if !g.nonterminals[nonterminal] {
		return errors.Wrapf(ErrUndefinedSymbol, "RemoveNonterminal: '%c'", nonterminal)
	}
	g.removeSymbol(nonterminal)
	return nil
}

// SetStart sets the start symbol. It must be a declared non-terminal
func (g *Grammar) SetStart(nonterminal Symbol) error {
	if !g.nonterminals[nonterminal] {
		return errors.Wrapf(ErrUndefinedSymbol, "SetStart: '%c' is not a non-terminal", nonterminal)
	}
	g.start = nonterminal
	return nil
}

// Start returns the start symbol
func (g *Grammar) Start() (Symbol, error) {
	if g.start == 0 {
		return 0, ErrMissingStartSymbol
	}
	return g.start, nil
}

// HasStart returns true if the start symbol is set
func (g *Grammar) HasStart() bool {
	return g.start != 0
}

// AddProduction adds nonterminal ::= right. The right-hand side is either
// LambdaString or a string of declared symbols
func (g *Grammar) AddProduction(nonterminal Symbol, right string) error {
	if !g.nonterminals[nonterminal] {
		return errors.Wrapf(ErrUndefinedSymbol, "AddProduction: '%c' is not a non-terminal", nonterminal)
	}
	if right == "" {
		return errors.Wrapf(ErrInvalidSymbol, "AddProduction: empty right-hand side for '%c', use '%c'", nonterminal, Lambda)
	}
	if right != LambdaString {
		for i := 0; i < len(right); i++ {
			s := Symbol(right[i])
			if s.IsLambda() {
				return errors.Wrapf(ErrInvalidSymbol, "AddProduction: '%c' must stand alone in '%s'", Lambda, right)
			}
			if !g.terminals[s] && !g.nonterminals[s] {
				return errors.Wrapf(ErrUndefinedSymbol, "AddProduction: '%c' in '%c::=%s'", s, nonterminal, right)
			}
		}
	}
	if !g.addRule(nonterminal, right) {
		return errors.Wrapf(ErrDuplicateProduction, "AddProduction: '%c::=%s'", nonterminal, right)
	}
	return nil
}

// RemoveProduction removes nonterminal ::= right
func (g *Grammar) RemoveProduction(nonterminal Symbol, right string) error {
	if !g.removeRule(nonterminal, right) {
		return errors.Wrapf(ErrUnknownProduction, "RemoveProduction: '%c::=%s'", nonterminal, right)
	}
	return nil
}

// Terminals returns the terminals in alphabetical order
func (g *Grammar) Terminals() []Symbol {
	return g.terminals.sorted()
}

// Nonterminals returns the non-terminals in alphabetical order
func (g *Grammar) Nonterminals() []Symbol {
	return g.nonterminals.sorted()
}

// IsTerminal returns true if s is a declared terminal
func (g *Grammar) IsTerminal(s Symbol) bool {
	return g.terminals[s]
}

// IsNonterminal returns true if s is a declared non-terminal
func (g *Grammar) IsNonterminal(s Symbol) bool {
	return g.nonterminals[s]
}

// Productions returns the right-hand sides of nonterminal in alphabetical
// order
func (g *Grammar) Productions(nonterminal Symbol) []string {
	rights := make([]string, 0, len(g.productions[nonterminal]))
	for right := range g.productions[nonterminal] {
		rights = append(rights, right)
	}
	sort.Strings(rights)
	return rights
}

// Rules returns all productions ordered by left-hand side, then right-hand
// side
func (g *Grammar) Rules() []Rule {
	rules := []Rule{}
	for _, left := range g.Nonterminals() {
		for _, right := range g.Productions(left) {
			rules = append(rules, Rule{Left: left, Right: right})
		}
	}
	return rules
}

// IsEmpty returns true if the grammar has no productions
func (g *Grammar) IsEmpty() bool {
	for _, rights := range g.productions {
		if len(rights) > 0 {
			return false
		}
	}
	return true
}

// ProductionsString returns the productions of nonterminal like "S::=AB|a".
// It returns "" if nonterminal has no productions
func (g *Grammar) ProductionsString(nonterminal Symbol) string {
	rights := g.Productions(nonterminal)
	if len(rights) == 0 {
		return ""
	}
	return nonterminal.String() + "::=" + strings.Join(rights, "|")
}

// String converts the grammar to the text format read by ParseGrammar
func (g *Grammar) String() string {
	var sb strings.Builder
	writeSymbols := func(directive string, symbols []Symbol) {
		sb.WriteString(directive)
		for _, s := range symbols {
			sb.WriteByte(' ')
			sb.WriteByte(byte(s))
		}
		sb.WriteByte('\n')
	}
	writeSymbols("%terminals", g.Terminals())
	writeSymbols("%nonterminals", g.Nonterminals())
	if g.start != 0 {
		writeSymbols("%start", []Symbol{g.start})
	}
	for _, nonterminal := range g.Nonterminals() {
		if line := g.ProductionsString(nonterminal); line != "" {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Clone returns a deep copy of g
func (g *Grammar) Clone() *Grammar {
	clone := NewGrammar()
	for s := range g.terminals {
		clone.terminals[s] = true
	}
	for s := range g.nonterminals {
		clone.nonterminals[s] = true
	}
	for left, rights := range g.productions {
		for right := range rights {
			clone.addRule(left, right)
		}
	}
	clone.start = g.start
	return clone
}

// Reset removes every symbol, production and the start symbol
func (g *Grammar) Reset() {
	*g = *NewGrammar()
}

// hasRule returns true if left ::= right exists
func (g *Grammar) hasRule(left Symbol, right string) bool {
	return g.productions[left][right]
}

// addRule adds left ::= right without validation. Returns false if the rule
// already exists
func (g *Grammar) addRule(left Symbol, right string) bool {
	if g.productions[left] == nil {
		g.productions[left] = map[string]bool{}
	}
	if g.productions[left][right] {
		return false
	}
	g.productions[left][right] = true
	return true
}

// removeRule removes left ::= right. Returns false if it didn't exist
func (g *Grammar) removeRule(left Symbol, right string) bool {
	if !g.productions[left][right] {
		return false
	}
	delete(g.productions[left], right)
	if len(g.productions[left]) == 0 {
		delete(g.productions, left)
	}
	return true
}

// onRight returns true if s appears in some right-hand side
func (g *Grammar) onRight(s Symbol) bool {
	for _, rights := range g.productions {
		for right := range rights {
			if right != LambdaString && mentions(right, s) {
				return true
			}
		}
	}
	return false
}

// removeSymbol drops s from the symbol sets together with its productions and
// every production mentioning it
func (g *Grammar) removeSymbol(s Symbol) {
	delete(g.terminals, s)
	delete(g.nonterminals, s)
	delete(g.productions, s)
	for left, rights := range g.productions {
		for right := range rights {
			if mentions(right, s) {
				g.removeRule(left, right)
			}
		}
	}
	if g.start == s {
		g.start = 0
	}
}

// freshNonterminal declares and returns the lowest uppercase letter that is
// not a non-terminal yet
func (g *Grammar) freshNonterminal() (Symbol, error) {
	for s := Symbol('A'); s <= 'Z'; s++ {
		if !g.nonterminals[s] {
			g.nonterminals[s] = true
			return s, nil
		}
	}
	return 0, ErrAlphabetExhausted
}
