package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// t5Grammar is the complete example grammar with useless, lambda and unit
// rules and unreachable symbols
const t5Grammar = `
%terminals a b c
%nonterminals S A B C D E F G
%start S
S ::= AB | ASA
A ::= BS | ASAS | b | bE
B ::= SA | SASAS | a | ab
C ::= ab
D ::= b
E ::= F
F ::= l
`

func mustGrammar(t *testing.T, text string) *Grammar {
	t.Helper()
	g, err := ParseGrammar(text)
	require.NoError(t, err)
	return g
}

// requireCNF checks every rule of g has the shape A ::= a, A ::= BC or
// S ::= l for the start symbol
func requireCNF(t *testing.T, g *Grammar) {
	t.Helper()
	start, err := g.Start()
	require.NoError(t, err)
	for _, rule := range g.Rules() {
		switch {
		case rule.IsLambda():
			require.Equal(t, start, rule.Left, "lambda rule %s", rule)
		case rule.IsUnary():
			require.True(t, g.IsTerminal(Symbol(rule.Right[0])), "unary rule %s", rule)
		case rule.IsBinary():
			require.True(t, g.IsNonterminal(Symbol(rule.Right[0])), "binary rule %s", rule)
			require.True(t, g.IsNonterminal(Symbol(rule.Right[1])), "binary rule %s", rule)
		default:
			t.Fatalf("rule %s is too long", rule)
		}
	}
	require.True(t, g.IsCNF())
}

// naiveDerives reports whether the start symbol of any grammar derives word.
// It computes, for every substring, the non-terminals deriving it as a least
// fixpoint, which works with lambda rules and unit cycles
func naiveDerives(g *Grammar, word string) bool {
	n := len(word)
	derives := make([][]symbolSet, n+1)
	for i := range derives {
		derives[i] = make([]symbolSet, n+1)
		for j := range derives[i] {
			derives[i][j] = symbolSet{}
		}
	}

	// matches returns true if right derives word[i:j] under the current sets
	var matches func(right string, i, j int) bool
	matches = func(right string, i, j int) bool {
		if right == "" {
			return i == j
		}
		s := Symbol(right[0])
		if !s.IsNonterminal() {
			return i < j && word[i] == right[0] && matches(right[1:], i+1, j)
		}
		for k := i; k <= j; k++ {
			if derives[i][k][s] && matches(right[1:], k, j) {
				return true
			}
		}
		return false
	}

	rules := g.Rules()
	for changed := true; changed; {
		changed = false
		for _, rule := range rules {
			right := rule.Right
			if rule.IsLambda() {
				right = ""
			}
			for i := 0; i <= n; i++ {
				for j := i; j <= n; j++ {
					if !derives[i][j][rule.Left] && matches(right, i, j) {
						derives[i][j][rule.Left] = true
						changed = true
					}
				}
			}
		}
	}

	start, err := g.Start()
	if err != nil {
		return false
	}
	return derives[0][n][start]
}

// allWords returns every word over terminals with length <= maxLen, the empty
// word included
func allWords(terminals []Symbol, maxLen int) []string {
	words := []string{""}
	last := []string{""}
	for length := 1; length <= maxLen; length++ {
		next := []string{}
		for _, prefix := range last {
			for _, s := range terminals {
				next = append(next, prefix+s.String())
			}
		}
		words = append(words, next...)
		last = next
	}
	return words
}

// unitsGrammar has a lambda rule, a unit chain, a unit cycle and an
// unreachable non-terminal
const unitsGrammar = `
%start S
S -> AB | C
A -> aA | ε
B -> bB | b
C -> D | c
D -> C | d | DD
E -> e
`

// anbnGrammar derives a^n b^n, the empty word included
const anbnGrammar = "S ::= aSb | l\n"
