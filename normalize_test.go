package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveUselessProductions(t *testing.T) {
	g := mustGrammar(t, `
S ::= S | a | A
A ::= A | b
`)
	require.True(t, g.HasUselessProductions())
	require.Equal(t, []string{"A::=A", "S::=S"}, g.RemoveUselessProductions())
	require.False(t, g.HasUselessProductions())
	require.Equal(t, []string{"A", "a"}, g.Productions('S'))
	require.Empty(t, g.RemoveUselessProductions())
}

func TestRemoveLambdaProductions(t *testing.T) {
	g := mustGrammar(t, `
%start S
S ::= AB | a
A ::= aA | l
B ::= bB | l
`)
	require.True(t, g.HasLambdaProductions())
	nullable, err := g.RemoveLambdaProductions()
	require.NoError(t, err)
	require.Equal(t, []Symbol{'A', 'B', 'S'}, nullable)
	require.Equal(t, []string{"A", "AB", "B", "a", "l"}, g.Productions('S'))
	require.Equal(t, []string{"a", "aA"}, g.Productions('A'))
	require.Equal(t, []string{"b", "bB"}, g.Productions('B'))

	require.False(t, g.HasLambdaProductions())
	nullable, err = g.RemoveLambdaProductions()
	require.NoError(t, err)
	require.Nil(t, nullable)
}

func TestRemoveLambdaProductionsStartOnRight(t *testing.T) {
	g := mustGrammar(t, "S ::= aSb | l\n")

	// S ::= l is only allowed when S derives nothing but the empty word
	require.True(t, g.HasLambdaProductions())
	nullable, err := g.RemoveLambdaProductions()
	require.NoError(t, err)
	require.Equal(t, []Symbol{'S'}, nullable)

	start, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, Symbol('A'), start)
	require.Equal(t, []string{"aSb", "ab", "l"}, g.Productions('A'))
	require.Equal(t, []string{"aSb", "ab"}, g.Productions('S'))
	require.False(t, g.HasLambdaProductions())
}

func TestRemoveLambdaProductionsSelfDerivation(t *testing.T) {
	g := mustGrammar(t, "S ::= SS | aSb | l\n")
	_, err := g.RemoveLambdaProductions()
	require.NoError(t, err)
	require.False(t, g.HasUselessProductions())
	require.Equal(t, []string{"SS", "aSb", "ab"}, g.Productions('S'))
	require.Equal(t, []string{"SS", "aSb", "ab", "l"}, g.Productions('A'))
}

func TestRemoveLambdaProductionsAlphabetExhausted(t *testing.T) {
	g := NewGrammar()
	require.NoError(t, g.AddTerminal('a'))
	for s := Symbol('A'); s <= 'Z'; s++ {
		require.NoError(t, g.AddNonterminal(s))
	}
	require.NoError(t, g.SetStart('S'))
	require.NoError(t, g.AddProduction('S', "aS"))
	require.NoError(t, g.AddProduction('S', LambdaString))

	_, err := g.RemoveLambdaProductions()
	require.ErrorIs(t, err, ErrAlphabetExhausted)
}

func TestRemoveLambdaProductionsAllCombinations(t *testing.T) {
	g := mustGrammar(t, `
%start S
S ::= AbA
A ::= a | l
`)
	_, err := g.RemoveLambdaProductions()
	require.NoError(t, err)
	require.Equal(t, []string{"Ab", "AbA", "b", "bA"}, g.Productions('S'))
	require.Equal(t, []string{"a"}, g.Productions('A'))
}

func TestRemoveUnitProductionsCycle(t *testing.T) {
	g := mustGrammar(t, `
%start A
A ::= B | a
B ::= A
`)
	require.True(t, g.HasUnitProductions())
	require.Equal(t, []string{"A::=B", "B::=A"}, g.RemoveUnitProductions())
	require.Equal(t, []string{"a"}, g.Productions('A'))
	require.Equal(t, []string{"a"}, g.Productions('B'))
	require.False(t, g.HasUnitProductions())
	require.Empty(t, g.RemoveUnitProductions())
}

func TestRemoveUnitProductionsChain(t *testing.T) {
	g := mustGrammar(t, `
S ::= A | b
A ::= B | aS
B ::= c
`)
	require.Equal(t, []string{"A::=B", "S::=A"}, g.RemoveUnitProductions())
	require.Equal(t, []string{"aS", "b", "c"}, g.Productions('S'))
	require.Equal(t, []string{"aS", "c"}, g.Productions('A'))
	require.Equal(t, []string{"c"}, g.Productions('B'))
}

func TestRemoveUnitProductionsKeepsLambda(t *testing.T) {
	g := mustGrammar(t, `
%start S
S ::= aA | l
A ::= S
`)
	require.Equal(t, []string{"A::=S"}, g.RemoveUnitProductions())
	require.Equal(t, []string{"aA", "l"}, g.Productions('A'))
	require.Equal(t, []string{"aA", "l"}, g.Productions('S'))
}

func TestRemoveUselessSymbols(t *testing.T) {
	g := mustGrammar(t, `
%start S
S ::= AB | a
A ::= aA
B ::= b
C ::= c
`)
	hasUseless, err := g.HasUselessSymbols()
	require.NoError(t, err)
	require.True(t, hasUseless)

	removed, err := g.RemoveUselessSymbols()
	require.NoError(t, err)
	require.Equal(t, []Symbol{'A', 'B', 'C', 'b', 'c'}, removed)
	require.Equal(t, []Symbol{'S'}, g.Nonterminals())
	require.Equal(t, []Symbol{'a'}, g.Terminals())
	require.Equal(t, []Rule{{'S', "a"}}, g.Rules())

	hasUseless, err = g.HasUselessSymbols()
	require.NoError(t, err)
	require.False(t, hasUseless)
}

func TestRemoveUselessSymbolsNonGeneratingStart(t *testing.T) {
	g := mustGrammar(t, `
S ::= aS
A ::= a
`)
	removed, err := g.RemoveUselessSymbols()
	require.NoError(t, err)
	require.Equal(t, []Symbol{'A', 'a'}, removed)
	require.True(t, g.IsEmpty())
	start, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, Symbol('S'), start)
}

func TestRemoveUselessSymbolsMissingStart(t *testing.T) {
	g := NewGrammar()
	_, err := g.RemoveUselessSymbols()
	require.ErrorIs(t, err, ErrMissingStartSymbol)
	_, err = g.HasUselessSymbols()
	require.ErrorIs(t, err, ErrMissingStartSymbol)
}

func TestTransformToWellFormed(t *testing.T) {
	g := mustGrammar(t, t5Grammar)
	wellFormed, err := g.IsWellFormed()
	require.NoError(t, err)
	require.False(t, wellFormed)

	report, err := g.TransformToWellFormed()
	require.NoError(t, err)
	require.Equal(t, &Report{
		LambdaNonterminals: []Symbol{'E', 'F'},
		UnitProductions:    []string{"E::=F"},
		UselessSymbols:     []Symbol{'E', 'F', 'G', 'C', 'D', 'c'},
		Rounds:             1,
	}, report)

	expected := `%terminals a b
%nonterminals A B S
%start S
A::=ASAS|BS|b
B::=SA|SASAS|a|ab
S::=AB|ASA
`
	require.Equal(t, expected, g.String())

	wellFormed, err = g.IsWellFormed()
	require.NoError(t, err)
	require.True(t, wellFormed)
}

func TestTransformToWellFormedIdempotent(t *testing.T) {
	for name, text := range map[string]string{
		"t5":       t5Grammar,
		"anbn":     "S ::= aSb | l\n",
		"balanced": "S ::= SS | aSb | l\n",
		"units":    unitsGrammar,
	} {
		t.Run(name, func(t *testing.T) {
			g := mustGrammar(t, text)
			_, err := g.TransformToWellFormed()
			require.NoError(t, err)
			once := g.String()

			report, err := g.TransformToWellFormed()
			require.NoError(t, err)
			require.False(t, report.Changed(), "second run: %+v", report)
			require.Equal(t, once, g.String())
		})
	}
}

func TestTransformToWellFormedStrict(t *testing.T) {
	single := mustGrammar(t, t5Grammar)
	_, err := single.TransformToWellFormed()
	require.NoError(t, err)

	strict := mustGrammar(t, t5Grammar)
	report, err := strict.TransformToWellFormed(WithStrict(true))
	require.NoError(t, err)
	require.Equal(t, 2, report.Rounds)
	require.Equal(t, single.String(), strict.String())
}

func TestTransformToWellFormedMissingStart(t *testing.T) {
	g := mustGrammar(t, "S ::= S | a\n")
	require.NoError(t, g.RemoveNonterminal('S'))
	require.NoError(t, g.AddNonterminal('A'))
	require.NoError(t, g.AddProduction('A', "A"))
	before := g.String()

	_, err := g.TransformToWellFormed()
	require.ErrorIs(t, err, ErrMissingStartSymbol)
	require.Equal(t, before, g.String())
}
