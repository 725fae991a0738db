package cfg

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	parser, err := NewParser(anbnGrammar)
	require.NoError(t, err)

	for word, expected := range map[string]bool{
		"":       true,
		"ab":     true,
		"aabb":   true,
		"aaabbb": true,
		"aab":    false,
		"ba":     false,
		"abab":   false,
	} {
		accepted, err := parser.Parse(word)
		require.NoError(t, err)
		require.Equal(t, expected, accepted, "word %q", word)
	}

	require.Equal(t, []Symbol{'S'}, parser.Report().LambdaNonterminals)
	require.True(t, parser.Grammar().IsCNF())

	table, err := parser.Table("aabb")
	require.NoError(t, err)
	require.True(t, table.Accepted())
	require.Equal(t, []Symbol{'A', 'S'}, table.Cell(0, 4))

	_, err = parser.Parse("abc")
	require.ErrorIs(t, err, ErrInvalidWord)
}

func TestParserLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	parser, err := NewParser(unitsGrammar, WithLogger(logger), WithStrict(true))
	require.NoError(t, err)
	require.GreaterOrEqual(t, parser.Report().Rounds, 2)
	_, err = parser.Parse("abc")
	require.NoError(t, err)

	log := buf.String()
	require.Contains(t, log, "component=cfg")
	require.Contains(t, log, "remove unit productions")
	require.Contains(t, log, "unit cycle")
	require.Contains(t, log, "reduce higher rules")
	require.Contains(t, log, "CYK row")
}

func TestParserErrors(t *testing.T) {
	_, err := NewParser("S ::= 1\n")
	require.Error(t, err)

	_, err = NewParser("%terminals a\nS ::= b\n")
	require.ErrorIs(t, err, ErrUndefinedSymbol)

	// Nothing is generated, so nothing is left to recognize
	_, err = NewParser("S ::= aS\n")
	require.ErrorIs(t, err, ErrEmptyGrammar)

	_, err = NewParser("")
	require.ErrorIs(t, err, ErrMissingStartSymbol)
}
