package cfg

// The grammar text format, one statement per line:
//
//	# comment
//	%terminals a b
//	%nonterminals S A B
//	%start S
//	S ::= AB | ASA
//	A ::= b | l
//
// "->" may be used instead of "::=" and "ε" instead of "l". If %terminals or
// %nonterminals is missing, that kind of symbol is inferred from letter case.
// If %start is missing, the left side of the first rule is the start symbol.

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	grammarLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Derives", Pattern: `::=|->`},
		{Name: "Ident", Pattern: `[A-Za-zε]+`},
		{Name: "Punct", Pattern: `[%|]`},
		{Name: "EOL", Pattern: `\r?\n`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
	})

	grammarParser = participle.MustBuild[grammarFile](
		participle.Lexer(grammarLexer),
		participle.Elide("Comment", "Whitespace"),
	)

	ruleParser = participle.MustBuild[ruleLine](
		participle.Lexer(grammarLexer),
		participle.Elide("Comment", "Whitespace"),
	)
)

type grammarFile struct {
	Statements []*statement `( @@ | EOL )*`
}

type statement struct {
	Directive *directive `  @@`
	Rule      *ruleLine  `| @@`
}

type directive struct {
	Pos lexer.Position

	Name    string   `"%" @( "terminals" | "nonterminals" | "start" )`
	Symbols []string `@Ident*`
}

type ruleLine struct {
	Pos lexer.Position

	Left  string   `@Ident ( "::=" | "->" )`
	Right []string `@Ident ( "|" @Ident )*`
}

// normalizeText maps ε to the Lambda marker
func normalizeText(text string) string {
	return strings.ReplaceAll(text, "ε", LambdaString)
}

// toRules converts a parsed rule line into rules
func (line *ruleLine) toRules() ([]Rule, error) {
	left := normalizeText(line.Left)
	if len(left) != 1 || !Symbol(left[0]).IsNonterminal() {
		return nil, errors.Wrapf(ErrInvalidSymbol, "%s: '%s' in the left is not a non-terminal", line.Pos, line.Left)
	}
	rules := []Rule{}
	for _, right := range line.Right {
		rules = append(rules, Rule{Left: Symbol(left[0]), Right: normalizeText(right)})
	}
	return rules, nil
}

// ParseRule parses a rule line like "S ::= AB | a" into its rules. The
// symbols are not checked against any grammar
func ParseRule(ruleText string) ([]Rule, error) {
	line, err := ruleParser.ParseString("", strings.TrimSpace(ruleText))
	if err != nil {
		return nil, errors.Wrapf(err, "ParseRule: '%s'", ruleText)
	}
	rules, err := line.toRules()
	if err != nil {
		return nil, errors.Wrap(err, "ParseRule")
	}
	return rules, nil
}

// ParseGrammar parses grammar from the text format above
func ParseGrammar(grammarText string) (*Grammar, error) {
	file, err := grammarParser.ParseString("", grammarText)
	if err != nil {
		return nil, errors.Wrap(err, "ParseGrammar")
	}

	grammar := NewGrammar()
	declaredTerminals := false
	declaredNonterminals := false
	var start *directive
	lines := []*ruleLine{}
	for _, stmt := range file.Statements {
		if stmt.Rule != nil {
			lines = append(lines, stmt.Rule)
			continue
		}

		d := stmt.Directive
		switch d.Name {
		case "terminals":
			declaredTerminals = true
			for _, s := range directiveSymbols(d) {
				if err := grammar.AddTerminal(s); err != nil {
					return nil, errors.Wrapf(err, "ParseGrammar: %s", d.Pos)
				}
			}
		case "nonterminals":
			declaredNonterminals = true
			for _, s := range directiveSymbols(d) {
				if err := grammar.AddNonterminal(s); err != nil {
					return nil, errors.Wrapf(err, "ParseGrammar: %s", d.Pos)
				}
			}
		case "start":
			if start != nil {
				return nil, errors.Errorf("ParseGrammar: %s: start symbol given twice", d.Pos)
			}
			start = d
		}
	}

	rulesByLine := make([][]Rule, len(lines))
	for i, line := range lines {
		if rulesByLine[i], err = line.toRules(); err != nil {
			return nil, errors.Wrap(err, "ParseGrammar")
		}
	}

	// Infer the symbols that were not declared
	for _, rules := range rulesByLine {
		for _, rule := range rules {
			for _, s := range append([]Symbol{rule.Left}, []Symbol(rule.Right)...) {
				switch {
				case s.IsNonterminal() && !declaredNonterminals:
					grammar.nonterminals[s] = true
				case s.IsTerminal() && !declaredTerminals:
					grammar.terminals[s] = true
				}
			}
		}
	}

	for i, rules := range rulesByLine {
		for _, rule := range rules {
			if err := grammar.AddProduction(rule.Left, rule.Right); err != nil {
				return nil, errors.Wrapf(err, "ParseGrammar: %s", lines[i].Pos)
			}
		}
	}

	switch {
	case start != nil:
		symbols := directiveSymbols(start)
		if len(symbols) != 1 {
			return nil, errors.Errorf("ParseGrammar: %s: expected one start symbol", start.Pos)
		}
		if err := grammar.SetStart(symbols[0]); err != nil {
			return nil, errors.Wrapf(err, "ParseGrammar: %s", start.Pos)
		}
	case len(rulesByLine) > 0:
		grammar.start = rulesByLine[0][0].Left
	}
	return grammar, nil
}

// directiveSymbols splits the identifiers of a directive into symbols, so
// "%terminals ab" and "%terminals a b" are the same
func directiveSymbols(d *directive) []Symbol {
	symbols := []Symbol{}
	for _, ident := range d.Symbols {
		ident = normalizeText(ident)
		for i := 0; i < len(ident); i++ {
			symbols = append(symbols, Symbol(ident[i]))
		}
	}
	return symbols
}
