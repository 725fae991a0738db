package cfg

import (
	"github.com/pkg/errors"
)

//
// Here are the functions that convert a well-formed grammar to CNF
// According to: http://www.cs.nyu.edu/courses/fall07/V22.0453-001/cnf.pdf
//

// CheckCNFProduction checks that nonterminal ::= right is A ::= BC, A ::= a,
// or S ::= l where S is the start symbol and not used in any right-hand side
func (g *Grammar) CheckCNFProduction(nonterminal Symbol, right string) error {
	if !g.nonterminals[nonterminal] {
		return errors.Wrapf(ErrUndefinedSymbol, "CheckCNFProduction: '%c' is not a non-terminal", nonterminal)
	}
	rule := Rule{Left: nonterminal, Right: right}
	if rule.IsLambda() {
		if g.start == 0 || nonterminal != g.start {
			return errors.Wrapf(ErrNotInCNF, "CheckCNFProduction: '%s' outside the start symbol", rule)
		}
		if g.onRight(g.start) {
			return errors.Wrapf(ErrNotInCNF, "CheckCNFProduction: '%s' while '%c' is used in a right-hand side", rule, g.start)
		}
		return nil
	}
	for i := 0; i < len(right); i++ {
		s := Symbol(right[i])
		if !g.terminals[s] && !g.nonterminals[s] {
			return errors.Wrapf(ErrUndefinedSymbol, "CheckCNFProduction: '%c' in '%s'", s, rule)
		}
	}
	switch {
	case rule.IsUnary() && g.terminals[Symbol(right[0])]:
		return nil
	case rule.IsBinary() && g.nonterminals[Symbol(right[0])] && g.nonterminals[Symbol(right[1])]:
		return nil
	}
	return errors.Wrapf(ErrNotInCNF, "CheckCNFProduction: '%s'", rule)
}

// IsCNF returns true if the grammar has a start symbol and every production
// passes CheckCNFProduction
func (g *Grammar) IsCNF() bool {
	if g.start == 0 {
		return false
	}
	for _, rule := range g.Rules() {
		if g.CheckCNFProduction(rule.Left, rule.Right) != nil {
			return false
		}
	}
	return true
}

// TransformToCNF converts a well-formed grammar into Chomsky normal form in
// place. New non-terminals take the lowest free uppercase letters
func (g *Grammar) TransformToCNF(opts ...Option) error {
	o := newOptions(opts)
	if !g.HasStart() {
		return errors.Wrap(ErrMissingStartSymbol, "TransformToCNF")
	}
	wellFormed, err := g.IsWellFormed()
	if err != nil {
		return errors.Wrap(err, "TransformToCNF")
	}
	if !wellFormed {
		return errors.Wrap(ErrNotWellFormed, "TransformToCNF")
	}

	if err := g.isolateStart(); err != nil {
		return errors.Wrap(err, "TransformToCNF")
	}
	o.debugStage(g, 0, "isolate start symbol", nil)
	if err := g.addTermVariables(); err != nil {
		return errors.Wrap(err, "TransformToCNF")
	}
	o.debugStage(g, 0, "add term variables", nil)
	if err := g.reduceHigherRules(); err != nil {
		return errors.Wrap(err, "TransformToCNF")
	}
	o.debugStage(g, 0, "reduce higher rules", nil)
	return nil
}

// isolateStart makes sure the start symbol is not in any right-hand side. If
// it is, a new start symbol S0 gets a copy of the old start's productions,
// which is S0 ::= S with the unit rule already removed. A lambda rule moves
// from S to S0
func (g *Grammar) isolateStart() error {
	start := g.start
	if !g.onRight(start) {
		return nil
	}

	newStart, err := g.freshNonterminal()
	if err != nil {
		return err
	}
	for _, right := range g.Productions(start) {
		g.addRule(newStart, right)
	}
	g.removeRule(start, LambdaString)
	g.start = newStart
	return nil
}

// addTermVariables eliminates terminal symbols except in right hand sides of
// size 1. A non-terminal whose only production is A ::= a is reused for a
func (g *Grammar) addTermVariables() error {
	termSymbols := map[Symbol]Symbol{}
	for _, rule := range g.Rules() {
		if rule.IsUnary() && g.terminals[Symbol(rule.Right[0])] &&
			rule.Left != g.start && len(g.productions[rule.Left]) == 1 {
			if _, ok := termSymbols[Symbol(rule.Right[0])]; !ok {
				termSymbols[Symbol(rule.Right[0])] = rule.Left
			}
		}
	}

	for _, rule := range g.Rules() {
		if rule.IsUnary() {
			// Expect in right hand sides of size 1
			continue
		}
		right := []byte(rule.Right)
		for i, c := range right {
			symbol := Symbol(c)
			if !g.terminals[symbol] {
				continue
			}
			termSymbol, ok := termSymbols[symbol]
			if !ok {
				var err error
				if termSymbol, err = g.freshNonterminal(); err != nil {
					return err
				}
				g.addRule(termSymbol, symbol.String())
				termSymbols[symbol] = termSymbol
			}
			right[i] = byte(termSymbol)
		}
		if string(right) != rule.Right {
			g.removeRule(rule.Left, rule.Right)
			g.addRule(rule.Left, string(right))
		}
	}
	return nil
}

// reduceHigherRules converts rules with right-hand side larger than 2 into a
// chain of binary rules: A ::= X1 X2 X3 becomes A ::= X1 Y, Y ::= X2 X3. Equal
// tails share the same Y
func (g *Grammar) reduceHigherRules() error {
	tails := map[string]Symbol{}
	for _, rule := range g.Rules() {
		if len(rule.Right) <= 2 {
			continue
		}
		binary, err := g.binarize(rule.Right, tails)
		if err != nil {
			return err
		}
		g.removeRule(rule.Left, rule.Right)
		g.addRule(rule.Left, binary)
	}
	return nil
}

// binarize returns the binary right-hand side that replaces right, adding
// the rules for its tail
func (g *Grammar) binarize(right string, tails map[string]Symbol) (string, error) {
	if len(right) <= 2 {
		return right, nil
	}
	tail := right[1:]
	y, ok := tails[tail]
	if !ok {
		var err error
		if y, err = g.freshNonterminal(); err != nil {
			return "", err
		}
		tails[tail] = y
		tailRight, err := g.binarize(tail, tails)
		if err != nil {
			return "", err
		}
		g.addRule(y, tailRight)
	}
	return right[:1] + y.String(), nil
}
