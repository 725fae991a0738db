package cfg

import (
	"log/slog"

	"github.com/pkg/errors"
)

//
// Here are the passes that turn a grammar into a well-formed one: useless
// productions, lambda productions, unit productions and useless symbols, in
// that order
//

// Report lists what each pass of TransformToWellFormed removed or rewrote.
// In strict mode the lists of all rounds are concatenated
type Report struct {
	// UselessProductions holds the removed A::=A rules
	UselessProductions []string

	// LambdaNonterminals holds the nullable non-terminals whose productions
	// were rewritten
	LambdaNonterminals []Symbol

	// UnitProductions holds the removed A::=B rules
	UnitProductions []string

	// UselessSymbols holds the removed non-generating symbols followed by the
	// removed unreachable symbols
	UselessSymbols []Symbol

	// Rounds is the number of times the four passes ran
	Rounds int
}

// Changed returns true if any pass reported something
func (r *Report) Changed() bool {
	return len(r.UselessProductions) != 0 ||
		len(r.LambdaNonterminals) != 0 ||
		len(r.UnitProductions) != 0 ||
		len(r.UselessSymbols) != 0
}

func (r *Report) merge(round *Report) {
	r.UselessProductions = append(r.UselessProductions, round.UselessProductions...)
	r.LambdaNonterminals = append(r.LambdaNonterminals, round.LambdaNonterminals...)
	r.UnitProductions = append(r.UnitProductions, round.UnitProductions...)
	r.UselessSymbols = append(r.UselessSymbols, round.UselessSymbols...)
}

// TransformToWellFormed removes useless productions, lambda productions, unit
// productions and useless symbols, in that order. The grammar needs a start
// symbol; it is checked before anything is changed
func (g *Grammar) TransformToWellFormed(opts ...Option) (*Report, error) {
	o := newOptions(opts)
	if !g.HasStart() {
		return nil, errors.Wrap(ErrMissingStartSymbol, "TransformToWellFormed")
	}
	o.debugStage(g, 0, "original grammar", nil)

	report := &Report{}
	var err error
	for {
		report.Rounds++
		round := &Report{}

		round.UselessProductions = g.RemoveUselessProductions()
		o.debugStage(g, report.Rounds, "remove useless productions", round.UselessProductions)

		round.LambdaNonterminals, err = g.RemoveLambdaProductions()
		if err != nil {
			return report, errors.Wrap(err, "TransformToWellFormed")
		}
		o.debugStage(g, report.Rounds, "remove lambda productions", round.LambdaNonterminals)

		for _, cycle := range g.unitGraph().StrongComponents() {
			o.logger.Debug("unit cycle",
				slog.Int("round", report.Rounds),
				slog.String("symbols", joinSymbols(cycle)))
		}
		round.UnitProductions = g.RemoveUnitProductions()
		o.debugStage(g, report.Rounds, "remove unit productions", round.UnitProductions)

		round.UselessSymbols, err = g.RemoveUselessSymbols()
		if err != nil {
			return report, errors.Wrap(err, "TransformToWellFormed")
		}
		o.debugStage(g, report.Rounds, "remove useless symbols", round.UselessSymbols)

		report.merge(round)
		if !o.strict || !round.Changed() {
			break
		}
	}
	return report, nil
}

// IsWellFormed returns true if none of the four passes would change the
// grammar
func (g *Grammar) IsWellFormed() (bool, error) {
	if g.HasUselessProductions() || g.HasLambdaProductions() || g.HasUnitProductions() {
		return false, nil
	}
	hasUselessSymbols, err := g.HasUselessSymbols()
	if err != nil {
		return false, errors.Wrap(err, "IsWellFormed")
	}
	return !hasUselessSymbols, nil
}

// HasUselessProductions returns true if there is a rule like A ::= A
func (g *Grammar) HasUselessProductions() bool {
	for _, rule := range g.Rules() {
		if rule.IsUseless() {
			return true
		}
	}
	return false
}

// RemoveUselessProductions removes rules like A ::= A and returns them as
// "A::=A"
func (g *Grammar) RemoveUselessProductions() []string {
	removed := []string{}
	for _, rule := range g.Rules() {
		if rule.IsUseless() {
			g.removeRule(rule.Left, rule.Right)
			removed = append(removed, rule.String())
		}
	}
	return removed
}

// occursRight maps each symbol to the rules that have it in the right-hand
// side
func (g *Grammar) occursRight() map[Symbol][]Rule {
	occurs := map[Symbol][]Rule{}
	for _, rule := range g.Rules() {
		if rule.IsLambda() {
			continue
		}
		seen := symbolSet{}
		for i := 0; i < len(rule.Right); i++ {
			s := Symbol(rule.Right[i])
			if !seen[s] {
				seen[s] = true
				occurs[s] = append(occurs[s], rule)
			}
		}
	}
	return occurs
}

// nullableSymbols finds the non-terminals that derive the empty string
func (g *Grammar) nullableSymbols() symbolSet {
	nullable := symbolSet{}
	todo := []Symbol{}
	for _, rule := range g.Rules() {
		if rule.IsLambda() && !nullable[rule.Left] {
			// Rule: A ::= l
			nullable[rule.Left] = true
			todo = append(todo, rule.Left)
		}
	}

	occurs := g.occursRight()
	for len(todo) != 0 {
		var B Symbol
		B, todo = todo[0], todo[1:]
		for _, rule := range occurs[B] {
			if nullable[rule.Left] {
				continue
			}
			allNullable := true
			for i := 0; i < len(rule.Right); i++ {
				if !nullable[Symbol(rule.Right[i])] {
					allNullable = false
					break
				}
			}
			if allNullable {
				nullable[rule.Left] = true
				todo = append(todo, rule.Left)
			}
		}
	}
	return nullable
}

// expandNullable returns every right-hand side obtained from right by deleting
// a subset of its nullable symbols. The result may contain "" and duplicates
func expandNullable(right string, nullable symbolSet) []string {
	positions := []int{}
	for i := 0; i < len(right); i++ {
		if nullable[Symbol(right[i])] {
			positions = append(positions, i)
		}
	}

	// Bit j of mask set means the j-th nullable occurrence is deleted
	expanded := make([]string, 0, 1<<len(positions))
	for mask := 0; mask < 1<<len(positions); mask++ {
		deleted := map[int]bool{}
		for j, pos := range positions {
			if mask&(1<<j) != 0 {
				deleted[pos] = true
			}
		}
		buf := make([]byte, 0, len(right))
		for i := 0; i < len(right); i++ {
			if !deleted[i] {
				buf = append(buf, right[i])
			}
		}
		expanded = append(expanded, string(buf))
	}
	return expanded
}

// HasLambdaProductions returns true if a non-terminal other than the start
// symbol has a lambda rule, or the start symbol has one but is also used in a
// right-hand side. S ::= l is only allowed to derive the empty word itself
func (g *Grammar) HasLambdaProductions() bool {
	for _, rule := range g.Rules() {
		if rule.IsLambda() && (rule.Left != g.start || g.onRight(g.start)) {
			return true
		}
	}
	return false
}

// RemoveLambdaProductions eliminates lambda rules. Every rule gets the
// variants with its nullable symbols deleted, and only the start symbol may
// keep A ::= l, if it is nullable. When a nullable start symbol appears in a
// right-hand side, a new start symbol takes over its productions and the
// lambda rule. It returns the nullable non-terminals, or nil if the grammar
// did not change
func (g *Grammar) RemoveLambdaProductions() ([]Symbol, error) {
	nullable := g.nullableSymbols()
	if len(nullable) == 0 {
		return nil, nil
	}

	changed := false
	for _, rule := range g.Rules() {
		if rule.IsLambda() {
			continue
		}
		for _, right := range expandNullable(rule.Right, nullable) {
			if right == "" || (Rule{Left: rule.Left, Right: right}).IsUseless() {
				continue
			}
			if g.addRule(rule.Left, right) {
				changed = true
			}
		}
	}

	for _, rule := range g.Rules() {
		if rule.IsLambda() && rule.Left != g.start {
			g.removeRule(rule.Left, rule.Right)
			changed = true
		}
	}

	if g.start != 0 && nullable[g.start] {
		if g.onRight(g.start) {
			newStart, err := g.freshNonterminal()
			if err != nil {
				return nil, errors.Wrap(err, "RemoveLambdaProductions")
			}
			for _, right := range g.Productions(g.start) {
				if right != LambdaString {
					g.addRule(newStart, right)
				}
			}
			g.removeRule(g.start, LambdaString)
			g.start = newStart
			changed = true
		}
		if g.addRule(g.start, LambdaString) {
			changed = true
		}
	}

	if !changed {
		return nil, nil
	}
	return nullable.sorted(), nil
}

// unitGraph returns the graph with an arc A -> B for each A ::= B
func (g *Grammar) unitGraph() *DirectedGraph {
	graph := NewDirectedGraph()
	for _, rule := range g.Rules() {
		if rule.IsUnit() {
			graph.Add(rule.Left, Symbol(rule.Right[0]))
		}
	}
	return graph
}

// HasUnitProductions returns true if there is a rule like A ::= B
func (g *Grammar) HasUnitProductions() bool {
	for _, rule := range g.Rules() {
		if rule.IsUnit() {
			return true
		}
	}
	return false
}

// RemoveUnitProductions replaces every A ::= B by the non-unit productions of
// all the non-terminals A reaches through unit rules, lambda rules included.
// Cycles like A ::= B, B ::= A are fine. It returns the removed rules as
// "A::=B"
func (g *Grammar) RemoveUnitProductions() []string {
	graph := g.unitGraph()
	removed := []string{}
	if len(graph.Arcs) == 0 {
		return removed
	}

	// Non-unit productions of each non-terminal, before anything changes
	nonUnit := map[Symbol][]string{}
	for _, rule := range g.Rules() {
		if !rule.IsUnit() {
			nonUnit[rule.Left] = append(nonUnit[rule.Left], rule.Right)
		}
	}

	for _, A := range graph.Vertices.sorted() {
		targets := graph.Arcs[A]
		if len(targets) == 0 {
			continue
		}
		for _, B := range graph.Closure(A) {
			if B == A {
				continue
			}
			for _, right := range nonUnit[B] {
				g.addRule(A, right)
			}
		}
		for _, B := range targets.sorted() {
			rule := Rule{Left: A, Right: B.String()}
			g.removeRule(rule.Left, rule.Right)
			removed = append(removed, rule.String())
		}
	}
	return removed
}

// HasUselessSymbols returns true if RemoveUselessSymbols would change the
// grammar
func (g *Grammar) HasUselessSymbols() (bool, error) {
	clone := g.Clone()
	if _, err := clone.RemoveUselessSymbols(); err != nil {
		return false, errors.Wrap(err, "HasUselessSymbols")
	}
	return clone.String() != g.String(), nil
}

// RemoveUselessSymbols removes the non-generating non-terminals first, then
// the symbols not reachable from the start symbol, together with every
// production they appear in. The start symbol itself is kept; if it is not
// generating, its productions are dropped
func (g *Grammar) RemoveUselessSymbols() ([]Symbol, error) {
	start, err := g.Start()
	if err != nil {
		return nil, errors.Wrap(err, "RemoveUselessSymbols")
	}

	removed := []Symbol{}
	generating := g.GeneratingSymbols()
	for _, nonterminal := range g.Nonterminals() {
		if generating[nonterminal] {
			continue
		}
		if nonterminal == start {
			delete(g.productions, start)
			continue
		}
		g.removeSymbol(nonterminal)
		removed = append(removed, nonterminal)
	}

	reachable := g.reachableFrom(start)
	unreachable := []Symbol{}
	for _, s := range append(g.Nonterminals(), g.Terminals()...) {
		if !reachable[s] {
			unreachable = append(unreachable, s)
		}
	}
	sortSymbols(unreachable)
	for _, s := range unreachable {
		g.removeSymbol(s)
	}
	return append(removed, unreachable...), nil
}
