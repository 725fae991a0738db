package cfg

import (
	"github.com/pkg/errors"
)

// GeneratingSymbols returns the non-terminals that derive at least one string
// of terminals. A Lambda right-hand side counts as such a string
func (g *Grammar) GeneratingSymbols() map[Symbol]bool {
	generating := symbolSet{}
	rules := g.Rules()
	for changed := true; changed; {
		changed = false
		for _, rule := range rules {
			if generating[rule.Left] {
				continue
			}
			if g.isGenerating(rule.Right, generating) {
				generating[rule.Left] = true
				changed = true
			}
		}
	}
	return generating
}

// isGenerating returns true if every symbol in right is a terminal or in
// generating
func (g *Grammar) isGenerating(right string, generating symbolSet) bool {
	if right == LambdaString {
		return true
	}
	for i := 0; i < len(right); i++ {
		s := Symbol(right[i])
		if !g.terminals[s] && !generating[s] {
			return false
		}
	}
	return true
}

// ReachableSymbols returns the terminals and non-terminals reachable from the
// start symbol
func (g *Grammar) ReachableSymbols() (map[Symbol]bool, error) {
	start, err := g.Start()
	if err != nil {
		return nil, errors.Wrap(err, "ReachableSymbols")
	}
	return g.reachableFrom(start), nil
}

// reachableFrom runs a breadth-first search from start over the right-hand
// sides
func (g *Grammar) reachableFrom(start Symbol) symbolSet {
	reachable := symbolSet{start: true}
	todo := []Symbol{start}
	for len(todo) != 0 {
		var A Symbol
		A, todo = todo[0], todo[1:]
		for right := range g.productions[A] {
			if right == LambdaString {
				continue
			}
			for i := 0; i < len(right); i++ {
				s := Symbol(right[i])
				if reachable[s] {
					continue
				}
				reachable[s] = true
				if g.nonterminals[s] {
					todo = append(todo, s)
				}
			}
		}
	}
	return reachable
}
