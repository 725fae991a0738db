package cfg

// cnfIndex stores the rules of a CNF grammar for lookup from the right-hand
// side, which is the direction the CYK algorithm needs
type cnfIndex struct {
	// Map from terminal to the non-terminals A with A ::= terminal
	terminalRules map[Symbol][]Symbol

	// Map from targets to source. For example, rule: A ::= BC. It maps (B, C)
	// to A
	rules map[Symbol]map[Symbol][]Symbol
}

// newCNFIndex creates the index for the rules of g, which must be in CNF
func newCNFIndex(g *Grammar) *cnfIndex {
	index := &cnfIndex{
		terminalRules: map[Symbol][]Symbol{},
		rules:         map[Symbol]map[Symbol][]Symbol{},
	}
	for _, rule := range g.Rules() {
		index.addRule(rule)
	}
	return index
}

// addRule adds a new rule into the index. Lambda rules are skipped, the
// recognizer handles the empty word on its own
func (index *cnfIndex) addRule(rule Rule) {
	switch {
	case rule.IsLambda():
		return
	case rule.IsUnary():
		// It's a terminal rule, like A ::= a
		terminal := Symbol(rule.Right[0])
		index.terminalRules[terminal] = append(index.terminalRules[terminal], rule.Left)
	default:
		first := Symbol(rule.Right[0])
		second := Symbol(rule.Right[1])
		if _, ok := index.rules[first]; !ok {
			index.rules[first] = map[Symbol][]Symbol{}
		}
		index.rules[first][second] = append(index.rules[first][second], rule.Left)
	}
}
