package cfg

import (
	"sort"
	"strings"
)

// symbolSet is a set of grammar symbols
type symbolSet map[Symbol]bool

// sorted returns the members of set in alphabetical order
func (set symbolSet) sorted() []Symbol {
	symbols := make([]Symbol, 0, len(set))
	for s := range set {
		symbols = append(symbols, s)
	}
	sortSymbols(symbols)
	return symbols
}

// sortSymbols sorts symbols in place, uppercase before lowercase
func sortSymbols(symbols []Symbol) {
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
}

// joinSymbols renders symbols as "A, B, C"
func joinSymbols(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// mentions returns true if right contains symbol s
func mentions(right string, s Symbol) bool {
	return strings.IndexByte(right, byte(s)) >= 0
}
