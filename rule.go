package cfg

import (
	"fmt"
)

// Symbol represents a single-character symbol in a rule, both terminal and
// non-terminal
type Symbol byte

// Lambda is the marker for the empty string. It is never a terminal nor a
// non-terminal
const Lambda = Symbol('l')

// LambdaString is the right-hand side of an empty production
const LambdaString = string(rune(Lambda))

// IsTerminal returns true for lowercase letters other than Lambda
func (s Symbol) IsTerminal() bool {
	return s >= 'a' && s <= 'z' && s != Lambda
}

// IsNonterminal returns true for uppercase letters
func (s Symbol) IsNonterminal() bool {
	return s >= 'A' && s <= 'Z'
}

// IsLambda returns true if s is the empty-string marker
func (s Symbol) IsLambda() bool {
	return s == Lambda
}

func (s Symbol) String() string {
	return string(rune(s))
}

// Rule is a single production. Right is a string of symbols or LambdaString
type Rule struct {
	Left  Symbol
	Right string
}

// IsUnary returns true if it's a unary rule, like A ::= a or A ::= B
func (r Rule) IsUnary() bool {
	return len(r.Right) == 1
}

// IsBinary returns true if it's a binary rule, like A ::= BC
func (r Rule) IsBinary() bool {
	return len(r.Right) == 2
}

// IsLambda returns true for A ::= l
func (r Rule) IsLambda() bool {
	return r.Right == LambdaString
}

// IsUnit returns true if the right-hand side is a single non-terminal
func (r Rule) IsUnit() bool {
	return r.IsUnary() && Symbol(r.Right[0]).IsNonterminal()
}

// IsUseless returns true for the self derivation A ::= A
func (r Rule) IsUseless() bool {
	return r.IsUnary() && Symbol(r.Right[0]) == r.Left
}

// String converts rule to the "A::=BC" form
func (r Rule) String() string {
	return fmt.Sprintf("%c::=%s", r.Left, r.Right)
}
