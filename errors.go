package cfg

import (
	"github.com/pkg/errors"
)

// Errors returned by the grammar store and the algorithms. Call sites wrap
// them with context, so compare with errors.Is or errors.Cause.
var (
	// ErrUndefinedSymbol means a production or query references a symbol that
	// was never declared
	ErrUndefinedSymbol = errors.New("undefined symbol")

	// ErrMissingStartSymbol means an algorithm needs the start symbol but it
	// is not set
	ErrMissingStartSymbol = errors.New("missing start symbol")

	// ErrNotWellFormed means the grammar still has useless, lambda or unit
	// productions, or useless symbols
	ErrNotWellFormed = errors.New("grammar is not well-formed")

	// ErrNotInCNF means the grammar is not in Chomsky normal form
	ErrNotInCNF = errors.New("grammar is not in CNF")

	// ErrInvalidWord means the word contains a symbol outside the terminals
	ErrInvalidWord = errors.New("invalid word")

	// ErrAlphabetExhausted means every uppercase letter is already a
	// nonterminal
	ErrAlphabetExhausted = errors.New("no fresh nonterminal left")

	// ErrEmptyGrammar means the grammar has no productions at all
	ErrEmptyGrammar = errors.New("empty grammar")

	// ErrInvalidSymbol means a character cannot be used as that kind of
	// symbol, like an uppercase terminal or a lambda inside a right-hand side
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrDuplicateSymbol means the symbol is already declared
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrDuplicateProduction means the production already exists
	ErrDuplicateProduction = errors.New("duplicate production")

	// ErrUnknownProduction means the production to remove does not exist
	ErrUnknownProduction = errors.New("unknown production")
)
