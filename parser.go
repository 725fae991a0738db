package cfg

import (
	"github.com/pkg/errors"
)

// Parser runs the whole pipeline on a grammar description: parse the text,
// make the grammar well-formed, convert it to CNF, and answer membership
// queries with CYK
type Parser struct {
	grammar    *Grammar
	report     *Report
	recognizer *Recognizer
}

// NewParser creates a new instance of Parser from grammar text in the format
// read by ParseGrammar
func NewParser(grammarText string, opts ...Option) (parser *Parser, err error) {
	parser = new(Parser)
	parser.grammar, err = ParseGrammar(grammarText)
	if err != nil {
		return nil, err
	}

	parser.report, err = parser.grammar.TransformToWellFormed(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "NewParser")
	}
	if err = parser.grammar.TransformToCNF(opts...); err != nil {
		return nil, errors.Wrap(err, "NewParser")
	}
	parser.recognizer, err = NewRecognizer(parser.grammar, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "NewParser")
	}
	return
}

// Grammar returns the grammar in CNF. It must not be modified
func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

// Report returns what the well-formedness passes removed
func (p *Parser) Report() *Report {
	return p.report
}

// Parse returns true if word is in the language of the grammar
func (p *Parser) Parse(word string) (bool, error) {
	return p.recognizer.IsDerived(word)
}

// Table returns the CYK table of word
func (p *Parser) Table(word string) (*Table, error) {
	return p.recognizer.Table(word)
}
