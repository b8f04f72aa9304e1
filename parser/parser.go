// parser.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package parser implements the recursive-descent parser which turns
// expanded token streams into syntax trees, including the
// sub-grammars for tabular environments and commutative diagrams.
package parser

import (
	"strconv"
	"strings"

	"github.com/seehuhn/texmath/ast"
	"github.com/seehuhn/texmath/tokenizer"
)

// Parser consumes the expanded token stream of a Tokenizer and
// produces syntax-tree nodes.
type Parser struct {
	lex *tokenizer.Tokenizer
	tok *tokenizer.Token
}

// New creates a Parser reading the given source text.
func New(input string) *Parser {
	lex := tokenizer.NewTokenizer()
	lex.Prepend([]byte(input), "input")
	return &Parser{lex: lex}
}

// NewFromTokenizer creates a Parser reading from an existing
// Tokenizer.  This allows callers to seed macro definitions or to
// include files before parsing starts.
func NewFromTokenizer(lex *tokenizer.Tokenizer) *Parser {
	return &Parser{lex: lex}
}

// Parse parses a complete expression and returns it as a single row.
func Parse(input string) (*ast.Row, error) {
	return New(input).ParseComplete()
}

// ParseComplete parses an expression and verifies that the whole
// input was consumed.
func (p *Parser) ParseComplete() (*ast.Row, error) {
	body, err := p.ParseExpression(false, "")
	if err != nil {
		return nil, err
	}
	tok, err := p.Fetch()
	if err != nil {
		return nil, err
	}
	if tok.Type != tokenizer.TokenEOF {
		return nil, p.unexpected(tok, "unexpected token after expression")
	}
	return ast.Wrap(body), nil
}

// Fetch returns the next token of the expanded stream without
// consuming it.
func (p *Parser) Fetch() (tokenizer.Token, error) {
	if p.tok == nil {
		tok, err := p.lex.NextToken()
		if err != nil {
			return tokenizer.Token{}, err
		}
		p.tok = &tok
	}
	return *p.tok, nil
}

// Consume advances past the token last returned by Fetch.
func (p *Parser) Consume() {
	p.tok = nil
}

// ConsumeSpaces skips over white-space tokens.
func (p *Parser) ConsumeSpaces() error {
	for {
		tok, err := p.Fetch()
		if err != nil {
			return err
		}
		if !tok.IsChar(" ") {
			return nil
		}
		p.Consume()
	}
}

// endOfExpression lists the tokens which always terminate an
// expression, in addition to the stop token of the current sub-parse.
// The terminating token is left unconsumed.
var endOfExpression = map[string]bool{
	"}":          true,
	"&":          true,
	"\\end":      true,
	"\\endgroup": true,
	"\\right":    true,
}

// infixOperators lists the control sequences which rearrange the
// expression parsed so far and therefore bound a sub-parse when
// breakOnInfix is requested.
var infixOperators = map[string]bool{
	"\\over":   true,
	"\\atop":   true,
	"\\choose": true,
	"\\brace":  true,
	"\\brack":  true,
}

// ParseExpression parses a maximal run of nodes.  The parse stops,
// without consuming the terminating token, at the end of the input or
// group, at a token whose text equals stop, or, if breakOnInfix is
// set, before an infix operator.
func (p *Parser) ParseExpression(breakOnInfix bool, stop string) ([]ast.Node, error) {
	var body []ast.Node
	for {
		err := p.ConsumeSpaces()
		if err != nil {
			return nil, err
		}
		tok, err := p.Fetch()
		if err != nil {
			return nil, err
		}
		if tok.Type == tokenizer.TokenEOF || endOfExpression[tok.Text] {
			break
		}
		if stop != "" && tok.Text == stop {
			break
		}
		if breakOnInfix && infixOperators[tok.Text] {
			break
		}
		node, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		body = append(body, node)
	}
	return body, nil
}

// parseAtom parses a single node: a brace group, an environment, or a
// bare symbol.
func (p *Parser) parseAtom() (ast.Node, error) {
	tok, err := p.Fetch()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.IsChar("{"):
		p.Consume()
		return p.parseGroup("}")
	case tok.Type == tokenizer.TokenMacro && tok.Text == "\\begin":
		return p.parseEnvironment()
	default:
		p.Consume()
		return &ast.Sym{Text: tok.Text}, nil
	}
}

// parseGroup parses an expression up to the given closing delimiter
// and wraps it in a row.  The group opens a macro scope, so that
// definitions made inside do not leak out.
func (p *Parser) parseGroup(close string) (ast.Node, error) {
	p.lex.BeginGroup()
	defer p.lex.EndGroup()

	body, err := p.ParseExpression(false, close)
	if err != nil {
		return nil, err
	}
	err = p.expectChar(close)
	if err != nil {
		return nil, err
	}
	return ast.Wrap(body), nil
}

// ParseArgNode parses exactly one argument.  A brace group becomes a
// row node, a single symbol stays a bare symbol node.  If optional is
// set, the argument must be delimited by brackets; a missing optional
// argument yields a nil node and no error.
func (p *Parser) ParseArgNode(optional bool) (ast.Node, error) {
	err := p.ConsumeSpaces()
	if err != nil {
		return nil, err
	}
	tok, err := p.Fetch()
	if err != nil {
		return nil, err
	}

	if optional {
		if !tok.IsChar("[") {
			return nil, nil
		}
		p.Consume()
		return p.parseGroup("]")
	}

	switch {
	case tok.Type == tokenizer.TokenEOF:
		return nil, p.unexpected(tok, "expected argument")
	case tok.IsChar("{"):
		p.Consume()
		return p.parseGroup("}")
	default:
		p.Consume()
		return &ast.Sym{Text: tok.Text}, nil
	}
}

func (p *Parser) expectChar(text string) error {
	tok, err := p.Fetch()
	if err != nil {
		return err
	}
	if !tok.IsChar(text) {
		return p.unexpected(tok, "expected "+strconv.Quote(text))
	}
	p.Consume()
	return nil
}

func (p *Parser) unexpected(tok tokenizer.Token, msg string) error {
	t := tok
	return &ParseError{Msg: msg, Token: &t}
}

// ParseError reports a syntactic problem: a token of the wrong kind
// where a specific delimiter or separator was required, a malformed
// column specification, or an invalid numeric parameter.
type ParseError struct {
	Msg string

	// Token is the offending token, if the problem can be attributed
	// to a single token.
	Token *tokenizer.Token
}

func (err *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(err.Msg)
	if err.Token != nil {
		b.WriteString(", got ")
		b.WriteString(strconv.Quote(err.Token.String()))
	}
	return b.String()
}
