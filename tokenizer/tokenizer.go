// tokenizer.go -
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

package tokenizer

import (
	"io"
	"strings"

	"github.com/seehuhn/texmath/scanner"
)

// A Tokenizer splits TeX math source into tokens.  Macros are
// expanded in the process, so that the stream seen by callers of
// .NextToken() only contains control sequences with no active
// definition, single characters and the end-of-input sentinel.
type Tokenizer struct {
	scanner.Scanner

	macros     *Namespace
	expansions int
}

// NewTokenizer creates and initialises a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		macros: NewNamespace(),
	}
}

// Macros exposes the macro table, so that callers can seed
// definitions before a parse.
func (p *Tokenizer) Macros() *Namespace {
	return p.macros
}

// Define installs a macro definition in the innermost group.
func (p *Tokenizer) Define(name string, numArgs int, body string) {
	p.macros.Define(name, &MacroDef{NumArgs: numArgs, Body: body})
}

// BeginGroup opens a new macro group.
func (p *Tokenizer) BeginGroup() {
	p.macros.BeginGroup()
}

// EndGroup closes the innermost macro group, reverting all
// definitions made since the matching BeginGroup call.
func (p *Tokenizer) EndGroup() {
	p.macros.EndGroup()
}

// maxExpansions bounds the number of macro rewrites performed without
// a token being emitted.  Exceeding the bound indicates a macro which
// directly or indirectly expands to itself.
const maxExpansions = 256

// NextToken returns the next token of the expanded input stream.
// Control sequences with an active definition are rewritten by
// splicing their replacement text into the input; the rewrite is
// bounded, and runaway self-reference is reported as an
// *ExpansionLoopError.
func (p *Tokenizer) NextToken() (Token, error) {
	for {
		tok, err := p.readRawToken()
		if err != nil {
			return Token{}, err
		}
		if tok.Type != TokenMacro {
			p.expansions = 0
			return tok, nil
		}

		if def := p.macros.Lookup(tok.Text); def != nil {
			p.expansions++
			if p.expansions > maxExpansions {
				return Token{}, &ExpansionLoopError{Name: tok.Text}
			}
			err = p.expand(tok.Text, def)
			if err != nil {
				return Token{}, err
			}
			continue
		}

		if tok.Text == "\\def" {
			err = p.readDef()
			if err != nil {
				return Token{}, err
			}
			continue
		}

		p.expansions = 0
		return tok, nil
	}
}

// ExpandAsText fully expands the given control sequence and returns
// the resulting text.  This is used for macros which denote plain
// numeric or textual parameters, e.g. \arraystretch.  The second
// return value is false if the control sequence has no definition.
func (p *Tokenizer) ExpandAsText(name string) (string, bool, error) {
	def := p.macros.Lookup(name)
	if def == nil {
		return "", false, nil
	}

	sub := &Tokenizer{macros: p.macros}
	sub.Prepend([]byte(def.Body), name+" expansion")
	var b strings.Builder
	for {
		tok, err := sub.NextToken()
		if err != nil {
			return "", true, err
		}
		if tok.Type == TokenEOF {
			break
		}
		b.WriteString(tok.Text)
	}
	return strings.TrimSpace(b.String()), true, nil
}

// readRawToken returns the next token of the input without expanding
// macros.  Comments are skipped, runs of white space are collapsed
// into a single space token.
func (p *Tokenizer) readRawToken() (Token, error) {
	for p.Next() {
		buf, err := p.Peek()
		if err != nil {
			return Token{}, err
		}

		switch {
		case buf[0] == '\\':
			name, err := p.readMacroName()
			if err != nil {
				return Token{}, err
			}
			return Token{Type: TokenMacro, Text: name}, nil

		case buf[0] == '%':
			err := p.skipComment()
			if err != nil {
				return Token{}, err
			}

		case isSpace(buf[0]):
			err := p.skipWhiteSpace()
			if err != nil {
				return Token{}, err
			}
			return Token{Type: TokenChar, Text: " "}, nil

		default:
			c := string(buf[:1])
			p.Skip(1)
			return Token{Type: TokenChar, Text: c}, nil
		}
	}
	return Token{Type: TokenEOF}, nil
}

// readMacroName reads a control sequence at the current input
// position.  Following TeX rules, a name is either a backslash
// followed by a run of letters, or a backslash followed by one
// non-letter character.  White space after a letter-named control
// sequence is consumed.
func (p *Tokenizer) readMacroName() (string, error) {
	if !p.Next() {
		return "", io.EOF
	}
	buf, err := p.Peek()
	if err != nil {
		return "", err
	}
	if buf[0] != '\\' {
		defer p.Skip(1)
		return string(buf[:1]), nil
	}
	if len(buf) < 2 {
		p.Skip(1)
		return "\\", nil
	}
	if !isLetter(buf[1]) {
		defer p.Skip(2)
		return string(buf[:2]), nil
	}

	var i int
	for i = 1; i < len(buf); i++ {
		if !isLetter(buf[i]) {
			break
		}
	}
	if i >= scanner.PeekWindowSize {
		return "", p.MakeError("macro name too long")
	}
	name := string(buf[:i])
	p.Skip(i)

	err = p.skipOptionalWhiteSpace()
	return name, err
}

func (p *Tokenizer) skipWhiteSpace() error {
	for p.Next() {
		buf, err := p.Peek()
		if err != nil {
			return err
		}

		pos := 0
		for pos < len(buf) && isSpace(buf[pos]) {
			pos++
		}
		p.Skip(pos)
		if pos < len(buf) {
			break
		}
	}
	return nil
}

func (p *Tokenizer) skipOptionalWhiteSpace() error {
	if !p.Next() {
		return nil
	}
	buf, err := p.Peek()
	if err != nil {
		return err
	}
	if !isSpace(buf[0]) {
		return nil
	}
	return p.skipWhiteSpace()
}

func (p *Tokenizer) skipComment() error {
	for p.Next() {
		buf, err := p.Peek()
		if err != nil {
			return err
		}

		pos := 0
		for pos < len(buf) && buf[pos] != '\n' {
			pos++
		}
		if pos < len(buf) {
			p.Skip(pos + 1)
			return nil
		}
		p.Skip(pos)
	}
	return nil
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ExpansionLoopError reports a macro which exceeded the bounded
// expansion depth, i.e. a direct or indirect self-reference.
type ExpansionLoopError struct {
	Name string
}

func (err *ExpansionLoopError) Error() string {
	return "macro expansion loop while expanding " + err.Name
}
