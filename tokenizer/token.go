// token.go -
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

import "strings"

// TokenType is used to enumerate different types of token.
type TokenType int

// The different token types used by this package.
const (
	// TokenMacro is a control sequence.  The token text includes the
	// leading backslash.
	TokenMacro TokenType = iota

	// TokenChar is a single printable character.  Runs of white space
	// are collapsed into a single " " character token.
	TokenChar

	// TokenEOF marks the end of the input.
	TokenEOF
)

// Token is a single syntactic unit of the TeX source.  Tokens are
// immutable once produced.
type Token struct {
	// Type describes which kind of token this is.
	Type TokenType

	// Text is the textual content of the token.  For TokenMacro this
	// is the name of the control sequence, including the leading
	// backslash.  Unused for TokenEOF.
	Text string
}

func (tok Token) String() string {
	if tok.Type == TokenEOF {
		return "<end of input>"
	}
	return tok.Text
}

// IsChar returns true if the token is a character token with the
// given text.
func (tok Token) IsChar(text string) bool {
	return tok.Type == TokenChar && tok.Text == text
}

// TokenList describes a run of tokens.
type TokenList []Token

// FormatText reassembles the tokens into TeX source text.  A space is
// inserted after a control sequence where the following token would
// otherwise extend the macro name.
func (toks TokenList) FormatText() string {
	var res []string
	mayNeedSpace := false
	for _, tok := range toks {
		switch tok.Type {
		case TokenMacro:
			res = append(res, tok.Text)
			mayNeedSpace = isLetter(tok.Text[len(tok.Text)-1])
		case TokenChar:
			if mayNeedSpace && isLetter(tok.Text[0]) {
				res = append(res, " ")
			}
			res = append(res, tok.Text)
			mayNeedSpace = false
		}
	}
	return strings.Join(res, "")
}
