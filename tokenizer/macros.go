// macros.go -
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
	"bytes"
	"io"
	"strconv"
	"strings"
)

// expand reads the arguments of a macro call and splices the
// substituted replacement text into the input stream.
func (p *Tokenizer) expand(name string, def *MacroDef) error {
	args := make([]string, def.NumArgs)
	for i := range args {
		arg, err := p.readMandatoryArg()
		if err != nil {
			return err
		}
		args[i] = arg
	}
	out := substituteMacroArgs(def.Body, args)
	p.Prepend([]byte(out), name+" macro body")
	return nil
}

// readDef handles the \def primitive:
//
//	\def\name#1#2{replacement}
//
// The definition is installed in the innermost group.
func (p *Tokenizer) readDef() error {
	defName, err := p.readMacroName()
	if err != nil {
		return err
	}
	if defName == "\\def" || !strings.HasPrefix(defName, "\\") {
		return p.MakeError("invalid macro name " + strconv.Quote(defName))
	}

	count := 0
	idx := 1
	for p.Next() {
		iStr := "#" + strconv.Itoa(idx)
		idx++

		buf, err := p.Peek()
		if err != nil {
			return err
		}
		if bytes.HasPrefix(buf, []byte(iStr)) {
			count++
			p.Skip(len(iStr))
		} else {
			break
		}
	}

	body, err := p.readMandatoryArg()
	if err != nil {
		return err
	}

	p.macros.Define(defName, &MacroDef{
		NumArgs: count,
		Body:    body,
	})
	return nil
}

// readMandatoryArg reads one macro argument as raw text: either a
// balanced brace group (braces stripped), a single control sequence,
// or a single character.
func (p *Tokenizer) readMandatoryArg() (string, error) {
	err := p.skipOptionalWhiteSpace()
	if err != nil {
		return "", err
	}

	if !p.Next() {
		return "", io.EOF
	}
	buf, err := p.Peek()
	if err != nil {
		return "", err
	}
	switch {
	case buf[0] == '{':
		p.Skip(1)
		return p.ReadBalancedUntil('}')
	case buf[0] == '\\':
		return p.readMacroName()
	default:
		c := buf[0]
		p.Skip(1)
		return string(c), nil
	}
}

// substituteMacroArgs replaces #1, #2, ... in body by the
// corresponding argument values.  A doubled ## escapes to a literal
// # followed by the next character.
func substituteMacroArgs(body string, args []string) string {
	var parts []string

	partStart := 0
	numStart := -1
	hashSeen := false
	for pos := 0; pos < len(body); pos++ {
		c := body[pos]

		if numStart >= 0 {
			if isDigit(c) {
				continue
			}

			num, err := strconv.Atoi(body[numStart:pos])
			if err == nil && num > 0 && num <= len(args) {
				parts = append(parts, args[num-1])
			}
			partStart = pos
			numStart = -1
		}

		switch {
		case hashSeen && isDigit(c):
			numStart = pos
			hashSeen = false
		case c == '#' && !hashSeen:
			parts = append(parts, body[partStart:pos])
			partStart = pos + 1
			hashSeen = true
		default:
			hashSeen = false
		}
	}
	if numStart >= 0 {
		num, err := strconv.Atoi(body[numStart:])
		if err == nil && num > 0 && num <= len(args) {
			parts = append(parts, args[num-1])
		}
		partStart = len(body)
	}
	parts = append(parts, body[partStart:])
	return strings.Join(parts, "")
}
