// environments.go -
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

package parser

import (
	"strconv"
	"strings"

	"github.com/seehuhn/texmath/ast"
	"github.com/seehuhn/texmath/tokenizer"
)

// EnvContext carries the resolved environment name and the parsed
// arguments into an environment handler.  The name is needed because
// some handlers branch on alias, e.g. darray forces display-style
// cells and the matrix variants select bracket glyphs.
type EnvContext struct {
	Name string
	Args []ast.Node
}

type envHandler func(p *Parser, env *EnvContext) (ast.Node, error)

type envSpec struct {
	numArgs int
	handler envHandler
}

// environments maps each environment name to its handler and the
// number of required arguments read before the handler is invoked.
// The map is filled in at init time: the handlers recursively reach
// parseEnvironment, so a composite literal would form an
// initialization cycle.
var environments = make(map[string]envSpec)

func init() {
	environments["array"] = envSpec{1, arrayHandler}
	environments["darray"] = envSpec{1, arrayHandler}
	environments["matrix"] = envSpec{0, matrixHandler}
	environments["pmatrix"] = envSpec{0, matrixHandler}
	environments["bmatrix"] = envSpec{0, matrixHandler}
	environments["Bmatrix"] = envSpec{0, matrixHandler}
	environments["vmatrix"] = envSpec{0, matrixHandler}
	environments["Vmatrix"] = envSpec{0, matrixHandler}
	environments["smallmatrix"] = envSpec{0, smallmatrixHandler}
	environments["subarray"] = envSpec{1, subarrayHandler}
	environments["CD"] = envSpec{0, cdHandler}
}

// parseEnvironment dispatches \begin{name} to the registered handler
// and checks the matching \end{name}.  The handler parses the body up
// to, but not including, the \end token.
func (p *Parser) parseEnvironment() (ast.Node, error) {
	p.Consume() // the \begin token

	name, err := p.parseEnvName()
	if err != nil {
		return nil, err
	}
	spec, ok := environments[name]
	if !ok {
		return nil, &ParseError{Msg: "unknown environment " + strconv.Quote(name)}
	}

	env := &EnvContext{Name: name}
	for i := 0; i < spec.numArgs; i++ {
		arg, err := p.ParseArgNode(false)
		if err != nil {
			return nil, err
		}
		env.Args = append(env.Args, arg)
	}

	node, err := spec.handler(p, env)
	if err != nil {
		return nil, err
	}

	tok, err := p.Fetch()
	if err != nil {
		return nil, err
	}
	if tok.Type != tokenizer.TokenMacro || tok.Text != "\\end" {
		return nil, p.unexpected(tok, "expected \\end{"+name+"}")
	}
	p.Consume()
	endName, err := p.parseEnvName()
	if err != nil {
		return nil, err
	}
	if endName != name {
		return nil, &ParseError{
			Msg: "mismatched environment: \\begin{" + name +
				"} closed by \\end{" + endName + "}",
		}
	}
	return node, nil
}

// parseEnvName reads the brace-delimited environment name after
// \begin or \end.
func (p *Parser) parseEnvName() (string, error) {
	err := p.ConsumeSpaces()
	if err != nil {
		return "", err
	}
	err = p.expectChar("{")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		tok, err := p.Fetch()
		if err != nil {
			return "", err
		}
		if tok.IsChar("}") {
			p.Consume()
			break
		}
		if tok.Type != tokenizer.TokenChar {
			return "", p.unexpected(tok, "invalid environment name")
		}
		b.WriteString(tok.Text)
		p.Consume()
	}
	return strings.TrimSpace(b.String()), nil
}
