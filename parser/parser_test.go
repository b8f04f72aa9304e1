// parser_test.go -
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
	"errors"
	"testing"

	"github.com/seehuhn/texmath/ast"
)

func TestParseSimple(t *testing.T) {
	row, err := Parse("a+b")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "+", "b"}
	if len(row.Nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(row.Nodes))
	}
	for i, node := range row.Nodes {
		sym, ok := node.(*ast.Sym)
		if !ok || sym.Text != want[i] {
			t.Errorf("node %d: expected symbol %q, got %v", i, want[i], node)
		}
	}
}

func TestParseGroup(t *testing.T) {
	row, err := Parse("a{bc}d")
	if err != nil {
		t.Fatal(err)
	}
	if len(row.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(row.Nodes))
	}
	group, ok := row.Nodes[1].(*ast.Row)
	if !ok || len(group.Nodes) != 2 {
		t.Errorf("expected two-element row, got %v", row.Nodes[1])
	}
}

func TestStopToken(t *testing.T) {
	p := New("ab,cd")
	body, err := p.ParseExpression(false, ",")
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 2 {
		t.Errorf("expected 2 nodes before stop token, got %d", len(body))
	}
	tok, err := p.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if !tok.IsChar(",") {
		t.Errorf("stop token consumed, next token is %v", tok)
	}
}

func TestBreakOnInfix(t *testing.T) {
	p := New("a\\over b")
	body, err := p.ParseExpression(true, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 {
		t.Errorf("expected 1 node before infix operator, got %d", len(body))
	}
	tok, err := p.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Text != "\\over" {
		t.Errorf("expected \\over, got %v", tok)
	}
}

func TestParseArgNode(t *testing.T) {
	p := New("x{yz}")
	arg, err := p.ParseArgNode(false)
	if err != nil {
		t.Fatal(err)
	}
	if sym, ok := arg.(*ast.Sym); !ok || sym.Text != "x" {
		t.Errorf("expected bare symbol, got %v", arg)
	}

	arg, err = p.ParseArgNode(false)
	if err != nil {
		t.Fatal(err)
	}
	if row, ok := arg.(*ast.Row); !ok || len(row.Nodes) != 2 {
		t.Errorf("expected two-element row, got %v", arg)
	}
}

func TestParseOptionalArg(t *testing.T) {
	p := New("[opt]x")
	arg, err := p.ParseArgNode(true)
	if err != nil {
		t.Fatal(err)
	}
	if arg == nil || ast.Format(arg) != "opt" {
		t.Errorf("expected optional argument, got %v", arg)
	}

	arg, err = p.ParseArgNode(true)
	if err != nil {
		t.Fatal(err)
	}
	if arg != nil {
		t.Errorf("missing optional argument misreported as %v", arg)
	}
}

func TestUnbalancedGroup(t *testing.T) {
	_, err := Parse("a}b")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGroupScoping(t *testing.T) {
	row, err := Parse("{\\def\\x{1}\\x}\\x")
	if err != nil {
		t.Fatal(err)
	}
	if len(row.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(row.Nodes))
	}
	group, ok := row.Nodes[0].(*ast.Row)
	if !ok || ast.Format(group) != "1" {
		t.Errorf("definition not visible inside group: %v", row.Nodes[0])
	}
	sym, ok := row.Nodes[1].(*ast.Sym)
	if !ok || sym.Text != "\\x" {
		t.Errorf("definition leaked out of group: %v", row.Nodes[1])
	}
}

// TestEnvironmentRegistry checks that every supported environment is
// registered with its handler and argument count by init time.
func TestEnvironmentRegistry(t *testing.T) {
	wantArgs := map[string]int{
		"array":       1,
		"darray":      1,
		"matrix":      0,
		"pmatrix":     0,
		"bmatrix":     0,
		"Bmatrix":     0,
		"vmatrix":     0,
		"Vmatrix":     0,
		"smallmatrix": 0,
		"subarray":    1,
		"CD":          0,
	}
	for name, numArgs := range wantArgs {
		entry, ok := environments[name]
		if !ok {
			t.Errorf("environment %q not registered", name)
			continue
		}
		if entry.handler == nil {
			t.Errorf("environment %q has no handler", name)
		}
		if entry.numArgs != numArgs {
			t.Errorf("environment %q: expected %d arguments, got %d",
				name, numArgs, entry.numArgs)
		}
	}
	if len(environments) != len(wantArgs) {
		t.Errorf("expected %d environments, got %d",
			len(wantArgs), len(environments))
	}
}

func TestUnknownEnvironment(t *testing.T) {
	_, err := Parse("\\begin{nosuch}x\\end{nosuch}")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestMismatchedEnvironment(t *testing.T) {
	_, err := Parse("\\begin{matrix}x\\end{pmatrix}")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
