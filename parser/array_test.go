// array_test.go -
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
	"reflect"
	"testing"

	"github.com/seehuhn/texmath/ast"
	"github.com/seehuhn/texmath/tokenizer"
)

func colSpecArg(text string) ast.Node {
	row := &ast.Row{}
	for _, c := range text {
		row.Nodes = append(row.Nodes, &ast.Sym{Text: string(c)})
	}
	return row
}

func TestParseColSpec(t *testing.T) {
	type testCase struct {
		spec   string
		aligns []ast.Align
		seps   []ast.Sep
	}
	cases := []testCase{
		{"c|cc",
			[]ast.Align{ast.AlignCenter, ast.AlignCenter, ast.AlignCenter},
			[]ast.Sep{ast.SepNone, ast.SepSolid, ast.SepNone, ast.SepNone}},
		{"l:r",
			[]ast.Align{ast.AlignLeft, ast.AlignRight},
			[]ast.Sep{ast.SepNone, ast.SepDashed, ast.SepNone}},
		{"|c|",
			[]ast.Align{ast.AlignCenter},
			[]ast.Sep{ast.SepSolid, ast.SepSolid}},
		{"rr",
			[]ast.Align{ast.AlignRight, ast.AlignRight},
			[]ast.Sep{ast.SepNone, ast.SepNone, ast.SepNone}},
	}
	for _, test := range cases {
		aligns, seps, err := parseColSpec(colSpecArg(test.spec), false)
		if err != nil {
			t.Errorf("%q: %v", test.spec, err)
			continue
		}
		if !reflect.DeepEqual(aligns, test.aligns) {
			t.Errorf("%q: expected alignments %v, got %v",
				test.spec, test.aligns, aligns)
		}
		if !reflect.DeepEqual(seps, test.seps) {
			t.Errorf("%q: expected separators %v, got %v",
				test.spec, test.seps, seps)
		}
		if len(seps) != len(aligns)+1 {
			t.Errorf("%q: %d alignments but %d separators",
				test.spec, len(aligns), len(seps))
		}
	}
}

func TestParseColSpecInvalid(t *testing.T) {
	_, _, err := parseColSpec(colSpecArg("cxc"), false)
	if err == nil {
		t.Error("invalid alignment letter not detected")
	}
	_, _, err = parseColSpec(colSpecArg("r"), true)
	if err == nil {
		t.Error("right alignment not rejected for subarray")
	}
}

func parseGrid(t *testing.T, input string) *ast.Grid {
	t.Helper()
	row, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(row.Nodes) != 1 {
		t.Fatalf("expected a single node, got %d", len(row.Nodes))
	}
	node := row.Nodes[0]
	if delim, ok := node.(*ast.Delim); ok {
		node = delim.Body
	}
	grid, ok := node.(*ast.Grid)
	if !ok {
		t.Fatalf("expected a grid, got %v", node)
	}
	return grid
}

func TestArrayColumns(t *testing.T) {
	grid := parseGrid(t, "\\begin{array}{c|cc} a & b & c \\end{array}")
	wantAligns := []ast.Align{ast.AlignCenter, ast.AlignCenter, ast.AlignCenter}
	if !reflect.DeepEqual(grid.ColAlign, wantAligns) {
		t.Errorf("expected alignments %v, got %v", wantAligns, grid.ColAlign)
	}
	wantSeps := []ast.Sep{ast.SepNone, ast.SepSolid, ast.SepNone, ast.SepNone}
	if !reflect.DeepEqual(grid.ColSep, wantSeps) {
		t.Errorf("expected separators %v, got %v", wantSeps, grid.ColSep)
	}
	if len(grid.Rows) != 1 || len(grid.Rows[0]) != 3 {
		t.Fatalf("expected one row of three cells, got %v", grid.Rows)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := ast.Format(grid.Rows[0][i]); got != want {
			t.Errorf("cell %d: expected %q, got %q", i, want, got)
		}
	}
	if !grid.FrameSkip {
		t.Error("array grid lost its frame spacing flag")
	}
}

func TestPmatrix(t *testing.T) {
	row, err := Parse("\\begin{pmatrix} a & b \\\\ c & d \\end{pmatrix}")
	if err != nil {
		t.Fatal(err)
	}
	delim, ok := row.Nodes[0].(*ast.Delim)
	if !ok {
		t.Fatalf("expected a delimited node, got %v", row.Nodes[0])
	}
	if delim.Left != "(" || delim.Right != ")" {
		t.Errorf("expected round brackets, got %q and %q",
			delim.Left, delim.Right)
	}
	grid, ok := delim.Body.(*ast.Grid)
	if !ok {
		t.Fatalf("expected a grid body, got %v", delim.Body)
	}
	if len(grid.Rows) != 2 || len(grid.Rows[0]) != 2 || len(grid.Rows[1]) != 2 {
		t.Errorf("expected a 2x2 grid, got %v", grid.Rows)
	}
}

func TestDanglingRow(t *testing.T) {
	grid := parseGrid(t, "\\begin{matrix} a \\\\ \\end{matrix}")
	if len(grid.Rows) != 1 {
		t.Errorf("expected dangling row to be dropped, got %d rows",
			len(grid.Rows))
	}
	if len(grid.RowSep) != len(grid.Rows)+1 {
		t.Errorf("%d rows but %d row separators",
			len(grid.Rows), len(grid.RowSep))
	}

	grid = parseGrid(t, "\\begin{matrix} a \\\\ b \\end{matrix}")
	if len(grid.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(grid.Rows))
	}
}

// TestEmptyBody checks that a body with no cells keeps its single
// empty row: the drop of a trailing empty row only applies when other
// rows precede it.
func TestEmptyBody(t *testing.T) {
	grid := parseGrid(t, "\\begin{matrix}\\end{matrix}")
	if len(grid.Rows) != 1 || len(grid.Rows[0]) != 1 {
		t.Fatalf("expected one row with one cell, got %v", grid.Rows)
	}
	if !cellIsEmpty(grid.Rows[0][0]) {
		t.Errorf("expected an empty cell, got %v", grid.Rows[0][0])
	}
	if len(grid.RowSep) != 2 {
		t.Errorf("expected 2 row separators, got %d", len(grid.RowSep))
	}
}

func TestSmallmatrix(t *testing.T) {
	grid := parseGrid(t, "\\begin{smallmatrix} a & b \\end{smallmatrix}")
	if grid.Stretch != 0.5 {
		t.Errorf("expected stretch 0.5, got %g", grid.Stretch)
	}
	if !grid.Compact {
		t.Error("smallmatrix grid not compact")
	}
	styled, ok := grid.Rows[0][0].(*ast.Styled)
	if !ok || styled.Style != ast.Script {
		t.Errorf("expected script-style cell, got %v", grid.Rows[0][0])
	}
}

func TestSubarray(t *testing.T) {
	grid := parseGrid(t, "\\begin{subarray}{c} a \\\\ b \\end{subarray}")
	if len(grid.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(grid.Rows))
	}
	if grid.Stretch != 0.5 {
		t.Errorf("expected stretch 0.5, got %g", grid.Stretch)
	}

	_, err := Parse("\\begin{subarray}{cc} a \\end{subarray}")
	if err == nil {
		t.Error("two-column specification not rejected")
	}

	_, err = Parse("\\begin{subarray}{c} a & b \\end{subarray}")
	if err == nil {
		t.Error("second column in row not rejected")
	}
}

func TestRuleMarkers(t *testing.T) {
	grid := parseGrid(t,
		"\\begin{matrix} \\hline a \\\\ \\hdashline b \\end{matrix}")
	want := []ast.Sep{ast.SepSolid, ast.SepDashed, ast.SepNone}
	if !reflect.DeepEqual(grid.RowSep, want) {
		t.Errorf("expected row separators %v, got %v", want, grid.RowSep)
	}
}

func TestRowGap(t *testing.T) {
	grid := parseGrid(t, "\\begin{matrix} a \\\\[2ex] b \\end{matrix}")
	if len(grid.RowGaps) != 2 {
		t.Fatalf("expected 2 row gap entries, got %d", len(grid.RowGaps))
	}
	gap := grid.RowGaps[0]
	if gap == nil || gap.Amount != 2 || gap.Unit != "ex" {
		t.Errorf("expected gap of 2ex, got %v", gap)
	}
	if grid.RowGaps[1] != nil {
		t.Errorf("unexpected gap after last row: %v", grid.RowGaps[1])
	}

	_, err := Parse("\\begin{matrix} a \\\\[2xyz] b \\end{matrix}")
	if err == nil {
		t.Error("invalid size unit not rejected")
	}
}

func TestArrayStretch(t *testing.T) {
	grid := parseGrid(t,
		"\\def\\arraystretch{1.5}\\begin{matrix} a \\end{matrix}")
	if grid.Stretch != 1.5 {
		t.Errorf("expected stretch 1.5, got %g", grid.Stretch)
	}

	_, err := Parse("\\def\\arraystretch{-1}\\begin{matrix} a \\end{matrix}")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("negative stretch not rejected: %v", err)
	}

	_, err = Parse("\\def\\arraystretch{big}\\begin{matrix} a \\end{matrix}")
	if !errors.As(err, &parseErr) {
		t.Fatalf("non-numeric stretch not rejected: %v", err)
	}
}

func TestArrayBadSeparator(t *testing.T) {
	_, err := Parse("\\begin{matrix} a } b \\end{matrix}")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

// TestRowBreakScope checks that the \\ alias installed while parsing a
// tabular body is removed again afterwards, on success and on error.
func TestRowBreakScope(t *testing.T) {
	inputs := []string{
		"\\begin{matrix} a \\\\ b \\end{matrix}",
		"\\begin{matrix} a } b \\end{matrix}",
	}
	for _, input := range inputs {
		lex := tokenizer.NewTokenizer()
		lex.Prepend([]byte(input), "input")
		if lex.Macros().Lookup("\\\\") != nil {
			t.Fatal("row break macro defined before parsing")
		}
		p := NewFromTokenizer(lex)
		p.ParseComplete()
		if lex.Macros().Lookup("\\\\") != nil {
			t.Errorf("%q: row break macro leaked out of tabular body", input)
		}
		if d := lex.Macros().GroupDepth(); d != 0 {
			t.Errorf("%q: %d groups left open", input, d)
		}
	}
}
