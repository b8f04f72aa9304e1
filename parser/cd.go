// cd.go -
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
)

// cdHandler parses the body of a CD environment into a grid whose
// rows alternate between content rows (cell, arrow, cell, ...) and
// connector rows of vertical arrows.
//
// The body is first split into rows at \\ and each row parsed as one
// flat expression; the row is then folded into cells at every @
// arrow marker.  The generic fold always produces a cell before the
// first arrow; for connector rows, which by definition have no
// leading content cell, that spurious cell is dropped and no trailing
// cell is kept.
func cdHandler(p *Parser, env *EnvContext) (ast.Node, error) {
	p.lex.BeginGroup()
	defer p.lex.EndGroup()
	p.lex.Define("\\\\", 0, "\\cr")

	var parsedRows [][]ast.Node
loop:
	for {
		nodes, err := p.ParseExpression(false, "\\cr")
		if err != nil {
			return nil, err
		}
		tok, err := p.Fetch()
		if err != nil {
			return nil, err
		}
		switch tok.Text {
		case "\\cr":
			p.Consume()
			parsedRows = append(parsedRows, nodes)
		case "\\end":
			// Drop one trailing empty row if the body ended in a
			// bare row break.
			if len(nodes) > 0 || len(parsedRows) == 0 {
				parsedRows = append(parsedRows, nodes)
			}
			break loop
		default:
			return nil, p.unexpected(tok,
				"expected column/row separator or end of environment")
		}
	}

	grid := &ast.Grid{IsCD: true, Stretch: 1}
	for i, rowNodes := range parsedRows {
		cells, err := splitCDRow(rowNodes, i%2 == 1)
		if err != nil {
			return nil, err
		}
		grid.Rows = append(grid.Rows, cells)
	}
	return grid, nil
}

// splitCDRow folds a flat node list into cells, closing the current
// cell at every @ marker and inserting the parsed arrow cell.
func splitCDRow(nodes []ast.Node, connector bool) ([]ast.Node, error) {
	var cells []ast.Node
	var buf []ast.Node
	i := 0
	for i < len(nodes) {
		if !isArrowStart(nodes[i]) {
			buf = append(buf, nodes[i])
			i++
			continue
		}
		cells = append(cells, ast.Wrap(buf))
		buf = nil
		arrow, next, err := parseCDArrow(nodes, i)
		if err != nil {
			return nil, err
		}
		cells = append(cells, arrow)
		i = next
	}
	if connector {
		if len(cells) > 0 {
			cells = cells[1:]
		}
	} else {
		cells = append(cells, ast.Wrap(buf))
	}
	return cells, nil
}

func isArrowStart(node ast.Node) bool {
	sym, ok := node.(*ast.Sym)
	return ok && sym.Text == "@"
}

// parseCDArrow interprets the nodes following an @ marker at
// nodes[start].  The next node names the arrow kind; for the labeled
// kinds <, >, A and V up to two label groups follow, each terminated
// by a repetition of the kind character.  The returned index points
// past the arrow.
func parseCDArrow(nodes []ast.Node, start int) (*ast.Arrow, int, error) {
	i := start + 1
	if i >= len(nodes) {
		return nil, 0, &ParseError{Msg: "missing arrow terminator"}
	}
	sym, ok := nodes[i].(*ast.Sym)
	if !ok {
		return nil, 0, &ParseError{Msg: "unknown arrow kind"}
	}
	kind := sym.Text
	i++

	switch kind {
	case "=", ".":
		return &ast.Arrow{Dir: ast.ArrowHorizontal, Kind: kind[0]}, i, nil
	case "|":
		return &ast.Arrow{Dir: ast.ArrowVertical, Kind: '|'}, i, nil
	case "<", ">", "A", "V":
		// labeled arrow, handled below
	default:
		return nil, 0, &ParseError{
			Msg: "unknown arrow kind " + strconv.Quote(kind),
		}
	}

	dir := ast.ArrowHorizontal
	if kind == "A" || kind == "V" {
		dir = ast.ArrowVertical
	}
	arrow := &ast.Arrow{Dir: dir, Kind: kind[0]}

	var labels [2]ast.Node
	for li := range labels {
		var buf []ast.Node
		found := false
		for i < len(nodes) {
			if s, ok := nodes[i].(*ast.Sym); ok {
				if s.Text == kind {
					found = true
					i++
					break
				}
				if s.Text == "@" {
					return nil, 0, &ParseError{Msg: "missing arrow terminator"}
				}
			}
			buf = append(buf, nodes[i])
			i++
		}
		if !found {
			return nil, 0, &ParseError{Msg: "missing arrow terminator"}
		}
		if len(buf) > 0 {
			labels[li] = ast.Wrap(buf)
		}
	}
	arrow.LabelA, arrow.LabelB = labels[0], labels[1]
	return arrow, i, nil
}

// UnsupportedError is the structured result returned by EncodeCD for
// a grid it cannot encode.  It is a caller-detectable precondition
// violation rather than malformed input, and therefore uses its own
// channel instead of ParseError.
type UnsupportedError struct {
	Code    string
	Message string
	Node    ast.Node
}

func (err *UnsupportedError) Error() string {
	return err.Code + ": " + err.Message
}

// EncodeCD reconstructs the \begin{CD}...\end{CD} source form of a
// diagram grid.  Only grids with the diagram flag set are supported.
// The reconstruction is best effort: arrow cells which do not carry
// a recognisable arrow node are emitted in the plain undecorated
// form, and only the rightward and downward glyphs are used.
func EncodeCD(grid *ast.Grid) (string, error) {
	if !grid.IsCD {
		return "", &UnsupportedError{
			Code:    "unsupported-matrix-kind",
			Message: "only commutative diagrams can be encoded",
			Node:    grid,
		}
	}

	rows := grid.Rows
	if n := len(rows); n > 0 && rowIsEmpty(rows[n-1]) {
		rows = rows[:n-1]
	}

	var lines []string
	for i, row := range rows {
		var parts []string
		for j, cell := range row {
			parts = append(parts, encodeCDCell(cell, i, j))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return "\\begin{CD}\n" + strings.Join(lines, " \\\\\n") + "\n\\end{CD}", nil
}

// encodeCDCell encodes one grid slot.  Content rows (even i)
// alternate content cells and horizontal arrows; connector rows (odd
// i) alternate vertical arrows and empty slots.
func encodeCDCell(cell ast.Node, i, j int) string {
	if arrow, ok := cell.(*ast.Arrow); ok {
		return ast.FormatArrow(arrow)
	}
	arrowSlot := (i%2 == 0) == (j%2 == 1)
	if arrowSlot {
		if i%2 == 1 {
			return "@VVV"
		}
		return "@>>>"
	}
	return ast.Format(cell)
}

func rowIsEmpty(row []ast.Node) bool {
	for _, cell := range row {
		if _, ok := cell.(*ast.Arrow); ok {
			return false
		}
		if !cellIsEmpty(cell) {
			return false
		}
	}
	return true
}
