// array.go -
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

// arrayOptions control how parseArrayBody assembles a grid.
type arrayOptions struct {
	// style, if set, wraps every cell in a math style override.
	style ast.Style

	// stretch overrides the row stretch factor.  When zero, the
	// value of \arraystretch is used, defaulting to 1.
	stretch float64

	compact   bool
	frameSkip bool

	// maxCols, if positive, limits the number of cells per row.
	maxCols int
	envName string
}

func arrayHandler(p *Parser, env *EnvContext) (ast.Node, error) {
	aligns, seps, err := parseColSpec(env.Args[0], false)
	if err != nil {
		return nil, err
	}

	opts := arrayOptions{frameSkip: true, envName: env.Name}
	if env.Name == "darray" {
		opts.style = ast.Display
	}
	grid, err := p.parseArrayBody(opts)
	if err != nil {
		return nil, err
	}
	grid.ColAlign = aligns
	grid.ColSep = seps
	return grid, nil
}

// matrixDelims gives the bracket glyphs selected by the matrix
// aliases.  Plain matrix has no brackets and no entry here.
var matrixDelims = map[string][2]string{
	"pmatrix": {"(", ")"},
	"bmatrix": {"[", "]"},
	"Bmatrix": {"\\{", "\\}"},
	"vmatrix": {"|", "|"},
	"Vmatrix": {"\\Vert", "\\Vert"},
}

func matrixHandler(p *Parser, env *EnvContext) (ast.Node, error) {
	grid, err := p.parseArrayBody(arrayOptions{envName: env.Name})
	if err != nil {
		return nil, err
	}
	if d, ok := matrixDelims[env.Name]; ok {
		return &ast.Delim{Left: d[0], Right: d[1], Body: grid}, nil
	}
	return grid, nil
}

func smallmatrixHandler(p *Parser, env *EnvContext) (ast.Node, error) {
	return p.parseArrayBody(arrayOptions{
		style:   ast.Script,
		stretch: 0.5,
		compact: true,
		envName: env.Name,
	})
}

func subarrayHandler(p *Parser, env *EnvContext) (ast.Node, error) {
	aligns, seps, err := parseColSpec(env.Args[0], true)
	if err != nil {
		return nil, err
	}
	if len(aligns) > 1 {
		return nil, &ParseError{Msg: "{subarray} can contain only one column"}
	}

	grid, err := p.parseArrayBody(arrayOptions{
		stretch: 0.5,
		maxCols: 1,
		envName: env.Name,
	})
	if err != nil {
		return nil, err
	}
	grid.ColAlign = aligns
	grid.ColSep = seps
	return grid, nil
}

// parseColSpec interprets a column specification argument, a run of
// alignment letters interleaved with separator marks.  The returned
// separator list always has exactly one more entry than the alignment
// list.  For subarray only the letters l and c are allowed.
func parseColSpec(arg ast.Node, subarray bool) ([]ast.Align, []ast.Sep, error) {
	var syms []*ast.Sym
	switch n := arg.(type) {
	case *ast.Sym:
		syms = []*ast.Sym{n}
	case *ast.Row:
		for _, c := range n.Nodes {
			s, ok := c.(*ast.Sym)
			if !ok {
				return nil, nil, &ParseError{Msg: "unknown column alignment"}
			}
			syms = append(syms, s)
		}
	default:
		return nil, nil, &ParseError{Msg: "unknown column alignment"}
	}

	var aligns []ast.Align
	var seps []ast.Sep
	pending := ast.SepNone
	letter := func(a ast.Align) {
		seps = append(seps, pending)
		pending = ast.SepNone
		aligns = append(aligns, a)
	}
	for _, s := range syms {
		switch s.Text {
		case "l":
			letter(ast.AlignLeft)
		case "c":
			letter(ast.AlignCenter)
		case "r":
			if subarray {
				return nil, nil, &ParseError{
					Msg: "unknown column alignment: " + s.Text,
				}
			}
			letter(ast.AlignRight)
		case "|":
			pending = ast.SepSolid
		case ":":
			pending = ast.SepDashed
		default:
			return nil, nil, &ParseError{
				Msg: "unknown column alignment: " + s.Text,
			}
		}
	}
	seps = append(seps, pending)
	return aligns, seps, nil
}

// parseArrayBody implements the generic tabular algorithm: rows are
// separated by \\ (aliased to \cr within the body), columns by &.
// The alias lives in a scope of its own, so redefinitions of \\
// inside the body cannot leak out; every cell additionally gets a
// scope of its own.
func (p *Parser) parseArrayBody(opts arrayOptions) (*ast.Grid, error) {
	p.lex.BeginGroup()
	defer p.lex.EndGroup()
	p.lex.Define("\\\\", 0, "\\cr")

	stretch := opts.stretch
	if stretch == 0 {
		text, ok, err := p.lex.ExpandAsText("\\arraystretch")
		if err != nil {
			return nil, err
		}
		if !ok {
			stretch = 1
		} else {
			val, err := strconv.ParseFloat(text, 64)
			if err != nil || val < 0 {
				return nil, &ParseError{
					Msg: "invalid \\arraystretch: " + strconv.Quote(text),
				}
			}
			stretch = val
		}
	}

	grid := &ast.Grid{
		Stretch:   stretch,
		Compact:   opts.compact,
		FrameSkip: opts.frameSkip,
	}

	sep, err := p.scanRuleMarkers()
	if err != nil {
		return nil, err
	}
	grid.RowSep = append(grid.RowSep, sep)

	var row []ast.Node
	for {
		cell, err := p.parseCell(opts.style)
		if err != nil {
			return nil, err
		}
		row = append(row, cell)
		if opts.maxCols > 0 && len(row) > opts.maxCols {
			return nil, &ParseError{
				Msg: "too many columns in {" + opts.envName + "} row",
			}
		}

		tok, err := p.Fetch()
		if err != nil {
			return nil, err
		}
		switch tok.Text {
		case "&":
			p.Consume()

		case "\\cr":
			p.Consume()
			gap, err := p.parseOptionalDimen()
			if err != nil {
				return nil, err
			}
			grid.Rows = append(grid.Rows, row)
			grid.RowGaps = append(grid.RowGaps, gap)
			row = nil

			sep, err := p.scanRuleMarkers()
			if err != nil {
				return nil, err
			}
			grid.RowSep = append(grid.RowSep, sep)

		case "\\end":
			// A dangling row terminator before \end leaves a single
			// empty cell; drop that row.  An empty row is kept when it
			// is the only one, so an empty body yields one empty cell.
			if len(row) == 1 && cellIsEmpty(row[0]) && len(grid.Rows) > 0 {
				break
			}
			grid.Rows = append(grid.Rows, row)
			grid.RowGaps = append(grid.RowGaps, nil)

		default:
			return nil, p.unexpected(tok,
				"expected column/row separator or end of environment")
		}

		if tok.Text == "\\end" {
			for len(grid.RowSep) < len(grid.Rows)+1 {
				grid.RowSep = append(grid.RowSep, ast.SepNone)
			}
			grid.RowSep = grid.RowSep[:len(grid.Rows)+1]
			return grid, nil
		}
	}
}

// parseCell parses one cell, bounded by &, \cr or the end of the
// environment, inside a macro scope of its own.
func (p *Parser) parseCell(style ast.Style) (ast.Node, error) {
	p.lex.BeginGroup()
	defer p.lex.EndGroup()

	body, err := p.ParseExpression(false, "\\cr")
	if err != nil {
		return nil, err
	}
	row := ast.Wrap(body)
	if style != ast.NoStyle {
		return &ast.Styled{Style: style, Body: row}, nil
	}
	return row, nil
}

// scanRuleMarkers consumes any run of \hline and \hdashline tokens
// and returns the resulting separator style for the row boundary at
// the current position.  The most recent marker wins.
func (p *Parser) scanRuleMarkers() (ast.Sep, error) {
	sep := ast.SepNone
	for {
		err := p.ConsumeSpaces()
		if err != nil {
			return sep, err
		}
		tok, err := p.Fetch()
		if err != nil {
			return sep, err
		}
		switch tok.Text {
		case "\\hline":
			sep = ast.SepSolid
		case "\\hdashline":
			sep = ast.SepDashed
		default:
			return sep, nil
		}
		p.Consume()
	}
}

// parseOptionalDimen reads a bracketed size, e.g. the [2ex] of
// \\[2ex].  Returns nil if the next token does not open a bracket.
func (p *Parser) parseOptionalDimen() (*ast.Dimen, error) {
	err := p.ConsumeSpaces()
	if err != nil {
		return nil, err
	}
	tok, err := p.Fetch()
	if err != nil {
		return nil, err
	}
	if !tok.IsChar("[") {
		return nil, nil
	}
	p.Consume()

	var b strings.Builder
	for {
		tok, err := p.Fetch()
		if err != nil {
			return nil, err
		}
		if tok.IsChar("]") {
			p.Consume()
			break
		}
		if tok.Type != tokenizer.TokenChar {
			return nil, p.unexpected(tok, "invalid size")
		}
		b.WriteString(tok.Text)
		p.Consume()
	}
	return parseDimen(strings.TrimSpace(b.String()))
}

var validUnits = map[string]bool{
	"pt": true, "mm": true, "cm": true, "in": true, "ex": true,
	"em": true, "mu": true, "bp": true, "pc": true, "dd": true,
	"cc": true, "sp": true,
}

func parseDimen(text string) (*ast.Dimen, error) {
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '+' || c == '-' || c == '.' || c >= '0' && c <= '9' {
			i++
		} else {
			break
		}
	}
	amount, err := strconv.ParseFloat(text[:i], 64)
	unit := strings.TrimSpace(text[i:])
	if err != nil || !validUnits[unit] {
		return nil, &ParseError{Msg: "invalid size " + strconv.Quote(text)}
	}
	return &ast.Dimen{Amount: amount, Unit: unit}, nil
}

func cellIsEmpty(cell ast.Node) bool {
	switch n := cell.(type) {
	case nil:
		return true
	case *ast.Row:
		return n.IsEmpty()
	case *ast.Styled:
		return n.Body.IsEmpty()
	}
	return false
}
