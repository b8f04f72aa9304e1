// node.go -
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

// Package ast defines the syntax-tree node types constructed by the
// structural parser: symbols, rows, style overrides, delimited
// groups, tabular grids and diagram arrows.
package ast

// Node is a single node of the syntax tree.
type Node interface {
	node()
}

// Sym is a single symbol, either a printable character or a control
// sequence which was not recognised as anything more structured.
type Sym struct {
	Text string
}

func (*Sym) node() {}

// Row is an ordered run of nodes representing one line of math.  It
// is the universal container for a parsed expression and for the
// cells of a Grid.
type Row struct {
	Nodes []Node
}

func (*Row) node() {}

// Wrap packs a list of nodes into a Row.
func Wrap(nodes []Node) *Row {
	return &Row{Nodes: nodes}
}

// IsEmpty returns true if the row contains no nodes.
func (r *Row) IsEmpty() bool {
	return r == nil || len(r.Nodes) == 0
}

// Style selects a TeX math style override.
type Style int

// The styles a cell or group can be forced into.  The zero value
// means "no override".
const (
	NoStyle Style = iota
	Display
	Text
	Script
	ScriptScript
)

func (s Style) String() string {
	switch s {
	case Display:
		return "\\displaystyle"
	case Text:
		return "\\textstyle"
	case Script:
		return "\\scriptstyle"
	case ScriptScript:
		return "\\scriptscriptstyle"
	default:
		return ""
	}
}

// Styled wraps a row in a math style override.
type Styled struct {
	Style Style
	Body  *Row
}

func (*Styled) node() {}

// Delim wraps a body in a pair of stretchy bracket delimiters.
type Delim struct {
	Left  string
	Right string
	Body  Node
}

func (*Delim) node() {}

// Align describes the horizontal alignment of one grid column.
type Align int

// Column alignments.
const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Sep describes the style of a column or row separator line.
type Sep int

// Separator styles.
const (
	SepNone Sep = iota
	SepSolid
	SepDashed
)

// Dimen is a TeX dimension, e.g. the 2ex of \\[2ex].
type Dimen struct {
	Amount float64
	Unit   string
}

// Grid is the tabular intermediate structure shared by arrays, the
// matrix family and commutative diagrams.  A Grid is built
// incrementally by the parser and is immutable once handed off.
type Grid struct {
	// Rows holds the cells in row-major order.  A nil entry marks an
	// intentionally empty slot.
	Rows [][]Node

	// ColAlign holds one alignment per column.  Empty for diagrams
	// and the matrix family, whose alignment is fixed by the
	// surrounding system.
	ColAlign []Align

	// ColSep holds the vertical separator styles; when set, its
	// length is one more than the number of columns.
	ColSep []Sep

	// RowSep holds the horizontal rule styles before each row; its
	// length is one more than the number of rows.
	RowSep []Sep

	// RowGaps holds the extra vertical gap requested after each row,
	// or nil where no gap was given.
	RowGaps []*Dimen

	// Stretch is the row stretch factor (\arraystretch).
	Stretch float64

	// Compact requests tighter vertical spacing (smallmatrix).
	Compact bool

	// FrameSkip requests extra horizontal skip at the outer edges of
	// the grid (plain array).
	FrameSkip bool

	// IsCD marks the grid as a commutative diagram.
	IsCD bool
}

func (*Grid) node() {}

// ArrowDir is the axis of a diagram arrow.
type ArrowDir int

// Arrow directions.
const (
	ArrowHorizontal ArrowDir = iota
	ArrowVertical
)

// Arrow is a directional connector cell in a commutative diagram.
// Kind records the arrow character from the source notation:
// '<', '>', '=' and '.' are horizontal, 'A', 'V' and '|' vertical.
type Arrow struct {
	Dir  ArrowDir
	Kind byte

	// LabelA is the label above a horizontal arrow or left of a
	// vertical one; LabelB the label below or right.  Nil when the
	// arrow is unlabeled.
	LabelA Node
	LabelB Node
}

func (*Arrow) node() {}

// Labeled returns true if the arrow carries at least one label.
func (a *Arrow) Labeled() bool {
	return a.LabelA != nil || a.LabelB != nil
}
