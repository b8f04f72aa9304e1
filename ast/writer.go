// writer.go -
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

package ast

import "strings"

// Format encodes a subtree back into TeX source text.  The result is
// a canonical form: white space is reduced to what is needed to keep
// control sequence names from running into the following text.
func Format(node Node) string {
	var w writer
	w.node(node)
	return w.b.String()
}

// FormatArrow encodes a diagram arrow cell.  Only the rightward and
// downward glyphs are emitted; the parser records '<' arrows with
// their original kind, but direction beyond the axis is not
// distinguished at this layer.
func FormatArrow(a *Arrow) string {
	switch a.Kind {
	case '=':
		return "@="
	case '|':
		return "@|"
	case '.':
		return "@."
	}
	c := ">"
	if a.Dir == ArrowVertical {
		c = "V"
	}
	la := arrowLabel(a.LabelA, c)
	lb := arrowLabel(a.LabelB, c)
	return "@" + c + la + c + lb + c
}

// arrowLabel encodes one arrow label.  Label text containing the
// delimiter character or an @ marker is brace-wrapped, so that the
// encoded arrow parses back to the same label.
func arrowLabel(label Node, delim string) string {
	text := Format(label)
	if strings.ContainsAny(text, delim+"@") {
		return "{" + text + "}"
	}
	return text
}

type writer struct {
	b strings.Builder

	// ctrlWord is true if the output so far ends in a letter-named
	// control sequence, so that a following letter would extend the
	// name and needs a separating space.
	ctrlWord bool
}

func (w *writer) write(s string) {
	if s == "" {
		return
	}
	if w.ctrlWord && isLetter(s[0]) {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(s)
	w.ctrlWord = endsInControlWord(s)
}

func (w *writer) node(node Node) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case *Sym:
		w.write(n.Text)
	case *Row:
		for _, c := range n.Nodes {
			w.node(c)
		}
	case *Styled:
		w.write("{")
		w.write(n.Style.String())
		w.node(n.Body)
		w.write("}")
	case *Delim:
		w.write("\\left")
		w.write(n.Left)
		w.node(n.Body)
		w.write("\\right")
		w.write(n.Right)
	case *Grid:
		w.grid(n)
	case *Arrow:
		w.write(FormatArrow(n))
	}
}

func (w *writer) grid(g *Grid) {
	name := "matrix"
	switch {
	case g.IsCD:
		name = "CD"
	case len(g.ColAlign) > 0:
		name = "array"
	}
	w.write("\\begin{" + name + "}")
	if name == "array" {
		w.write("{" + colSpecString(g) + "}")
	}
	for i, row := range g.Rows {
		if i > 0 {
			w.write("\\\\")
		}
		for j, cell := range row {
			if j > 0 {
				if g.IsCD {
					w.write(" ")
				} else {
					w.write("&")
				}
			}
			w.node(cell)
		}
	}
	w.write("\\end{" + name + "}")
}

func colSpecString(g *Grid) string {
	sep := func(i int) string {
		if i >= len(g.ColSep) {
			return ""
		}
		switch g.ColSep[i] {
		case SepSolid:
			return "|"
		case SepDashed:
			return ":"
		}
		return ""
	}

	var b strings.Builder
	for i, a := range g.ColAlign {
		b.WriteString(sep(i))
		switch a {
		case AlignLeft:
			b.WriteByte('l')
		case AlignRight:
			b.WriteByte('r')
		default:
			b.WriteByte('c')
		}
	}
	b.WriteString(sep(len(g.ColAlign)))
	return b.String()
}

// endsInControlWord reports whether s ends in a backslash followed by
// one or more letters.
func endsInControlWord(s string) bool {
	i := len(s)
	for i > 0 && isLetter(s[i-1]) {
		i--
	}
	return i > 0 && i < len(s) && s[i-1] == '\\'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
