// namespace.go -
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

// MacroDef is a named rewrite rule.  When a control sequence with a
// definition is encountered, NumArgs arguments are read from the
// input and substituted for #1, #2, ... in Body; the result replaces
// the control sequence in the input stream.
type MacroDef struct {
	NumArgs int
	Body    string
}

// Namespace is a macro table with TeX grouping semantics.  Macro
// definitions made while a group is open are reverted when the group
// ends, restoring the previous definition (or the previous absence of
// a definition).
type Namespace struct {
	table map[string]*MacroDef
	undo  []map[string]*MacroDef
}

// NewNamespace creates an empty macro table with no open groups.
func NewNamespace() *Namespace {
	return &Namespace{
		table: make(map[string]*MacroDef),
	}
}

// Define installs a definition for the given control sequence in the
// innermost group.  Any previous definition is shadowed and will be
// restored when the current group ends.
func (ns *Namespace) Define(name string, def *MacroDef) {
	if n := len(ns.undo); n > 0 {
		frame := ns.undo[n-1]
		if _, seen := frame[name]; !seen {
			// Record the value from before the group was opened.
			// A nil entry means the name was undefined.
			frame[name] = ns.table[name]
		}
	}
	ns.table[name] = def
}

// Lookup returns the nearest definition of the given control
// sequence, or nil if the name is undefined.
func (ns *Namespace) Lookup(name string) *MacroDef {
	return ns.table[name]
}

// BeginGroup opens a new group.  Definitions made until the matching
// EndGroup call are local to the group.
func (ns *Namespace) BeginGroup() {
	ns.undo = append(ns.undo, make(map[string]*MacroDef))
}

// EndGroup closes the innermost group and reverts all definitions
// made while the group was open.  Calling EndGroup with no open group
// is a programming error and panics.
func (ns *Namespace) EndGroup() {
	n := len(ns.undo)
	if n == 0 {
		panic("EndGroup called with no open group")
	}
	frame := ns.undo[n-1]
	ns.undo = ns.undo[:n-1]
	for name, old := range frame {
		if old == nil {
			delete(ns.table, name)
		} else {
			ns.table[name] = old
		}
	}
}

// GroupDepth returns the number of currently open groups.
func (ns *Namespace) GroupDepth() int {
	return len(ns.undo)
}
