// macrofile.go -
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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// macroFile is the on-disk format for seeding the macro table:
//
//	macros:
//	  "\\RR":
//	    body: "\\mathbb{R}"
//	  "\\abs":
//	    params: 1
//	    body: "\\left|#1\\right|"
type macroFile struct {
	Macros map[string]macroEntry `yaml:"macros"`
}

type macroEntry struct {
	Params int    `yaml:"params"`
	Body   string `yaml:"body"`
}

// LoadMacroFile reads macro definitions from a YAML file and installs
// them in the innermost group.
func (p *Tokenizer) LoadMacroFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}
	return p.LoadMacros(data)
}

// LoadMacros installs macro definitions from YAML data.  See
// LoadMacroFile for the expected format.
func (p *Tokenizer) LoadMacros(data []byte) error {
	var file macroFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return err
	}
	for name, entry := range file.Macros {
		if !strings.HasPrefix(name, "\\") {
			return fmt.Errorf("macro name %q: missing leading backslash", name)
		}
		if entry.Params < 0 || entry.Params > 9 {
			return fmt.Errorf("macro %s: invalid parameter count %d",
				name, entry.Params)
		}
		p.Define(name, entry.Params, entry.Body)
	}
	return nil
}
