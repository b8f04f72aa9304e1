// main.go -
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

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/seehuhn/texmath/ast"
	"github.com/seehuhn/texmath/cache"
	"github.com/seehuhn/texmath/parser"
	"github.com/seehuhn/texmath/tokenizer"
)

var (
	macroFile string
	showToks  bool
	cacheDir  string
	noCache   bool
)

var rootCmd = &cobra.Command{
	Use:           "texmath",
	Short:         "parse and reformat TeX math markup",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "parse an expression and print its canonical form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		lex, err := newTokenizer(input)
		if err != nil {
			return err
		}

		if showToks {
			for {
				tok, err := lex.NextToken()
				if err != nil {
					return err
				}
				if tok.Type == tokenizer.TokenEOF {
					return nil
				}
				fmt.Println(tok.String())
			}
		}

		row, err := parser.NewFromTokenizer(lex).ParseComplete()
		if err != nil {
			return err
		}
		fmt.Println(ast.Format(row))
		return nil
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "reformat an expression, reconstructing diagram source",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}

		var c *cache.Cache
		if !noCache {
			c, err = cache.NewCache(cacheDir, "fmt")
			if err != nil {
				log.Println("cache disabled:", err)
			} else {
				defer c.Close(1 << 20)
				if c.Has(string(input)) {
					data, err := c.Get(string(input))
					if err == nil {
						fmt.Println(string(data))
						return nil
					}
				}
			}
		}

		lex, err := newTokenizer(input)
		if err != nil {
			return err
		}
		row, err := parser.NewFromTokenizer(lex).ParseComplete()
		if err != nil {
			return err
		}

		out := formatResult(row)
		if c != nil {
			err = c.Put(string(input), []byte(out))
			if err != nil {
				log.Println("cache write failed:", err)
			}
		}
		fmt.Println(out)
		return nil
	},
}

// formatResult prints the canonical form of a parse result.  A lone
// commutative diagram is printed in reconstructed environment form.
func formatResult(row *ast.Row) string {
	if len(row.Nodes) == 1 {
		if grid, ok := row.Nodes[0].(*ast.Grid); ok && grid.IsCD {
			out, err := parser.EncodeCD(grid)
			if err == nil {
				return out
			}
		}
	}
	return ast.Format(row)
}

func newTokenizer(input []byte) (*tokenizer.Tokenizer, error) {
	lex := tokenizer.NewTokenizer()
	if macroFile != "" {
		err := lex.LoadMacroFile(macroFile)
		if err != nil {
			return nil, err
		}
	}
	lex.Prepend(input, "input")
	return lex, nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func main() {
	log.SetFlags(0)

	rootCmd.PersistentFlags().StringVar(&macroFile, "macros", "",
		"YAML file with macro definitions")
	parseCmd.Flags().BoolVar(&showToks, "tokens", false,
		"print the expanded token stream instead of the parse result")
	fmtCmd.Flags().StringVar(&cacheDir, "cache-dir", "",
		"cache directory for formatted output")
	fmtCmd.Flags().BoolVar(&noCache, "no-cache", false,
		"do not cache formatted output")
	rootCmd.AddCommand(parseCmd, fmtCmd)

	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
