/*
 * palbart - Permanent symbol table (.prm) inspection tool.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// palbart-pst is a companion tool over the .prm permanent-symbol-table
// format that pal8asm's -p flag produces: unlike the assembler's own
// flat getopt flags, inspecting and comparing saved tables is naturally
// a multi-verb job (dump, diff), so this binary uses cobra instead.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/radekh/palbart/internal/asm"
)

func main() {
	root := &cobra.Command{
		Use:   "palbart-pst",
		Short: "Inspect and compare palbart permanent symbol table (.prm) files",
	}
	root.AddCommand(dumpCmd(), diffCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPrm(path string) (*asm.Assembler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a := asm.NewAssembler(false, asm.ModeBIN)
	if err := a.ReadPermanentTable(f); err != nil {
		return nil, err
	}
	return a, nil
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.prm>",
		Short: "Print every symbol a .prm file defines beyond the built-in seed table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadPrm(args[0])
			if err != nil {
				return err
			}
			st := a.SymbolTable()
			seed := asm.NewSymbolTable()
			for i := 0; i < st.Len(); i++ {
				if st.Type(i)&asm.Defined == 0 {
					continue
				}
				if j, _ := seed.Lookup(st.Name(i)); seed.Type(j)&asm.Defined != 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %04o\n", st.Name(i), st.Value(i))
			}
			return nil
		},
	}
}

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a.prm> <b.prm>",
		Short: "Show symbols whose value differs, or that only one file defines",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadPrm(args[0])
			if err != nil {
				return err
			}
			b, err := loadPrm(args[1])
			if err != nil {
				return err
			}
			av := symbolValues(a)
			bv := symbolValues(b)
			out := cmd.OutOrStdout()
			for name, v := range av {
				if w, ok := bv[name]; !ok {
					fmt.Fprintf(out, "- %-8s %04o (only in %s)\n", name, v, args[0])
				} else if w != v {
					fmt.Fprintf(out, "! %-8s %04o -> %04o\n", name, v, w)
				}
			}
			for name, v := range bv {
				if _, ok := av[name]; !ok {
					fmt.Fprintf(out, "+ %-8s %04o (only in %s)\n", name, v, args[1])
				}
			}
			return nil
		},
	}
}

func symbolValues(a *asm.Assembler) map[string]uint16 {
	st := a.SymbolTable()
	seed := asm.NewSymbolTable()
	out := make(map[string]uint16)
	for i := 0; i < st.Len(); i++ {
		if st.Type(i)&asm.Defined == 0 {
			continue
		}
		if j, _ := seed.Lookup(st.Name(i)); seed.Type(j)&asm.Defined != 0 {
			continue
		}
		out[st.Name(i)] = st.Value(i)
	}
	return out
}
