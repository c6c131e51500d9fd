/*
 * palbart - Permanent symbol table (.prm) writer/reader.
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

package asm

import (
	"bufio"
	"fmt"
	"io"
)

// WritePermanentTable writes every symbol beyond the built-in seed as a
// re-loadable source fragment: EXPUNGE to clear the in-memory default,
// one FIXMRI line per MRI-typed user symbol, one NAME=value line per
// plain symbol, and a trailing FIXTAB so re-reading it promotes
// everything to permanent in one pass. Re-assembling the produced file
// and calling ReadPermanentTable reproduces the same symbol set
// (§8's PRM round-trip property).
func (a *Assembler) WritePermanentTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "EXPUNGE")

	st := a.symtab
	for i := st.FixedCount(); i < st.Len(); i++ {
		e := st.Entry(i)
		if e.typ&Defined == 0 {
			continue
		}
		if e.typ&MRI != 0 {
			fmt.Fprintf(bw, "FIXMRI %s=%04o\n", e.name, e.value)
		} else {
			fmt.Fprintf(bw, "%s=%04o\n", e.name, e.value)
		}
	}
	fmt.Fprintln(bw, "FIXTAB")
	return bw.Flush()
}

// ReadPermanentTable assembles the lines of a previously written .prm
// file against this Assembler's own symbol table, using pass 2 so
// every NAME=value line takes effect immediately and duplicate/fixed
// diagnostics behave exactly as they would for ordinary source.
func (a *Assembler) ReadPermanentTable(r io.Reader) error {
	a.pass = Pass2
	scanner := bufio.NewScanner(r)
	lineNo := 0
	noopEmit := func(addr uint32, value uint16, fromLiteral bool) {}
	for scanner.Scan() {
		lineNo++
		a.AssembleLine(SourceLine{Number: lineNo, Text: scanner.Text()}, noopEmit)
	}
	return scanner.Err()
}
