/*
 * palbart - Paginated listing, symbol-table dump, and cross-reference printer (§4.I).
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

	"github.com/radekh/palbart/internal/octal"
)

// linesPerPage is the number of lines on a listing page, header
// included; headerLines is the running header's share of it (title;
// file name and page number; a blank line; the column headings). There
// is no sub-title line.
const (
	linesPerPage = 55
	headerLines  = 4
)

// listingWriter renders pass 2's listing, paginating on linesPerPage and
// starting a new page with its header whenever EJECT or TITLE fires;
// XLIST only gates which lines are written.
type listingWriter struct {
	w           *bufio.Writer
	pageNo      int
	linesOnPage int
	title       string
	filename    string
}

func newListingWriter(w io.Writer, filename string) *listingWriter {
	return &listingWriter{w: bufio.NewWriter(w), linesOnPage: linesPerPage, filename: filename}
}

// AttachListing opens the listing stream for pass 2. Call once before
// the first WriteListingLine.
func (a *Assembler) AttachListing(w io.Writer, filename string) {
	a.listSink = newListingWriter(w, filename)
	a.listSink.title = a.title
}

// DetachListing flushes the listing's buffered writer.
func (a *Assembler) DetachListing() error {
	if a.listSink == nil {
		return nil
	}
	return a.listSink.Flush()
}

// WriteListingLine renders one source line's LOC/VAL row, plus any
// diagnostics raised against it. A line with no diagnostics is
// suppressed when XLIST has turned listing off; a line that raised a
// diagnostic is always shown, per §7's "error text is duplicated into
// the listing file" rule.
func (a *Assembler) WriteListingLine(lineNo int, text string, diags []Diagnostic) {
	if a.listSink == nil {
		return
	}
	if !a.listGate.On() && len(diags) == 0 {
		return
	}
	a.listSink.WriteStatement(lineNo, text, a.curLine, diags)
}

func (lw *listingWriter) Flush() error { return lw.w.Flush() }

// Eject forces the next WriteStatement call to start a fresh page.
func (lw *listingWriter) Eject() {
	lw.linesOnPage = linesPerPage
}

func (lw *listingWriter) header() {
	lw.pageNo++
	fmt.Fprintf(lw.w, "%s\n", lw.title)
	fmt.Fprintf(lw.w, "%s\tPage %d\n", lw.filename, lw.pageNo)
	fmt.Fprintln(lw.w)
	fmt.Fprintln(lw.w, "LOC   VAL    LINE  SOURCE")
	lw.linesOnPage = headerLines
}

func (lw *listingWriter) ensureRoom(n int) {
	if lw.linesOnPage+n > linesPerPage {
		lw.header()
	}
}

// WriteStatement renders one source line and any diagnostics raised
// against it, using the line's shape to decide which of LOC/VAL are
// populated.
func (lw *listingWriter) WriteStatement(lineNo int, text string, lr lineResult, diags []Diagnostic) {
	lw.ensureRoom(1)

	locStr := "     "
	valStr := "    "
	switch lr.kind {
	case shapeLineVal:
		valStr = octal.Word12(lr.value)
	case shapeLineLocVal:
		locStr = octal.Addr15(lr.loc)
		valStr = octal.Word12(lr.value)
		if lr.indirect {
			valStr += "@"
		}
	case shapeLocVal:
		locStr = octal.Addr15(lr.loc)
	}

	fmt.Fprintf(lw.w, "%-5s %-4s %5d  %s\n", locStr, valStr, lineNo, text)
	lw.linesOnPage++

	for _, d := range diags {
		for _, l := range d.ListingLine() {
			lw.ensureRoom(1)
			fmt.Fprintf(lw.w, "%s\n", l)
			lw.linesOnPage++
		}
	}
}

// WriteSymbolTable dumps the user portion of the symbol table (the
// suffix past the permanent seed) in column-major order, 4 columns
// wide, with '?' marking an undefined reference and '#' a redefinition.
func (lw *listingWriter) WriteSymbolTable(st *SymbolTable) {
	lw.Eject()
	lw.ensureRoom(1)
	fmt.Fprintln(lw.w, "SYMBOL TABLE")
	lw.linesOnPage++

	const cols = 4
	n := st.Len() - st.FixedCount()
	if n <= 0 {
		return
	}
	rows := (n + cols - 1) / cols

	for r := 0; r < rows; r++ {
		lw.ensureRoom(1)
		var line string
		for c := 0; c < cols; c++ {
			i := st.FixedCount() + c*rows + r
			if i >= st.Len() {
				continue
			}
			e := st.Entry(i)
			marker := byte(' ')
			switch {
			case e.typ&Defined == 0:
				marker = '?'
			case e.typ&Redefined != 0:
				marker = '#'
			}
			line += fmt.Sprintf("%-8s %s%c  ", e.name, octal.Word12(e.value), marker)
		}
		fmt.Fprintln(lw.w, line)
		lw.linesOnPage++
	}
}

// DumpSymbolTable prints the -d symbol table dump to the listing.
func (a *Assembler) DumpSymbolTable() {
	if a.listSink == nil {
		return
	}
	a.listSink.WriteSymbolTable(a.symtab)
}

// WriteCrossReference prints, per user symbol, its definition line and
// every referencing line, wrapped at 8 reference numbers per row.
func (a *Assembler) WriteCrossReference() {
	if a.listSink == nil {
		return
	}
	lw := a.listSink
	lw.Eject()
	lw.ensureRoom(1)
	fmt.Fprintln(lw.w, "CROSS REFERENCE")
	lw.linesOnPage++

	st := a.symtab
	for i := st.FixedCount(); i < st.Len(); i++ {
		lw.ensureRoom(1)
		name := st.Name(i)
		defLine := a.xrefDefLine(i)
		refs := a.xrefRefLines(i)

		fmt.Fprintf(lw.w, "%-8s %5d  ", name, defLine)
		lw.linesOnPage++
		for j, ln := range refs {
			if j > 0 && j%8 == 0 {
				lw.ensureRoom(1)
				fmt.Fprintf(lw.w, "%-8s        ", "")
				lw.linesOnPage++
			}
			fmt.Fprintf(lw.w, "%5d ", ln)
		}
		fmt.Fprintln(lw.w)
	}
}
