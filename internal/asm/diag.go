/*
 * palbart - Diagnostics: listing tags, error-file phrases, taxonomy.
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
	"fmt"

	"github.com/radekh/palbart/internal/octal"
)

// Tag is the short two-letter listing code from §4.J.
type Tag string

const (
	TagDuplicateTag     Tag = "DT"
	TagIllegal          Tag = "IC"
	TagIllegalRedefine  Tag = "ID"
	TagIllegalEquals    Tag = "IE"
	TagIllegalIndirect  Tag = "II"
	TagIllegalReference Tag = "IR"
	TagNoDollar         Tag = "ND"
	TagPageExceeded     Tag = "PE"
	TagZeroExceeded     Tag = "ZE"
	TagRedefined        Tag = "RD"
	TagSymtabFull       Tag = "ST"
	TagUndefined        Tag = "UD"
)

// Diagnostic is one recorded error or warning, tied to a source position
// and a location-counter snapshot. It deliberately is not a Go `error` -
// it is data the engine accumulates and reports, not a control-flow
// signal (see SPEC_FULL.md's Error handling section).
type Diagnostic struct {
	Tag     Tag
	Short   string // short listing phrase, e.g. "duplicate tag"
	Long    string // longer error-file phrase
	Line    int
	Column  int    // -1 if no column is known
	HaveCol bool
	Loc     uint32
	Fatal   bool
}

// ListingLine renders the tag+phrase line that is appended under the
// offending source line in the listing, with a caret under the column
// when one is known.
func (d Diagnostic) ListingLine() []string {
	lines := []string{}
	if d.HaveCol && d.Column >= 0 {
		lines = append(lines, caretLine(d.Column))
	}
	lines = append(lines, fmt.Sprintf("%s  %s", string(d.Tag), d.Short))
	return lines
}

func caretLine(col int) string {
	b := make([]byte, col+1)
	for i := range b {
		b[i] = ' '
	}
	b[col] = '^'
	return string(b)
}

// ErrorFileLine renders the format required by §4.J:
// <filename>(<line>:<col>) : error:  <message> at Loc = <loc-octal>
func (d Diagnostic) ErrorFileLine(filename string) string {
	col := 0
	if d.HaveCol {
		col = d.Column
	}
	return fmt.Sprintf("%s(%d:%d) : error:  %s at Loc = %s",
		filename, d.Line, col, d.Long, octal.Addr15(d.Loc))
}

// Diagnostics accumulates diagnostics raised while assembling.
type Diagnostics struct {
	items []Diagnostic
	fatal bool
}

func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
	if diag.Fatal {
		d.fatal = true
	}
}

func (d *Diagnostics) Items() []Diagnostic { return d.items }

func (d *Diagnostics) Count() int { return len(d.items) }

func (d *Diagnostics) Fatal() bool { return d.fatal }

// Diagnostics returns the current pass's accumulated diagnostic list.
func (a *Assembler) Diagnostics() *Diagnostics { return a.diags }

// raise is the common constructor used by the driver, evaluator, and
// directive processor; col < 0 means no column is known.
func (a *Assembler) raise(tag Tag, short, long string, col int, fatal bool) {
	d := Diagnostic{
		Tag:     tag,
		Short:   short,
		Long:    long,
		Line:    a.lineNo,
		Column:  col,
		HaveCol: col >= 0,
		Loc:     a.loc15(),
		Fatal:   fatal,
	}
	a.diags.Add(d)
	a.curLine.hadError = true
}
