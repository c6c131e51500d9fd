/*
 * palbart - Cross-reference arena: sized after pass 1, populated in pass 2.
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

// xrefArena is a second flat arena, separate from the symbol table
// itself, so truncating the table on EXPUNGE never disturbs reference
// data and so pass 2's cross-reference printer can walk it as plain
// offsets rather than following any pointer chain.
type xrefArena struct {
	slots []int // slot 0 of each symbol's span is its definition line (0 = undefined)
}

// Tally is called during pass 1 for every defining or referencing
// occurrence of a symbol, so the arena can be sized exactly once pass 1
// finishes.
func (st *SymbolTable) Tally(idx int) {
	st.entries[idx].xrefCount++
}

// BuildXrefArena sizes the arena (sum of per-symbol tallies + 1
// definition slot each) and rewrites every entry's xrefIndex to point
// at its span, resetting xrefCount to 0 so pass 2 can reuse it as a
// write cursor.
func (st *SymbolTable) BuildXrefArena() *xrefArena {
	total := 0
	for i := range st.entries {
		total += st.entries[i].xrefCount + 1
	}
	arena := &xrefArena{slots: make([]int, total)}
	base := 0
	for i := range st.entries {
		span := st.entries[i].xrefCount + 1
		st.entries[i].xrefIndex = base
		st.entries[i].xrefCount = 0
		base += span
	}
	return arena
}

// xrefWriteDef records idx's pass-2 definition line.
func (a *Assembler) xrefWriteDef(idx, line int) {
	if a.xref == nil {
		return
	}
	a.xref.slots[a.symtab.XrefIndex(idx)] = line
}

// xrefWriteRef appends idx's next pass-2 reference line.
func (a *Assembler) xrefWriteRef(idx, line int) {
	if a.xref == nil {
		return
	}
	n := a.symtab.BumpXref(idx)
	a.xref.slots[a.symtab.XrefIndex(idx)+1+n] = line
}

// xrefDefLine and xrefRefLines read back idx's recorded definition line and
// reference lines, for the cross-reference printer.
func (a *Assembler) xrefDefLine(idx int) int {
	if a.xref == nil {
		return 0
	}
	return a.xref.slots[a.symtab.XrefIndex(idx)]
}

func (a *Assembler) xrefRefLines(idx int) []int {
	if a.xref == nil {
		return nil
	}
	n := a.symtab.XrefCount(idx)
	base := a.symtab.XrefIndex(idx) + 1
	return a.xref.slots[base : base+n]
}
