/*
 * palbart - Symbol table: sorted flat arena, binary search, xref accounting.
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

import "sort"

// Type bits for a symbol table entry.
const (
	Defined    = 1 << iota // value has been set
	Fixed                  // permanent symbol, cannot be redefined
	MRI                    // memory-reference instruction
	Label                  // address label (15-bit value)
	Redefined              // marked '#' in listings
	Duplicate              // label redefined at a different value
	Pseudo                 // pseudo-op / directive name
	Condition              // pass-1 definition marker for conditional gating

	MRIFIX = MRI | Fixed | Defined
)

// MaxSymbols bounds the table; overflow is the one fatal diagnostic.
const MaxSymbols = 1024

// symEntry is one flat record in the table.
type symEntry struct {
	name      string
	value     uint16
	typ       int
	xrefIndex int
	xrefCount int
}

// SymbolTable is a slice sorted by name, split into a FIXED prefix
// (permanent/MRI symbols, sorted once at seed time and never resorted
// piecemeal) and a user suffix that grows and shrinks as assembly
// proceeds. It is deliberately a slice, not a map: EXPUNGE is a
// truncate, FIXTAB is a watermark bump, and the symbol dump's
// column-major order falls out of the same sorted slice the binary
// search uses.
type SymbolTable struct {
	entries    []symEntry
	fixedCount int
}

// NewSymbolTable creates a table seeded with the pseudo-op and
// permanent MRI/IOT catalogue (opcodes.go), sorted by name.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.seed()
	return st
}

func (st *SymbolTable) seed() {
	st.entries = make([]symEntry, 0, len(seedSymbols))
	for _, s := range seedSymbols {
		st.entries = append(st.entries, symEntry{name: s.name, value: s.value, typ: s.typ})
	}
	sort.Slice(st.entries, func(i, j int) bool { return st.entries[i].name < st.entries[j].name })
	st.fixedCount = len(st.entries)
}

// search returns the index of name if present, and whether it was found,
// searching the fixed prefix first and then the user suffix. When not
// found, index is the sorted insertion point within the user suffix.
func (st *SymbolTable) search(name string) (int, bool) {
	find := func(lo, hi int) int {
		for lo < hi {
			mid := (lo + hi) / 2
			if st.entries[mid].name < name {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo
	}
	if i := find(0, st.fixedCount); i < st.fixedCount && st.entries[i].name == name {
		return i, true
	}
	lo := find(st.fixedCount, len(st.entries))
	if lo < len(st.entries) && st.entries[lo].name == name {
		return lo, true
	}
	return lo, false
}

// Lookup finds name, inserting an UNDEFINED entry at the sorted
// position on miss. Returns the entry index, or -1 and an overflow
// diagnostic flag if the table is full.
func (st *SymbolTable) Lookup(name string) (idx int, overflow bool) {
	idx, found := st.search(name)
	if found {
		return idx, false
	}
	if len(st.entries) >= MaxSymbols {
		return -1, true
	}
	st.entries = append(st.entries, symEntry{})
	copy(st.entries[idx+1:], st.entries[idx:])
	st.entries[idx] = symEntry{name: name}
	return idx, false
}

// Entry returns a copy of the entry at idx.
func (st *SymbolTable) Entry(idx int) symEntry {
	return st.entries[idx]
}

// Name, Value, Type, XrefIndex, XrefCount are read-only accessors used
// by the listing and cross-reference printer.
func (st *SymbolTable) Name(idx int) string     { return st.entries[idx].name }
func (st *SymbolTable) Value(idx int) uint16    { return st.entries[idx].value }
func (st *SymbolTable) Type(idx int) int        { return st.entries[idx].typ }
func (st *SymbolTable) Len() int                { return len(st.entries) }
func (st *SymbolTable) FixedCount() int         { return st.fixedCount }

// IsFixed reports whether idx falls in the permanent prefix.
func (st *SymbolTable) IsFixed(idx int) bool { return st.entries[idx].typ&Fixed != 0 }

// defineResult tells the caller what actually happened, so the driver
// can decide whether to raise DT/RD/ID diagnostics.
type defineResult int

const (
	defOK defineResult = iota
	defFixedIgnored
	defRedefinedSameValue
	defRedefinedNewValue
	defDuplicateLabel
)

// Define sets idx's value per §4.B. isLabel selects the 15-bit (field-
// preserving) value path; otherwise the value is masked to 12 bits.
func (st *SymbolTable) Define(idx int, value uint16, isLabel bool, pass Pass) defineResult {
	e := &st.entries[idx]
	if e.typ&Fixed != 0 {
		return defFixedIgnored
	}

	if !isLabel {
		value &= WordMask
	}

	wasDefined := e.typ&Defined != 0
	oldValue := e.value

	if isLabel && wasDefined && oldValue != value {
		e.typ |= Duplicate
		return defDuplicateLabel
	}

	if pass == Pass2 && wasDefined && oldValue != value {
		if e.typ&Redefined != 0 {
			e.value = value
			e.typ |= Condition | Defined
			return defRedefinedNewValue
		}
		e.typ |= Redefined
	}

	e.value = value
	e.typ |= Defined | Condition
	if isLabel {
		e.typ |= Label
	}

	if wasDefined && oldValue == value {
		return defRedefinedSameValue
	}
	return defOK
}

// SetMRI marks idx as a memory-reference instruction with the given
// opcode value, used by FIXMRI.
func (st *SymbolTable) SetMRI(idx int, value uint16) defineResult {
	e := &st.entries[idx]
	if e.typ&Fixed != 0 {
		return defFixedIgnored
	}
	e.value = value & WordMask
	e.typ |= MRI | Defined
	return defOK
}

// IsDefinedForConditional reports whether the symbol at idx should be
// treated as defined by IFDEF/IFNDEF/conditional gating. Per the Open
// Question in spec.md §9(b), CONDITION and DEFINED are treated
// identically here, preserving the original's observed behavior.
func (st *SymbolTable) IsDefinedForConditional(idx int) bool {
	t := st.entries[idx].typ
	return t&(Defined|Condition) != 0
}

// FixTab promotes every current entry to FIXED, moves the watermark to
// the end of the table, and re-sorts the now-combined prefix (the old
// prefix and the old user suffix are each sorted, but not as one run).
func (st *SymbolTable) FixTab() {
	for i := range st.entries {
		st.entries[i].typ |= Fixed
	}
	st.fixedCount = len(st.entries)
	sort.Slice(st.entries, func(i, j int) bool { return st.entries[i].name < st.entries[j].name })
}

// Expunge resets the table to the pseudo-op/MRI seed.
func (st *SymbolTable) Expunge() {
	st.seed()
}

// AllocXref points the symbol at idx's xref span at base in the arena
// and resets its pass-2 write cursor to 0. It returns nothing.
func (st *SymbolTable) AllocXref(idx int, base int) {
	st.entries[idx].xrefIndex = base
	st.entries[idx].xrefCount = 0
}

func (st *SymbolTable) BumpXref(idx int) int {
	n := st.entries[idx].xrefCount
	st.entries[idx].xrefCount++
	return n
}

func (st *SymbolTable) XrefIndex(idx int) int { return st.entries[idx].xrefIndex }
func (st *SymbolTable) XrefCount(idx int) int { return st.entries[idx].xrefCount }
