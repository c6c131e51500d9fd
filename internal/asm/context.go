/*
 * palbart - PDP-8 cross-assembler core: shared constants and context.
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

// Package asm is the core of the PDP-8 PAL-dialect cross-assembler: the
// lexer and expression evaluator, the symbol table, the literal-pool
// manager, the directive processor, the two-pass assembly driver, the
// RIM/BIN emitters, and the listing/cross-reference/diagnostics output.
package asm

import (
	"github.com/radekh/palbart/internal/papertape"
)

const (
	// WordMask is the 12-bit target word.
	WordMask = 0o7777

	// PageSize is the number of words in one page (128).
	PageSize = 0o200

	// PageMask selects the in-page address (low 7 bits).
	PageMask = 0o177

	// PageBit marks a memory-reference instruction as current-page.
	PageBit = 0o200

	// IndirectBit marks a memory-reference instruction as indirect.
	IndirectBit = 0o400

	// FieldShift is the number of bits in the in-field address.
	FieldShift = 12

	// FieldMask selects the 3-bit field number once shifted right by FieldShift.
	FieldMask = 07

	// MaxLineLen is the longest physical source line accepted.
	MaxLineLen = 96

	// PagesPerField is the number of 128-word pages in a 4K field.
	PagesPerField = 4096 / PageSize
)

// Object output modes.
const (
	ModeBIN = iota
	ModeRIM
)

// Pass identifies which of the two assembly passes is running.
type Pass int

const (
	Pass1 Pass = 1
	Pass2 Pass = 2
)

// Assembler carries every piece of mutable state the two-pass engine
// touches. Nothing here is a package-level global: a fresh Assembler is
// created per invocation, which is what makes running pass 1 and pass 2
// back-to-back (and running the engine repeatedly in tests) safe.
type Assembler struct {
	// Numeric mode.
	radix int // 8 or 10

	// Location.
	field     int        // current field number, 0-7
	clc       uint32     // location counter: field<<FieldShift | in-field address
	reloc     int32      // relocation offset
	fieldLCs  [8]uint16  // location counter remembered per field across FIELD switches
	segment   int        // current SEGMNT number, 0 is the default unnamed segment
	segLCs    map[int]uint16 // location counter remembered per segment

	pass Pass

	// Literal pools.
	pageZero   *literalPool
	curPage    *literalPool
	literalsOn bool // -l flag: literal generation enabled

	// Symbol table and cross-reference arena.
	symtab *SymbolTable
	xref   *xrefArena

	// Object stream state.
	objMode     int // ModeBIN or ModeRIM
	checksum    uint16
	punchGate   gate // on = ENPUNCH, off = NOPUNCH
	binStarted  bool // true once any BIN data word has been emitted
	rimStarted  bool // true once any RIM word pair has been emitted
	lastOrigin  uint32
	haveOrigin  bool
	objSink     *papertape.Context

	// Listing state.
	listGate    gate // toggled by XLIST
	listSink    *listingWriter
	title       string

	// Diagnostics for the current statement.
	diags *Diagnostics

	// Output-value flags for the line currently being assembled (avoids
	// any package-level "indirect_generated" style global).
	curLine lineResult

	lineNo      int
	filename    string
	numericMode int // 0 none, else a DUBL/FLTG block spanning subsequent lines

	condSkipDepth int  // >0 while skipping a false IFDEF/IFNDEF/IFZERO/IFNZERO body
	done          bool // true once '$' has ended the source
}

// lineResult carries the per-statement output facts the listing printer
// needs: whether a word was emitted, its value/location, whether MRI
// fusion used literal indirection, and any `=`/`*` display value.
type lineResult struct {
	kind      lineShape
	loc       uint32
	value     uint16
	haveValue bool
	indirect  bool // literal indirection was generated (marks '@')
	hadError  bool // suppresses side effects of the erroneous statement
}

type lineShape int

const (
	shapeLine lineShape = iota
	shapeLineVal
	shapeLineLocVal
	shapeLocVal
)

// NewAssembler creates a fresh two-pass context. literalsOn mirrors the
// -l CLI flag; objMode mirrors -r (RIM) vs the BIN default.
func NewAssembler(literalsOn bool, objMode int) *Assembler {
	a := &Assembler{
		radix:      8,
		literalsOn: literalsOn,
		objMode:    objMode,
		punchGate:  newGate(true),
		listGate:   newGate(true),
		symtab:     NewSymbolTable(),
		diags:      &Diagnostics{},
	}
	for f := range a.fieldLCs {
		a.fieldLCs[f] = PageSize
	}
	a.resetPools()
	return a
}

func (a *Assembler) resetPools() {
	a.pageZero = newLiteralPool()
	a.curPage = newLiteralPool()
}

// StartPass resets every piece of per-pass mutable state (location,
// field, relocation, literal pools, radix) while leaving the symbol
// table's accumulated values in place, the way a real two-pass
// assembler lets pass 2 see pass 1's forward references. Pass 2
// additionally gets a clean diagnostics list (pass 1's are provisional
// noise — a symbol that looks undefined in pass 1 may be perfectly
// well defined by the time pass 2 reaches the same line) and the
// cross-reference arena sized from pass 1's tallies.
func (a *Assembler) StartPass(p Pass) {
	a.pass = p
	a.field = 0
	a.reloc = 0
	a.radix = 8
	a.segment = 0
	a.segLCs = nil
	a.numericMode = numNone
	a.condSkipDepth = 0
	a.done = false
	for f := range a.fieldLCs {
		a.fieldLCs[f] = PageSize
	}
	a.setLoc(0, PageSize)
	a.resetPools()

	if p == Pass2 {
		a.diags = &Diagnostics{}
		a.xref = a.symtab.BuildXrefArena()
	}
}

// Done reports whether a '$' has already ended this pass's source.
func (a *Assembler) Done() bool { return a.done }

// CheckTerminated raises ND (no '$' at EOF) if the source ran out
// without an explicit end-of-assembly marker.
func (a *Assembler) CheckTerminated() {
	if !a.done {
		a.raise(TagNoDollar, "missing $", "source ended without a terminating $", -1, false)
	}
}

// SymbolTable exposes the assembler's symbol table to external tools
// (e.g. palbart-pst) that load a .prm file and need to walk its
// contents without going through the listing/dump machinery.
func (a *Assembler) SymbolTable() *SymbolTable {
	return a.symtab
}

// fieldLC returns the in-field (12-bit) portion of the location counter.
func (a *Assembler) fieldLC() uint16 {
	return uint16(a.clc & WordMask)
}

// setLoc sets field and in-field address explicitly, preserving the
// 15-bit addressing model of §3.
func (a *Assembler) setLoc(field int, addr uint16) {
	a.field = field & FieldMask
	a.clc = (uint32(a.field) << FieldShift) | uint32(addr&WordMask)
}

// loc15 returns the full 15-bit location (field and in-field address).
func (a *Assembler) loc15() uint32 {
	return a.clc
}

// currentPage returns the page number of the current location plus
// reloc within its field, used by MRI fusion to test "is this address
// on the current page".
func (a *Assembler) currentPage() uint16 {
	return uint16((int32(a.fieldLC()) + a.reloc) >> 7 & 0o37)
}
