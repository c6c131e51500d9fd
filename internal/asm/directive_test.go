/*
 * palbart - Directive processor test cases.
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

import "testing"

func hasDiag(a *Assembler, tag Tag) bool {
	for _, d := range a.Diagnostics().Items() {
		if d.Tag == tag {
			return true
		}
	}
	return false
}

// FIELD switches the active field, so the next word lands in field 1.
func TestFieldSwitchesLocationCounter(t *testing.T) {
	a, words := assembleBoth(t, "*200\n CLA\n FIELD 1\n HLT\n $\n", false)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[1].addr>>FieldShift != 1 {
		t.Errorf("HLT field = %o, want 1 (addr %05o)", words[1].addr>>FieldShift, words[1].addr)
	}
	_ = a
}

// FIELD with no argument advances to field+1, matching spec.md §4.F.
func TestFieldWithNoArgumentAdvances(t *testing.T) {
	_, words := assembleBoth(t, "*200\n CLA\n FIELD\n HLT\n $\n", false)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[1].addr>>FieldShift != 1 {
		t.Errorf("HLT field = %o, want 1", words[1].addr>>FieldShift)
	}
}

// FIELD is illegal while punching RIM.
func TestFieldIllegalInRimMode(t *testing.T) {
	a := NewAssembler(false, ModeRIM)
	lines := splitLines("*200\n FIELD 1\n HLT\n $\n")
	a.StartPass(Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}
	a.StartPass(Pass2)
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}
	if !hasDiag(a, TagIllegal) {
		t.Error("no IC diagnostic raised for FIELD while in RIM mode")
	}
}

// PAGE with no argument advances to the next page within the field.
func TestPageAdvancesToNextPage(t *testing.T) {
	_, words := assembleBoth(t, "*200\n CLA\n PAGE\n HLT\n $\n", false)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[1].addr&^uint32(PageMask) != 2*PageSize {
		t.Errorf("HLT page base = %o, want page 2 (%o)", words[1].addr&^uint32(PageMask), 2*PageSize)
	}
}

// SEGMNT tracks a separate location counter per segment number, resuming
// where a segment left off on a later revisit.
func TestSegmntTracksPerSegmentLocationCounter(t *testing.T) {
	_, words := assembleBoth(t, "*200\n SEGMNT 1\n CLA\n SEGMNT 2\n CLA\n SEGMNT 1\n HLT\n $\n", false)
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3: %+v", len(words), words)
	}
	if words[2].addr != words[0].addr+1 {
		t.Errorf("returning to SEGMNT 1 resumed at %o, want %o (right after its earlier CLA)", words[2].addr, words[0].addr+1)
	}
}

// ZBLOCK reserves n zero words starting at the current location.
func TestZblockAllocatesWords(t *testing.T) {
	_, words := assembleBoth(t, "*200\n ZBLOCK 3\n HLT\n $\n", false)
	if len(words) != 4 {
		t.Fatalf("got %d words, want 4 (3 zero words + HLT): %+v", len(words), words)
	}
	for i := 0; i < 3; i++ {
		if words[i].value != 0 {
			t.Errorf("ZBLOCK word %d = %04o, want 0", i, words[i].value)
		}
	}
	if words[3].addr != 0o203 {
		t.Errorf("HLT address after ZBLOCK 3 = %o, want 0203", words[3].addr)
	}
}

// A negative ZBLOCK operand is diagnosed rather than silently wrapping
// into a 4095-word allocation.
func TestZblockNegativeOperandDiagnosed(t *testing.T) {
	a, words := assembleBoth(t, "*200\n ZBLOCK -1\n HLT\n $\n", false)
	if !hasDiag(a, TagIllegal) {
		t.Error("no IC diagnostic raised for a negative ZBLOCK operand")
	}
	if len(words) != 1 {
		t.Errorf("got %d words, want 1 (just HLT, no giant allocation): %+v", len(words), words)
	}
}

// ZBLOCK crossing the 4K-word field boundary is diagnosed.
func TestZblockCrossesFieldBoundaryDiagnosed(t *testing.T) {
	a, _ := assembleBoth(t, "*7777\n ZBLOCK 2\n $\n", false)
	if !hasDiag(a, TagIllegal) {
		t.Error("no IC diagnostic raised for ZBLOCK crossing the field boundary")
	}
}

// RIMPUNCH after BIN data switches the object mode to RIM, and the tape
// still carries punched bytes.
func TestRimpunchClosesOpenBinSegment(t *testing.T) {
	a, raw := assembleToObject(t, "*200\n CLA\n RIMPUNCH\n HLT\n $\n", ModeBIN)
	if a.objMode != ModeRIM {
		t.Errorf("objMode after RIMPUNCH = %v, want ModeRIM", a.objMode)
	}
	body := stripLeader(raw)
	if len(body) == 0 {
		t.Fatal("no bytes punched at all")
	}
}

// RIMPUNCH with no open BIN data does nothing but switch modes.
func TestRimpunchNoOpWithoutData(t *testing.T) {
	a := NewAssembler(false, ModeBIN)
	lines := splitLines("*200\n RIMPUNCH\n HLT\n $\n")
	a.StartPass(Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}
	a.StartPass(Pass2)
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}
	if a.objMode != ModeRIM {
		t.Errorf("objMode = %v, want ModeRIM", a.objMode)
	}
}

// BINPUNCH after RIM data switches the object mode to BIN, and the tape
// still carries punched bytes.
func TestBinpunchClosesOpenRimSegment(t *testing.T) {
	a, raw := assembleToObject(t, "*200\n CLA\n BINPUNCH\n HLT\n $\n", ModeRIM)
	if a.objMode != ModeBIN {
		t.Errorf("objMode after BINPUNCH = %v, want ModeBIN", a.objMode)
	}
	body := stripLeader(raw)
	if len(body) == 0 {
		t.Fatal("no bytes punched at all")
	}
}

// TEXT packs its delimited run into six-bit words, two characters each.
func TestTextPacksDelimitedString(t *testing.T) {
	_, words := assembleBoth(t, "*200\n TEXT /AB/\n $\n", false)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1: %+v", len(words), words)
	}
	want := (uint16('A'&0o77) << 6) | uint16('B'&0o77)
	if words[0].value != want {
		t.Errorf("TEXT /AB/ = %04o, want %04o", words[0].value, want)
	}
}

// TITLE sets the running title and does not itself emit any word.
func TestTitleSetsTitleWithoutEmitting(t *testing.T) {
	a, words := assembleBoth(t, "*200\n TITLE /A PROGRAM/\n HLT\n $\n", false)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1 (HLT only): %+v", len(words), words)
	}
	if a.title != "A PROGRAM" {
		t.Errorf("title = %q, want %q", a.title, "A PROGRAM")
	}
}

// DUBL emits two 12-bit words per operand, most-significant first.
func TestDublEmitsTwoWordsPerOperand(t *testing.T) {
	_, words := assembleBoth(t, "*200\n DUBL 1\n\n HLT\n $\n", false)
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3 (hi, lo, HLT): %+v", len(words), words)
	}
	if words[0].value != 0 || words[1].value != 1 {
		t.Errorf("DUBL 1 = (%04o, %04o), want (0000, 0001)", words[0].value, words[1].value)
	}
}

// FLTG emits three words per operand: exponent, mantissa-hi, mantissa-lo.
func TestFltgEmitsThreeWordsPerOperand(t *testing.T) {
	_, words := assembleBoth(t, "*200\n FLTG 1.0\n\n HLT\n $\n", false)
	if len(words) != 4 {
		t.Fatalf("got %d words, want 4 (exp, hi, lo, HLT): %+v", len(words), words)
	}
}

// FLTG of a negative value encodes the mantissa's sign bit, unlike a
// positive value's, while sharing the same magnitude.
func TestFltgNegativeSetsSignBit(t *testing.T) {
	_, pos := assembleBoth(t, "*200\n FLTG 1.5\n\n $\n", false)
	_, neg := assembleBoth(t, "*200\n FLTG -1.5\n\n $\n", false)
	if len(pos) != 3 || len(neg) != 3 {
		t.Fatalf("got %d/%d words, want 3/3", len(pos), len(neg))
	}
	if pos[1].value == neg[1].value {
		t.Error("positive and negative FLTG 1.5 produced identical mantissa-hi words")
	}
}
