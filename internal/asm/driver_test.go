/*
 * palbart - Two-pass driver end-to-end test cases.
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
	"strings"
	"testing"
)

type emittedWord struct {
	addr        uint32
	value       uint16
	fromLiteral bool
}

// assembleBoth runs src through both passes of a fresh Assembler,
// returning the words pass 2 emitted (in emission order) and the
// Assembler for further inspection (diagnostics, symbol table).
func assembleBoth(t *testing.T, src string, literalsOn bool) (*Assembler, []emittedWord) {
	t.Helper()
	a := NewAssembler(literalsOn, ModeBIN)
	lines := splitLines(src)

	a.StartPass(Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
		if a.Done() {
			break
		}
	}

	a.StartPass(Pass2)
	var words []emittedWord
	collect := func(addr uint32, value uint16, fromLiteral bool) {
		words = append(words, emittedWord{addr, value, fromLiteral})
	}
	for _, ln := range lines {
		a.AssembleLine(ln, collect)
		if a.Done() {
			break
		}
	}
	return a, words
}

func splitLines(src string) []SourceLine {
	var lines []SourceLine
	for i, text := range strings.Split(src, "\n") {
		lines = append(lines, SourceLine{Number: i + 1, Text: text})
	}
	return lines
}

// Scenario 1: a plain CLA/HLT sequence at origin 0200.
func TestScenarioPlainOrigin(t *testing.T) {
	_, words := assembleBoth(t, "*200\n CLA\n HLT\n $\n", false)
	if len(words) != 2 {
		t.Fatalf("got %d emitted words, want 2: %+v", len(words), words)
	}
	if words[0].value != 0o7200 {
		t.Errorf("CLA encoded as %04o, want 7200", words[0].value)
	}
	if words[1].value != 0o7402 {
		t.Errorf("HLT encoded as %04o, want 7402", words[1].value)
	}
	if words[0].addr != 0o200 || words[1].addr != 0o201 {
		t.Errorf("addresses = %o, %o, want 0200, 0201", words[0].addr, words[1].addr)
	}
}

// Scenario 2: TAD to a same-page forward label fuses as a current-page MRI.
func TestScenarioSamePageMRIFusion(t *testing.T) {
	_, words := assembleBoth(t, "*200\n TAD LBL\n HLT\n LBL, 7\n $\n", false)
	if len(words) < 1 {
		t.Fatal("no words emitted")
	}
	if words[0].value != 0o1202 {
		t.Errorf("TAD LBL encoded as %04o, want 1202", words[0].value)
	}
}

// Scenario 3: with -l, an off-page literal allocates at the top of the
// current page and the instruction addresses it as a current-page
// indirect reference.
func TestScenarioLiteralAllocation(t *testing.T) {
	a, words := assembleBoth(t, "*200\n TAD (123)\n HLT\n $\n", true)
	var literal *emittedWord
	for i := range words {
		if words[i].fromLiteral {
			literal = &words[i]
		}
	}
	if literal == nil {
		t.Fatal("no literal word was emitted")
	}
	if literal.value != 0o123 {
		t.Errorf("literal value = %04o, want 0123", literal.value)
	}
	if literal.addr&PageMask != PageSize-1 {
		t.Errorf("literal address in-page offset = %o, want %o (top of page)", literal.addr&PageMask, PageSize-1)
	}
	if words[0].value != 0o1377 {
		t.Errorf("TAD (123) encoded as %04o, want 1377", words[0].value)
	}
	_ = a
}

// Scenario 4: redefining a non-fixed symbol at a new value in pass 2
// raises RD and marks the entry Redefined.
func TestScenarioRedefinedSymbol(t *testing.T) {
	a, _ := assembleBoth(t, "A=5\nA=6\n$\n", false)
	found := false
	for _, d := range a.Diagnostics().Items() {
		if d.Tag == TagRedefined {
			found = true
		}
	}
	if !found {
		t.Error("no RD diagnostic raised for the redefinition")
	}
	idx, _ := a.symtab.Lookup("A")
	if a.symtab.Value(idx) != 6 {
		t.Errorf("A = %o, want 6", a.symtab.Value(idx))
	}
	if a.symtab.Type(idx)&Redefined == 0 {
		t.Error("A is not marked Redefined")
	}
}

// Scenario 5: a false IFNZERO guard skips its bracketed body entirely,
// so only the HLT after it is emitted.
func TestScenarioFalseConditionalSkipsBody(t *testing.T) {
	_, words := assembleBoth(t, "*200\n IFNZERO 0 <CLA>\n HLT\n $\n", false)
	if len(words) != 1 {
		t.Fatalf("got %d emitted words, want 1: %+v", len(words), words)
	}
	if words[0].value != 0o7402 {
		t.Errorf("remaining word = %04o, want 7402 (HLT)", words[0].value)
	}
	if words[0].addr != 0o200 {
		t.Errorf("HLT address = %o, want 0200 (CLA's body was skipped, not emitted)", words[0].addr)
	}
}

// Scenario 6: switching back to OCTAL makes a digit outside the radix
// illegal.
func TestScenarioRadixSwitch(t *testing.T) {
	a, words := assembleBoth(t, "DECIMAL\n9\nOCTAL\n9\n$\n", false)
	if len(words) < 1 {
		t.Fatal("no words emitted for the decimal literal")
	}
	if words[0].value != 0o0011 {
		t.Errorf("decimal 9 encoded as %04o, want 0011", words[0].value)
	}
	found := false
	for _, d := range a.Diagnostics().Items() {
		if d.Tag == TagIllegal {
			found = true
		}
	}
	if !found {
		t.Error("no IC diagnostic raised for 9 in octal mode")
	}
}

// The '$' end-of-assembly marker must stop all further statement
// processing, even on later physical lines.
func TestDollarStopsProcessingAcrossLines(t *testing.T) {
	_, words := assembleBoth(t, "*200\n CLA\n $\n HLT\n", false)
	if len(words) != 1 {
		t.Fatalf("got %d words after '$', want 1 (nothing past the marker)", len(words))
	}
}

// A source file that never reaches '$' must raise ND once pass 2 runs out.
func TestMissingDollarRaisesND(t *testing.T) {
	a := NewAssembler(false, ModeBIN)
	lines := splitLines("*200\n CLA\n")

	a.StartPass(Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}

	a.StartPass(Pass2)
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
	}
	a.CheckTerminated()

	found := false
	for _, d := range a.Diagnostics().Items() {
		if d.Tag == TagNoDollar {
			found = true
		}
	}
	if !found {
		t.Error("CheckTerminated did not raise ND for a source with no '$'")
	}
}

// A conditional body may legitimately span several physical lines; the
// skip must resume correctly on each subsequent line.
func TestConditionalSkipSpansMultipleLines(t *testing.T) {
	_, words := assembleBoth(t, "*200\n IFNZERO 0 <\n CLA\n CLL\n>\n HLT\n $\n", false)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1 (HLT only): %+v", len(words), words)
	}
	if words[0].value != 0o7402 {
		t.Errorf("remaining word = %04o, want 7402", words[0].value)
	}
}
