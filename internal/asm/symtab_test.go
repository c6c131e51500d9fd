/*
 * palbart - Symbol table test cases.
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

func TestLookupInsertsSortedUndefined(t *testing.T) {
	st := NewSymbolTable()
	idx, overflow := st.Lookup("FOO")
	if overflow {
		t.Fatal("unexpected overflow")
	}
	if st.Name(idx) != "FOO" {
		t.Errorf("Name(idx) = %q, want FOO", st.Name(idx))
	}
	if st.Type(idx)&Defined != 0 {
		t.Error("freshly inserted symbol should not be Defined")
	}

	idx2, _ := st.Lookup("FOO")
	if idx2 != idx {
		t.Errorf("second Lookup(FOO) = %d, want %d", idx2, idx)
	}
}

func TestDefineFixedIsIgnored(t *testing.T) {
	st := NewSymbolTable()
	idx, _ := st.Lookup("TAD")
	before := st.Value(idx)
	res := st.Define(idx, before+1, false, Pass1)
	if res != defFixedIgnored {
		t.Errorf("Define on a fixed symbol = %v, want defFixedIgnored", res)
	}
	if st.Value(idx) != before {
		t.Error("fixed symbol's value changed")
	}
}

func TestDefineRedefinitionMarksRedefined(t *testing.T) {
	st := NewSymbolTable()
	idx, _ := st.Lookup("X")
	if res := st.Define(idx, 1, false, Pass2); res != defOK {
		t.Fatalf("first Define = %v, want defOK", res)
	}
	// The first pass-2 value change only marks the symbol Redefined; a
	// further change of an already-Redefined symbol is what reports
	// defRedefinedNewValue (and so the RD diagnostic).
	res := st.Define(idx, 2, false, Pass2)
	if res != defOK {
		t.Errorf("first redefinition = %v, want defOK", res)
	}
	if st.Type(idx)&Redefined == 0 {
		t.Error("Redefined bit not set after a value change")
	}
	if res := st.Define(idx, 3, false, Pass2); res != defRedefinedNewValue {
		t.Errorf("second redefinition = %v, want defRedefinedNewValue", res)
	}
}

func TestDefineDuplicateLabel(t *testing.T) {
	st := NewSymbolTable()
	idx, _ := st.Lookup("LOOP")
	st.Define(idx, 0o200, true, Pass1)
	res := st.Define(idx, 0o201, true, Pass1)
	if res != defDuplicateLabel {
		t.Errorf("second label definition at a new value = %v, want defDuplicateLabel", res)
	}
}

func TestIsDefinedForConditionalTreatsConditionAsDefined(t *testing.T) {
	st := NewSymbolTable()
	idx, _ := st.Lookup("FLAG")
	st.Define(idx, 1, false, Pass1)
	if !st.IsDefinedForConditional(idx) {
		t.Error("a symbol defined in pass 1 (CONDITION-marked) must satisfy IFDEF")
	}
}

func TestExpungeResetsToSeed(t *testing.T) {
	st := NewSymbolTable()
	seedLen := st.Len()
	st.Lookup("USERSYM")
	if st.Len() == seedLen {
		t.Fatal("Lookup of a new name did not grow the table")
	}
	st.Expunge()
	if st.Len() != seedLen {
		t.Errorf("Len() after Expunge = %d, want %d", st.Len(), seedLen)
	}
}

func TestFixTabPromotesEveryEntry(t *testing.T) {
	st := NewSymbolTable()
	idx, _ := st.Lookup("USERSYM")
	st.Define(idx, 5, false, Pass1)
	st.FixTab()
	if !st.IsFixed(idx) {
		t.Error("FixTab did not mark the user symbol FIXED")
	}
	if st.FixedCount() != st.Len() {
		t.Errorf("FixedCount() = %d after FixTab, want %d", st.FixedCount(), st.Len())
	}
}

func TestSymbolTableOverflow(t *testing.T) {
	st := NewSymbolTable()
	for i := 0; i < MaxSymbols; i++ {
		name := string(rune('A'+i%26)) + string(rune('A'+(i/26)%26)) + string(rune('A'+(i/676)%26))
		if _, overflow := st.Lookup(name); overflow {
			return
		}
	}
	t.Error("table never reported overflow after filling past MaxSymbols")
}
