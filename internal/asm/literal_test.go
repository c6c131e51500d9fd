/*
 * palbart - Literal-pool manager test cases.
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

func TestLiteralPoolGrowsDownward(t *testing.T) {
	p := newLiteralPool()
	off1, ok := p.Insert(0o1234)
	if !ok || off1 != PageSize-1 {
		t.Fatalf("first Insert = (%o, %v), want (%o, true)", off1, ok, PageSize-1)
	}
	off2, ok := p.Insert(0o4321)
	if !ok || off2 != PageSize-2 {
		t.Fatalf("second Insert = (%o, %v), want (%o, true)", off2, ok, PageSize-2)
	}
}

func TestLiteralPoolReusesExistingValue(t *testing.T) {
	p := newLiteralPool()
	off1, _ := p.Insert(0o77)
	off2, _ := p.Insert(0o77)
	if off1 != off2 {
		t.Errorf("repeated Insert of the same value returned different offsets: %o vs %o", off1, off2)
	}
	if len(p.Words()) != 1 {
		t.Errorf("pool holds %d words after inserting the same value twice, want 1", len(p.Words()))
	}
}

func TestLiteralPoolOverflow(t *testing.T) {
	p := newLiteralPool()
	for i := 0; i < PageSize; i++ {
		if _, ok := p.Insert(uint16(i)); !ok {
			t.Fatalf("Insert failed before the pool was full, at i=%d", i)
		}
	}
	if _, ok := p.Insert(0o7777); ok {
		t.Error("Insert succeeded past the pool's capacity")
	}
}

func TestMarkErroredLatchesOnce(t *testing.T) {
	p := newLiteralPool()
	if !p.MarkErrored() {
		t.Error("first MarkErrored() call should return true")
	}
	if p.MarkErrored() {
		t.Error("second MarkErrored() call should return false (latched)")
	}
}

func TestLiteralPoolWordsAscendingByAddress(t *testing.T) {
	p := newLiteralPool()
	p.Insert(1)
	p.Insert(2)
	p.Insert(3)
	words := p.Words()
	want := []uint16{3, 2, 1}
	for i, w := range words {
		if w != want[i] {
			t.Errorf("Words()[%d] = %o, want %o", i, w, want[i])
		}
	}
}

func TestLiteralPoolCollidesWith(t *testing.T) {
	p := newLiteralPool()
	p.Insert(0o17) // occupies offset PageSize-1
	if !p.CollidesWith(PageSize - 1) {
		t.Error("CollidesWith should report true once code reaches the pool's top slot")
	}
	if p.CollidesWith(PageSize - 2) {
		t.Error("CollidesWith should report false below the pool")
	}
}
