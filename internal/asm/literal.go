/*
 * palbart - Literal-pool manager: page-zero and current-page pools.
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

// literalPool is one page's worth of literals, growing downward from
// the top of the page. loc is the next free slot; slots above loc (up
// to PageSize) are live.
type literalPool struct {
	loc     uint16 // next free slot, starts at PageSize and decrements
	full    [PageSize]uint16
	used    [PageSize]bool
	errored bool // latch so the overflow diagnostic fires once per pool
}

func newLiteralPool() *literalPool {
	return &literalPool{loc: PageSize}
}

// Insert returns the 7-bit page offset holding value, reusing an
// existing slot if one already holds it (repeated inserts of the same
// value return the same offset).
func (p *literalPool) Insert(value uint16) (offset uint16, ok bool) {
	for off := p.loc; off < PageSize; off++ {
		if p.used[off] && p.full[off] == value {
			return off, true
		}
	}
	if p.loc == 0 {
		return 0, false
	}
	p.loc--
	p.full[p.loc] = value
	p.used[p.loc] = true
	return p.loc, true
}

// CollidesWith reports whether the code location (the in-page offset of
// the current location counter) has grown up into the pool.
func (p *literalPool) CollidesWith(codeOffset uint16) bool {
	return codeOffset >= p.loc
}

// Words returns the pool's live slots in ascending address order, for
// flushing to the object stream and the listing.
func (p *literalPool) Words() []uint16 {
	out := make([]uint16, 0, PageSize-int(p.loc))
	for off := p.loc; off < PageSize; off++ {
		out = append(out, p.full[off])
	}
	return out
}

// MarkErrored latches the overflow flag, returning true only the first
// time it is called for this pool, so the caller emits the overflow
// diagnostic once per pool rather than once per subsequent insert.
func (p *literalPool) MarkErrored() bool {
	if p.errored {
		return false
	}
	p.errored = true
	return true
}

// Empty reports whether the pool currently holds no literals.
func (p *literalPool) Empty() bool { return p.loc == PageSize }

// reset returns the pool to full-empty, ready for the next page.
func (p *literalPool) reset() {
	*p = literalPool{loc: PageSize}
}
