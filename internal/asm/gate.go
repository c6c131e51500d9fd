/*
 * palbart - Gated output sink (Writing / Suppressed).
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

// gate models "currently writing" vs "currently suppressed" for a sink
// that XLIST (listing) or NOPUNCH/ENPUNCH (object stream) can toggle
// mid-assembly. It replaces the original's mutable global flag with an
// explicit two-state value: On() reports which state a caller is in
// without the caller ever needing to juggle a stashed raw pointer.
type gate struct {
	on bool
}

func newGate(on bool) gate { return gate{on: on} }

func (g *gate) Enable()     { g.on = true }
func (g *gate) Disable()    { g.on = false }
func (g *gate) Toggle()     { g.on = !g.on }
func (g *gate) On() bool    { return g.on }
