/*
 * palbart - RIM/BIN object-stream emitter.
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
	"io"

	"github.com/radekh/palbart/internal/papertape"
)

// AttachObject opens the object stream. Call once before pass 2 emits
// its first word; Detach flushes the trailer.
func (a *Assembler) AttachObject(w io.Writer) {
	a.objSink = papertape.Attach(w)
	a.objSink.WriteLeader(papertape.DefaultLeaderLen)
	a.binStarted = false
	a.rimStarted = false
	a.haveOrigin = false
	a.checksum = 0
}

// DetachObject writes the trailer and closes the underlying writer.
func (a *Assembler) DetachObject() error {
	if a.objSink == nil {
		return nil
	}
	if a.objMode == ModeBIN && a.binStarted {
		a.writeChecksum()
	}
	a.objSink.WriteLeader(papertape.DefaultLeaderLen)
	return a.objSink.Detach()
}

// EmitObjectWord is the EmitWord callback pass 2 wires to the driver
// when -NOPUNCH is not in effect: it writes value at addr in the
// current object mode, emitting an origin pair first whenever addr
// isn't the next sequential location.
func (a *Assembler) EmitObjectWord(addr uint32, value uint16, fromLiteral bool) {
	if a.objSink == nil || !a.punchGate.On() {
		return
	}
	if a.objMode == ModeRIM {
		a.emitRIMWord(addr, value)
		return
	}
	a.emitBINWord(addr, value)
}

// emitBINWord implements §4.H's BIN format: an origin pair (two 6-bit-
// field bytes encoding the 12-bit in-field address) precedes the first word of
// any run, or any word whose address isn't one past the last one
// written; each data word is two 6-bit bytes; the running checksum
// (mod 2^12) excludes leader bytes and covers the origin and data
// bytes actually punched.
func (a *Assembler) emitBINWord(addr uint32, value uint16) {
	if !a.haveOrigin || addr != a.lastOrigin {
		a.writeOriginPair(addr)
	}
	a.writeDataWord(value)
	a.lastOrigin = addr + 1
	a.haveOrigin = true
	a.binStarted = true
}

// emitRIMWord implements the simpler RIM format: every word is preceded
// by its own origin pair (RIM has no "next sequential" elision), no
// checksum is kept.
func (a *Assembler) emitRIMWord(addr uint32, value uint16) {
	a.writeOriginPair(addr)
	a.writeDataWord(value)
	a.rimStarted = true
}

// writeOriginPair writes the two 6-bit bytes that encode the 12-bit
// in-field part of addr: high 6 bits, then low 6, with the origin
// marker bit (0o200, matching papertape.LeaderByte's top-bit
// convention) set on the high byte. The field number is not part of the
// pair; it reaches the tape only through emitFieldChangeByte.
func (a *Assembler) writeOriginPair(addr uint32) {
	hi := byte((addr>>6)&0o77) | 0o200
	lo := byte(addr & 0o77)
	a.punchByte(hi)
	a.punchByte(lo)
}

// emitFieldChangeByte writes the single field-setting byte PAL punches
// when FIELD changes the current field: 0o300 with the field number in
// bits 3-5. It bypasses punchByte so it is never folded into the BIN
// checksum.
func (a *Assembler) emitFieldChangeByte(field int) {
	if a.objSink == nil {
		return
	}
	a.objSink.WriteByte(byte(0o300 | ((field & 7) << 3)))
}

// writeLeader punches n leader bytes, or the default leader length when
// n is zero or negative.
func (a *Assembler) writeLeader(n int) {
	if a.objSink == nil {
		return
	}
	if n < 0 {
		n = papertape.DefaultLeaderLen
	}
	a.objSink.WriteLeader(n)
}

func (a *Assembler) writeDataWord(value uint16) {
	hi := byte((value >> 6) & 0o77)
	lo := byte(value & 0o77)
	a.punchByte(hi)
	a.punchByte(lo)
}

func (a *Assembler) punchByte(b byte) {
	a.objSink.WriteByte(b)
	if a.objMode == ModeBIN {
		a.checksum += uint16(b)
	}
}

// writeChecksum appends the final checksum pair to a BIN tape: the
// 12-bit running sum, mod 2^12, as two 6-bit bytes (not itself added to
// the sum).
func (a *Assembler) writeChecksum() {
	sum := a.checksum & WordMask
	a.objSink.WriteByte(byte((sum >> 6) & 0o77))
	a.objSink.WriteByte(byte(sum & 0o77))
}
