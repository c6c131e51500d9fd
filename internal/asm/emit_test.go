/*
 * palbart - RIM/BIN emitter byte-level test cases.
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
	"bytes"
	"testing"

	"github.com/radekh/palbart/internal/papertape"
)

// assembleToObject runs src through both passes with a real object sink
// attached for pass 2, returning the raw punched bytes.
func assembleToObject(t *testing.T, src string, objMode int) (*Assembler, []byte) {
	t.Helper()
	a := NewAssembler(false, objMode)
	lines := splitLines(src)

	a.StartPass(Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
		if a.Done() {
			break
		}
	}

	var buf bytes.Buffer
	a.StartPass(Pass2)
	a.AttachObject(&buf)
	for _, ln := range lines {
		a.AssembleLine(ln, a.EmitObjectWord)
		if a.Done() {
			break
		}
	}
	if err := a.DetachObject(); err != nil {
		t.Fatalf("DetachObject: %v", err)
	}
	return a, buf.Bytes()
}

// stripLeader trims every papertape.LeaderByte frame from both ends,
// leaving only the body an emitter actually wrote through punchByte.
func stripLeader(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == papertape.LeaderByte {
		i++
	}
	j := len(b)
	for j > i && b[j-1] == papertape.LeaderByte {
		j--
	}
	return b[i:j]
}

// TestBINChecksumMatchesBodySum exercises spec §8's BIN-checksum
// invariant directly against real punched bytes: the trailing word
// pair must equal the sum, mod 2^12, of every preceding body byte.
func TestBINChecksumMatchesBodySum(t *testing.T) {
	_, raw := assembleToObject(t, "*200\n CLA\n HLT\n $\n", ModeBIN)
	body := stripLeader(raw)
	if len(body) < 2 {
		t.Fatalf("body too short: %v", body)
	}
	data := body[:len(body)-2]
	gotHi, gotLo := body[len(body)-2], body[len(body)-1]
	got := uint16(gotHi)<<6 | uint16(gotLo)

	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	sum &= WordMask

	if got != sum {
		t.Errorf("trailing checksum = %04o, want %04o (sum of %v)", got, sum, data)
	}
}

// TestRIMHasNoChecksum confirms RIM mode never appends a trailing
// checksum pair the way BIN does: every word is self-contained as an
// origin pair followed by a data pair, four bytes per word with the
// plain CLA/HLT program.
func TestRIMHasNoChecksum(t *testing.T) {
	_, raw := assembleToObject(t, "*200\n CLA\n HLT\n $\n", ModeRIM)
	body := stripLeader(raw)
	if len(body)%4 != 0 {
		t.Errorf("RIM body length = %d, want a multiple of 4 (origin+data pair per word)", len(body))
	}
}

// TestFieldChangeByteExcludedFromChecksum checks that switching fields
// mid-program emits the 0o300-tagged byte without folding it into the
// running BIN checksum.
func TestFieldChangeByteExcludedFromChecksum(t *testing.T) {
	_, raw := assembleToObject(t, "*200\n CLA\n FIELD 1\n HLT\n $\n", ModeBIN)
	body := stripLeader(raw)

	foundFieldByte := false
	var sum uint16
	for i := 0; i < len(body)-2; i++ {
		if body[i]&0o300 == 0o300 {
			foundFieldByte = true
			continue
		}
		sum += uint16(body[i])
	}
	sum &= WordMask

	if !foundFieldByte {
		t.Fatal("no field-change byte found in the punched stream")
	}
	gotHi, gotLo := body[len(body)-2], body[len(body)-1]
	got := uint16(gotHi)<<6 | uint16(gotLo)
	if got != sum {
		t.Errorf("checksum = %04o, want %04o (field-change byte excluded)", got, sum)
	}
}
