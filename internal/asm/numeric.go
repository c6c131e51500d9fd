/*
 * palbart - DUBL and FLTG literal parsers.
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

// ParseDubl parses one DUBL operand: an optional sign, a run of decimal
// digits. The magnitude is capped at 2^23-1 before negation, matching
// the original's saturating behavior rather than wrapping. The result
// is two 12-bit words, most-significant first.
func (a *Assembler) ParseDubl(text string) (hi, lo uint16, ok bool) {
	neg := false
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		neg = text[i] == '-'
		i++
	}
	if i >= len(text) {
		return 0, 0, false
	}
	var mag int64
	for ; i < len(text); i++ {
		ch := text[i]
		if ch < '0' || ch > '9' {
			return 0, 0, false
		}
		mag = mag*10 + int64(ch-'0')
		if mag > 1<<23-1 {
			mag = 1<<23 - 1
		}
	}
	v := mag
	if neg {
		v = -v
	}
	u := uint32(v) & 0xFFFFFF
	return uint16(u >> 12), uint16(u & WordMask), true
}

// fltgState is FLTG's lexical scanning state: sign, integer digits,
// fraction digits, exponent sign, exponent digits.
type fltgState int

const (
	fltgStart fltgState = iota
	fltgIntDigits
	fltgFracDigits
	fltgExpSign
	fltgExpDigits
)

// ParseFltg parses one FLTG operand into DEC's floating format: a
// 12-bit two's-complement exponent word followed by a 24-bit mantissa held
// in two more 12-bit words (sign in the mantissa's top bit). The
// scanner is a small explicit state table rather than regexp, matching
// the lexer's own style (§4.A).
func (a *Assembler) ParseFltg(text string) (expWord, mHi, mLo uint16, ok bool) {
	state := fltgStart
	neg := false
	var intPart, fracPart int64
	fracDigits := 0
	expNeg := false
	var expPart int

	i := 0
	for i < len(text) {
		ch := text[i]
		switch state {
		case fltgStart:
			switch {
			case ch == '+' || ch == '-':
				neg = ch == '-'
				state = fltgIntDigits
				i++
			case ch >= '0' && ch <= '9':
				state = fltgIntDigits
			case ch == '.':
				state = fltgFracDigits
				i++
			default:
				return 0, 0, 0, false
			}

		case fltgIntDigits:
			switch {
			case ch >= '0' && ch <= '9':
				intPart = intPart*10 + int64(ch-'0')
				i++
			case ch == '.':
				state = fltgFracDigits
				i++
			case ch == 'E':
				state = fltgExpSign
				i++
			default:
				return 0, 0, 0, false
			}

		case fltgFracDigits:
			switch {
			case ch >= '0' && ch <= '9':
				fracPart = fracPart*10 + int64(ch-'0')
				fracDigits++
				i++
			case ch == 'E':
				state = fltgExpSign
				i++
			default:
				return 0, 0, 0, false
			}

		case fltgExpSign:
			switch {
			case ch == '+' || ch == '-':
				expNeg = ch == '-'
				i++
			case ch >= '0' && ch <= '9':
			default:
				return 0, 0, 0, false
			}
			state = fltgExpDigits

		case fltgExpDigits:
			if ch < '0' || ch > '9' {
				return 0, 0, 0, false
			}
			expPart = expPart*10 + int(ch-'0')
			i++
		}
	}

	frac := float64(fracPart)
	for d := 0; d < fracDigits; d++ {
		frac /= 10
	}
	mantissa := float64(intPart) + frac
	if neg {
		mantissa = -mantissa
	}
	exp := expPart
	if expNeg {
		exp = -exp
	}

	return packFltg(mantissa, exp)
}

// packFltg normalizes mantissa*10^exp into DEC's floating-point triple:
// a binary exponent word, and a 24-bit mantissa normalized into
// [0.5, 1.0) with its sign in the mantissa's top bit.
func packFltg(mantissa float64, decExp int) (expWord, mHi, mLo uint16, ok bool) {
	if mantissa == 0 {
		return 0, 0, 0, true
	}
	neg := mantissa < 0
	if neg {
		mantissa = -mantissa
	}

	for decExp > 0 {
		mantissa *= 10
		decExp--
	}
	for decExp < 0 {
		mantissa /= 10
		decExp++
	}

	binExp := 0
	for mantissa >= 1 {
		mantissa /= 2
		binExp++
	}
	for mantissa < 0.5 {
		mantissa *= 2
		binExp--
	}

	// Mantissa normalized into [0.5, 1.0) scales to [2^22, 2^23) in 23
	// bits, leaving bit 23 free to hold the sign explicitly.
	scaled := int64(mantissa * float64(1<<23))
	if scaled >= 1<<23 {
		scaled = 1<<23 - 1
	}
	v := scaled
	if neg {
		v = -v
	}
	u := uint32(v) & 0xFFFFFF

	if binExp < -2048 || binExp > 2047 {
		return 0, 0, 0, false
	}
	return uint16(int32(binExp)) & WordMask, uint16(u >> 12), uint16(u & WordMask), true
}
