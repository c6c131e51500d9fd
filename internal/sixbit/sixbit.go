/*
 * palbart - TEXT directive six-bit character packing.
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

// Package sixbit packs ASCII text into 12-bit words for the TEXT
// directive: two characters per word, each masked to its low six bits.
package sixbit

// Pack packs s two characters per word: the first character of a pair
// occupies the high six bits, the second the low six bits. An odd
// trailing character is packed alone into the high six bits of a final
// word. An empty string still yields a single zero word.
func Pack(s string) []uint16 {
	if len(s) == 0 {
		return []uint16{0}
	}

	words := make([]uint16, 0, (len(s)+1)/2)
	for i := 0; i < len(s); i += 2 {
		hi := uint16(s[i]&0o77) << 6
		var lo uint16
		if i+1 < len(s) {
			lo = uint16(s[i+1] & 0o77)
		}
		words = append(words, hi|lo)
	}
	return words
}

// Unpack reverses Pack, dropping any trailing zero slot left by an odd
// character count. Used by tests and the round-trip property checks.
func Unpack(words []uint16) string {
	// Six-bit codes 0o00-0o37 stand for ASCII 0o100-0o137 ('@', 'A'-'Z',
	// ...); codes 0o40-0o77 are already their own ASCII value.
	ascii := func(c byte) byte {
		if c < 0o40 {
			return c | 0o100
		}
		return c
	}
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, ascii(byte((w>>6)&0o77)))
		if lo := byte(w & 0o77); lo != 0 {
			out = append(out, ascii(lo))
		}
	}
	return string(out)
}
