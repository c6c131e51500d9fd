/*
 * palbart - Octal formatting helpers for the listing and cross-reference printer.
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

// Package octal formats 12-bit words and 15-bit addresses the way a
// PDP-8 listing does: fixed-width, zero-padded octal digit runs.
package octal

import "strings"

var octalMap = "01234567"

// FormatWord12 writes a 12-bit value as 4 zero-padded octal digits.
func FormatWord12(str *strings.Builder, word uint16) {
	shift := 9
	for i := 0; i < 4; i++ {
		str.WriteByte(octalMap[(word>>shift)&07])
		shift -= 3
	}
}

// FormatAddr15 writes a 15-bit location-counter value as 5 zero-padded
// octal digits (field in the high digit, in-field address in the low four).
func FormatAddr15(str *strings.Builder, addr uint32) {
	shift := 12
	for i := 0; i < 5; i++ {
		str.WriteByte(octalMap[(addr>>shift)&07])
		shift -= 3
	}
}

// Word12 renders a 12-bit value as a 4-digit octal string.
func Word12(word uint16) string {
	var b strings.Builder
	FormatWord12(&b, word)
	return b.String()
}

// Addr15 renders a 15-bit location as a 5-digit octal string.
func Addr15(addr uint32) string {
	var b strings.Builder
	FormatAddr15(&b, addr)
	return b.String()
}
