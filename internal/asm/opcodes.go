/*
 * palbart - Permanent symbol table seed: pseudo-ops, MRI opcodes, IOT/OPR catalogue.
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

// seedSym is the shape of one permanent-table entry before insertion.
type seedSym struct {
	name  string
	value uint16
	typ   int
}

// seedSymbols is the full permanent catalogue: pseudo-op directive
// names, the six memory-reference opcodes, the classic IOT device
// codes, and the OPR microcoded group-1/group-2 instructions. Every
// entry here is FIXED and can never be redefined by source text.
var seedSymbols = buildSeed()

func buildSeed() []seedSym {
	var s []seedSym

	add := func(name string, value uint16, typ int) {
		s = append(s, seedSym{name: name, value: value, typ: typ | Fixed | Defined})
	}

	// Memory-reference instructions (opcode in bits 9-11).
	add("AND", 0o0000, MRI)
	add("TAD", 0o1000, MRI)
	add("ISZ", 0o2000, MRI)
	add("DCA", 0o3000, MRI)
	add("JMS", 0o4000, MRI)
	add("JMP", 0o5000, MRI)

	// IOT: classic device codes for console TTY and paper tape reader/punch.
	add("ION", 0o6001, 0)
	add("IOF", 0o6002, 0)
	add("RSF", 0o6011, 0)
	add("RRB", 0o6012, 0)
	add("RFC", 0o6014, 0)
	add("PSF", 0o6021, 0)
	add("PCF", 0o6022, 0)
	add("PPC", 0o6024, 0)
	add("PLS", 0o6026, 0)
	add("KSF", 0o6031, 0)
	add("KCC", 0o6032, 0)
	add("KRS", 0o6034, 0)
	add("KIE", 0o6035, 0)
	add("KRB", 0o6036, 0)
	add("TSF", 0o6041, 0)
	add("TCF", 0o6042, 0)
	add("TPC", 0o6044, 0)
	add("TSK", 0o6045, 0)
	add("TLS", 0o6046, 0)

	// OPR group 1 (micro-order fixed regardless of write order).
	add("NOP", 0o7000, 0)
	add("IAC", 0o7001, 0)
	add("BSW", 0o7002, 0)
	add("RAL", 0o7004, 0)
	add("RTL", 0o7006, 0)
	add("RAR", 0o7010, 0)
	add("RTR", 0o7012, 0)
	add("CML", 0o7020, 0)
	add("CMA", 0o7040, 0)
	add("CLL", 0o7100, 0)
	add("CLA", 0o7200, 0)

	// OPR group 2.
	add("SKP", 0o7410, 0)
	add("SNL", 0o7420, 0)
	add("SZL", 0o7430, 0)
	add("SZA", 0o7440, 0)
	add("SNA", 0o7450, 0)
	add("SMA", 0o7500, 0)
	add("SPA", 0o7510, 0)
	add("HLT", 0o7402, 0)
	add("OSR", 0o7404, 0)

	// Pseudo-ops: the value carries the directive id dispatched on in directive.go.
	for name, id := range directiveIDs {
		add(name, uint16(id), Pseudo)
	}

	return s
}
