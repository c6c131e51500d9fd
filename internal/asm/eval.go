/*
 * palbart - Expression evaluator: primaries, binary operators, implicit OR, MRI fusion.
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

import "strconv"

// exprResult carries a computed value together with enough of its
// provenance for the OR-chain in Eval to decide whether the next term
// fuses as an MRI operand address instead of combining by plain OR.
type exprResult struct {
	value   uint16
	typ     int // symtab type bits of the term's symbol, 0 for a literal/computed term
	ok      bool
	symIdx  int // -1 unless the term was a bare symbol reference
}

// Eval evaluates one full statement-level expression: a blank-separated
// chain of terms, implicitly OR'd together, with MRI operand fusion
// applied whenever an accumulated MRI-typed value meets a following
// term (§4.C). It stops at EOF, a statement terminator, a literal's
// closing ')' or ']', or a conditional body's opening '<', without
// consuming it.
func (a *Assembler) Eval(lex *Lexer) (value uint16, any bool) {
	var accType int

	for {
		lex.skipBlanks()
		if lex.AtEOF() {
			break
		}
		save := lex.Pos()
		peek := lex.Next(false)
		lex.SetPos(save)
		if peek.kind == lexPunct && (isTerminator(peek.ch) || peek.ch == ')' || peek.ch == ']' || peek.ch == '<') {
			break
		}
		if peek.kind == lexEOF {
			break
		}

		// "I" immediately following an MRI-typed accumulator sets the
		// indirect bit directly rather than being fused as the address.
		if accType&MRI != 0 && peek.kind == lexIdent && peek.text == "I" {
			lex.Next(false)
			if value&IndirectBit != 0 {
				a.raise(TagIllegalIndirect, "illegal indirect", "indirect bit already set", peek.start, false)
			}
			value |= IndirectBit
			continue
		}

		term := a.evalTerm(lex)
		if !term.ok {
			break
		}

		if !any {
			value = term.value
			accType = term.typ
			any = true
			continue
		}

		if accType&MRI != 0 {
			value = a.fuseMRI(value, term.value)
			accType = 0
		} else {
			value |= term.value
			accType = term.typ
		}
	}

	return value, any
}

// evalTerm scans one tightly-bound operator chain: primary (op primary)*,
// stopping at a blank, EOF, or terminator (the blank is what separates
// implicit-OR terms from each other).
func (a *Assembler) evalTerm(lex *Lexer) exprResult {
	res := a.primary(lex)
	if !res.ok {
		return res
	}

	for {
		if lex.PeekBlank() || lex.AtEOF() {
			return res
		}
		save := lex.Pos()
		op := lex.Next(false)
		if op.kind != lexPunct || !isBinaryOp(op.ch) {
			lex.SetPos(save)
			return res
		}
		if lex.PeekBlank() {
			a.raise(TagIllegal, "illegal blank", "operator cannot be followed by a blank", lex.Pos(), false)
		}
		rhs := a.primary(lex)
		if !rhs.ok {
			return res
		}
		res.value = applyBinaryOp(op.ch, res.value, rhs.value)
		res.typ = 0
		res.symIdx = -1
	}
}

func isBinaryOp(ch byte) bool {
	switch ch {
	case '+', '-', '^', '%', '&', '!':
		return true
	}
	return false
}

func applyBinaryOp(op byte, a, b uint16) uint16 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '^':
		return a * b
	case '%':
		if b == 0 {
			return 0
		}
		return a / b
	case '&':
		return a & b
	case '!':
		return a | b
	}
	return a
}

// primary parses one primary expression per §4.C: identifier, digit
// run in the current radix, '.', quoted character, bracketed literal,
// parenthesized current-page literal, or unary minus.
func (a *Assembler) primary(lex *Lexer) exprResult {
	lex.skipBlanks()
	if lex.AtEOF() {
		return exprResult{symIdx: -1}
	}

	save := lex.Pos()
	tok := lex.Next(false)

	switch tok.kind {
	case lexIdent:
		idx, overflow := a.symtab.Lookup(tok.text)
		if overflow {
			a.raise(TagSymtabFull, "symbol table full", "too many distinct symbols", tok.start, true)
			return exprResult{symIdx: -1}
		}
		if a.pass == Pass1 {
			a.symtab.Tally(idx)
		} else {
			a.xrefWriteRef(idx, a.lineNo)
		}
		e := a.symtab.Entry(idx)
		// Pass 1 forward references are expected to resolve by the time
		// pass 2 reads the symbol table; only a reference still undefined
		// in pass 2 is a genuine error (same bit test as the "?" marker
		// in the listing).
		if a.pass == Pass2 && e.typ&Defined == 0 {
			a.raise(TagUndefined, "undefined symbol", "reference to a symbol that was never defined", tok.start, false)
		}
		return exprResult{value: e.value, typ: e.typ, ok: true, symIdx: idx}

	case lexNumber:
		v, ok := a.parseRadixNumber(tok.text)
		if !ok {
			a.raise(TagIllegal, "bad digit", "number not in current radix", tok.start, false)
		}
		return exprResult{value: v, ok: true, symIdx: -1}

	case lexQuotedChar:
		return exprResult{value: uint16(tok.ch), ok: true, symIdx: -1}

	case lexPunct:
		switch tok.ch {
		case '.':
			return exprResult{value: uint16((int32(a.fieldLC()) + a.reloc)) & WordMask, ok: true, symIdx: -1}
		case '-':
			rhs := a.primary(lex)
			if !rhs.ok {
				return rhs
			}
			return exprResult{value: (0 - rhs.value) & WordMask, ok: true, symIdx: -1}
		case '[':
			v, ok := a.evalBracketed(lex, ']')
			if !ok {
				return exprResult{symIdx: -1}
			}
			off, fit := a.pageZero.Insert(v)
			if !fit && a.pageZero.MarkErrored() {
				a.raise(TagZeroExceeded, "literal pool full", "page-zero literal pool overflow", tok.start, false)
			}
			return exprResult{value: off, ok: true, symIdx: -1}
		case '(':
			v, ok := a.evalBracketed(lex, ')')
			if !ok {
				return exprResult{symIdx: -1}
			}
			off, fit := a.curPage.Insert(v)
			if !fit && a.curPage.MarkErrored() {
				a.raise(TagPageExceeded, "literal pool full", "current-page literal pool overflow", tok.start, false)
			}
			return exprResult{value: PageBit | off, ok: true, symIdx: -1}
		}
	}

	lex.SetPos(save)
	a.raise(TagIllegal, "illegal character", "unrecognized token in expression", save, false)
	return exprResult{symIdx: -1}
}

// evalBracketed evaluates the inner expression of a [..] or (..)
// literal and consumes the closing delimiter.
func (a *Assembler) evalBracketed(lex *Lexer, close byte) (uint16, bool) {
	v, any := a.Eval(lex)
	lex.skipBlanks()
	save := lex.Pos()
	tok := lex.Next(false)
	if tok.kind != lexPunct || tok.ch != close {
		lex.SetPos(save)
		a.raise(TagIllegal, "missing delimiter", "unterminated literal", save, false)
	}
	return v, any
}

// parseRadixNumber parses text in the current radix (8 unless DECIMAL
// is in effect), returning ok=false if a digit doesn't fit.
func (a *Assembler) parseRadixNumber(text string) (uint16, bool) {
	n, err := strconv.ParseInt(text, a.radix, 64)
	if err != nil {
		return 0, false
	}
	return uint16(n) & WordMask, true
}

// fuseMRI implements §4.C rules 1-4: combine an MRI-typed accumulator
// with a following address term.
func (a *Assembler) fuseMRI(value, addrFull uint16) uint16 {
	addr := addrFull & WordMask

	if addr < PageSize {
		return value | addr
	}

	addrPage := addr >> 7
	if addrPage == a.currentPage() {
		return value | PageBit | (addr & PageMask)
	}

	if a.literalsOn && value&IndirectBit == 0 {
		off, ok := a.curPage.Insert(addr)
		if !ok {
			if a.curPage.MarkErrored() {
				a.raise(TagPageExceeded, "literal pool full", "current-page literal pool overflow", -1, false)
			}
			off = 0
		}
		a.curLine.indirect = true
		return value | IndirectBit | PageBit | off
	}

	if value&IndirectBit != 0 {
		a.raise(TagIllegalIndirect, "illegal indirect", "address is off-page and already indirect", -1, false)
	} else {
		a.raise(TagIllegalReference, "off page", "address reference is off page and literals are disabled", -1, false)
	}
	return value | (addr & PageMask)
}
