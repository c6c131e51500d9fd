/*
 * palbart - Two-pass assembly driver: per-line statement dispatch.
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

import "strings"

// SourceLine is one physical input line, numbered from 1.
type SourceLine struct {
	Number int
	Text   string
}

// AssembleLine runs one physical source line through the driver: it may
// hold several ';'-separated statements, each of which can emit zero or
// more words. emit is told about every emitted word via EmitWord
// so pass 2's listing/object-stream consumers never have to re-walk the
// Assembler's internal state.
type EmitWord func(addr uint32, value uint16, fromLiteral bool)

func (a *Assembler) AssembleLine(line SourceLine, emit EmitWord) {
	a.lineNo = line.Number
	a.curLine = lineResult{}
	if a.done {
		return
	}
	text := expandTabs(line.Text)
	if len(text) > MaxLineLen {
		a.raise(TagIllegal, "line too long", "source line longer than 96 characters truncated", MaxLineLen, false)
		text = text[:MaxLineLen]
	}

	if a.condSkipDepth > 0 {
		lex := NewLexer(text)
		a.skipCondInLine(lex)
		if a.condSkipDepth > 0 {
			return
		}
		a.runStatements(lex, emit)
		return
	}

	if a.numericMode != 0 {
		a.continueNumericBlock(text, emit)
		return
	}

	a.runStatements(NewLexer(text), emit)
}

// runStatements walks the ';'-separated statements remaining on lex's
// line, stopping at a comment, EOF, or a '$' that ended the source.
func (a *Assembler) runStatements(lex *Lexer, emit EmitWord) {
	for {
		lex.skipBlanks()
		if lex.AtEOF() {
			return
		}

		a.statement(lex, emit)
		if a.done || a.condSkipDepth > 0 {
			return
		}

		lex.skipBlanks()
		if lex.AtEOF() {
			return
		}
		save := lex.Pos()
		tok := lex.Next(false)
		if tok.kind == lexComment {
			return
		}
		if tok.kind == lexPunct && tok.ch == ';' {
			continue
		}
		lex.SetPos(save)
		return
	}
}

// statement parses and executes one ';'-delimited statement: an
// optional label, then an origin-set, assignment, directive, or plain
// expression statement.
func (a *Assembler) statement(lex *Lexer, emit EmitWord) {
	a.maybeLabel(lex)

	lex.skipBlanks()
	if lex.AtEOF() {
		return
	}

	save := lex.Pos()
	tok := lex.Next(false)

	switch {
	case tok.kind == lexComment:
		lex.SetPos(save)
		return

	case tok.kind == lexPunct && tok.ch == ';':
		lex.SetPos(save)
		return

	case tok.kind == lexPunct && tok.ch == '$':
		a.endOfSource(emit)
		return

	case tok.kind == lexPunct && tok.ch == '*':
		v, any := a.Eval(lex)
		if any {
			if (v&WordMask)>>7 != a.fieldLC()>>7 {
				for _, lw := range a.drainCurPagePool() {
					emit((uint32(a.field)<<FieldShift)|uint32(lw.Addr), lw.Value, true)
				}
			}
			a.setLoc(a.field, v)
		}
		a.curLine.kind = shapeLocVal
		a.curLine.loc = a.loc15()
		return

	case tok.kind == lexIdent:
		idx, overflow := a.symtab.Lookup(tok.text)
		if overflow {
			a.raise(TagSymtabFull, "symbol table full", "too many distinct symbols", tok.start, true)
			return
		}
		entry := a.symtab.Entry(idx)

		if entry.typ&Pseudo != 0 {
			a.execDirective(idx, entry, lex, emit)
			return
		}

		lex.skipBlanks()
		eqSave := lex.Pos()
		eq := lex.Next(false)
		if eq.kind == lexPunct && eq.ch == '=' {
			a.doAssign(idx, lex)
			return
		}
		lex.SetPos(eqSave)

		lex.SetPos(save)
		a.evalAndEmit(lex, emit)
		return

	default:
		lex.SetPos(save)
		a.evalAndEmit(lex, emit)
	}
}

// maybeLabel consumes a leading "NAME," label definition, with no blank
// allowed between the name and the comma.
func (a *Assembler) maybeLabel(lex *Lexer) {
	lex.skipBlanks()
	save := lex.Pos()
	if lex.AtEOF() {
		return
	}
	tok := lex.Next(false)
	if tok.kind != lexIdent {
		lex.SetPos(save)
		return
	}
	if tok.end >= len(lex.line) || lex.line[tok.end] != ',' {
		lex.SetPos(save)
		return
	}
	lex.SetPos(tok.end + 1)

	idx, overflow := a.symtab.Lookup(tok.text)
	if overflow {
		a.raise(TagSymtabFull, "symbol table full", "too many distinct symbols", tok.start, true)
		return
	}
	// Labels carry the full 15-bit location (field and in-field address),
	// not just the 12-bit in-field part.
	full := a.loc15AsLabel()
	switch a.symtab.Define(idx, full, true, a.pass) {
	case defDuplicateLabel:
		a.raise(TagDuplicateTag, "duplicate tag", "label redefined at a different value", tok.start, false)
	}
	if a.pass == Pass1 {
		a.symtab.Tally(idx)
	} else {
		a.xrefWriteDef(idx, a.lineNo)
	}
}

// loc15AsLabel packs field<<12 | (in-field-address + reloc), so a
// label's value is directly usable by both MRI fusion (low 12 bits) and
// the listing (all 15 bits). '.' by contrast yields only the 12-bit
// in-field part.
func (a *Assembler) loc15AsLabel() uint16 {
	return uint16((int32(a.fieldLC())+a.reloc)&WordMask) | uint16(a.field)<<FieldShift
}

func (a *Assembler) doAssign(idx int, lex *Lexer) {
	v, any := a.Eval(lex)
	if !any {
		a.raise(TagIllegalEquals, "missing value", "assignment has no expression", lex.Pos(), false)
		return
	}
	res := a.symtab.Define(idx, v, false, a.pass)
	switch res {
	case defFixedIgnored:
		a.raise(TagIllegalRedefine, "fixed symbol", "cannot redefine a permanent symbol", -1, false)
	case defRedefinedNewValue:
		a.raise(TagRedefined, "redefined", "symbol redefined with a different value", -1, false)
	}
	if a.pass == Pass1 {
		a.symtab.Tally(idx)
	} else {
		a.xrefWriteDef(idx, a.lineNo)
	}
	a.curLine.kind = shapeLineVal
	a.curLine.value = v
	a.curLine.haveValue = true
}

func (a *Assembler) execDirective(idx int, entry symEntry, lex *Lexer, emit EmitWord) {
	id := directiveID(entry.value)
	switch id {
	case dirDubl:
		a.numericMode = numDubl
		a.continueNumericBlock(lex.line[lex.Pos():], emit)
		return
	case dirFltg:
		a.numericMode = numFltg
		a.continueNumericBlock(lex.line[lex.Pos():], emit)
		return
	}

	out := a.Dispatch(id, lex)
	a.emitOutcome(out, emit)
}

// emitOutcome writes whatever a directive produced: literal-pool
// drainage first (at fixed addresses, since it belongs to the page
// being vacated), then sequential words at the current location.
func (a *Assembler) emitOutcome(out dirOutcome, emit EmitWord) {
	for _, lw := range out.literals {
		full := (uint32(a.field) << FieldShift) | uint32(lw.Addr)
		emit(full, lw.Value, true)
	}
	for _, w := range out.words {
		emit(a.loc15(), w, false)
		a.clc = (a.clc &^ WordMask) | uint32((a.fieldLC()+1)&WordMask)
	}
	if out.after != nil {
		out.after()
	}
}

// endOfSource implements '$': flush both literal pools at their fixed
// addresses and stop accepting any further statement on this or later
// lines (§3's lifecycle - pools are flushed "at $, and at end of
// assembly").
func (a *Assembler) endOfSource(emit EmitWord) {
	for _, lw := range a.drainPools() {
		full := (uint32(a.field) << FieldShift) | uint32(lw.Addr)
		emit(full, lw.Value, true)
	}
	a.done = true
}

// evalAndEmit runs the general expression evaluator (which transparently
// handles MRI mnemonics, IOT/OPR opcodes, and plain data expressions via
// implicit OR) and emits one word if the statement produced a value.
func (a *Assembler) evalAndEmit(lex *Lexer, emit EmitWord) {
	v, any := a.Eval(lex)
	if !any {
		return
	}
	if a.curPage.CollidesWith(a.fieldLC() & PageMask) {
		a.raise(TagPageExceeded, "code collides with literals", "location counter has grown into the literal pool", -1, false)
	}
	emit(a.loc15(), v, false)
	a.curLine.kind = shapeLineLocVal
	a.curLine.loc = a.loc15()
	a.curLine.value = v
	a.curLine.haveValue = true
	a.clc = (a.clc &^ WordMask) | uint32((a.fieldLC()+1)&WordMask)
}

// Numeric block state (DUBL/FLTG span lines until a blank line).
const (
	numNone = iota
	numDubl
	numFltg
)

func (a *Assembler) continueNumericBlock(rest string, emit EmitWord) {
	if strings.TrimSpace(rest) == "" {
		a.numericMode = numNone
		return
	}
	lex := NewLexer(expandTabs(rest))
	var words []uint16
	if a.numericMode == numDubl {
		words = a.doDubl(lex)
	} else {
		words = a.doFltg(lex)
	}
	for _, w := range words {
		emit(a.loc15(), w, false)
		a.clc = (a.clc &^ WordMask) | uint32((a.fieldLC()+1)&WordMask)
	}
}
