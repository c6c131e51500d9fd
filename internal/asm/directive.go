/*
 * palbart - Directive processor: pseudo-op dispatch table (§4.F).
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
	"strings"

	"github.com/radekh/palbart/internal/sixbit"
)

// directiveID is the value stored in a pseudo-op's symbol-table entry;
// opcodes.go seeds one entry per name below, typed Pseudo.
type directiveID int

const (
	dirOctal directiveID = iota + 1
	dirDecimal
	dirField
	dirPage
	dirSegmnt
	dirFixMri
	dirFixTab
	dirExpunge
	dirEnpunch
	dirNopunch
	dirRimpunch
	dirBinpunch
	dirText
	dirTitle
	dirZblock
	dirEject
	dirXlist
	dirPause
	dirReloc
	dirIfdef
	dirIfndef
	dirIfzero
	dirIfnzero
	dirDubl
	dirFltg
	dirBank
)

// directiveIDs maps every recognized pseudo-op spelling to its ID.
// opcodes.go's buildSeed walks this to populate the permanent symbol
// table; directive.go's dispatch switches on the same IDs.
var directiveIDs = map[string]directiveID{
	"OCTAL":    dirOctal,
	"DECIMAL":  dirDecimal,
	"FIELD":    dirField,
	"PAGE":     dirPage,
	"SEGMNT":   dirSegmnt,
	"FIXMRI":   dirFixMri,
	"FIXTAB":   dirFixTab,
	"EXPUNGE":  dirExpunge,
	"ENPUNCH":  dirEnpunch,
	"NOPUNCH":  dirNopunch,
	"RIMPUNCH": dirRimpunch,
	"BINPUNCH": dirBinpunch,
	"TEXT":     dirText,
	"TITLE":    dirTitle,
	"ZBLOCK":   dirZblock,
	"EJECT":    dirEject,
	"XLIST":    dirXlist,
	"PAUSE":    dirPause,
	"RELOC":    dirReloc,
	"IFDEF":    dirIfdef,
	"IFNDEF":   dirIfndef,
	"IFZERO":   dirIfzero,
	"IFNZERO":  dirIfnzero,
	"DUBL":     dirDubl,
	"FLTG":     dirFltg,
	"BANK":     dirBank,
}

// dirOutcome tells the driver what a directive produced: sequential
// words to emit at the current location, and/or literal-pool words that
// must be poked into fixed addresses on a page or field being vacated.
type dirOutcome struct {
	words    []uint16
	literals []literalWord
	// after, if set, runs once emitOutcome has emitted literals and
	// words, before the driver moves on to the next statement. RIMPUNCH
	// and BINPUNCH use it to switch a.objMode only after any literals
	// drained by the mode switch itself have been punched in the OLD
	// encoding.
	after func()
}

// literalWord is one pool slot that must be poked into the object
// stream at a fixed in-field address because the page or field that
// held it is being vacated.
type literalWord struct {
	Addr  uint16
	Value uint16
}

// Dispatch runs the pseudo-op named by id (already resolved from a
// Pseudo-typed symbol table entry) against the remainder of the line.
func (a *Assembler) Dispatch(id directiveID, lex *Lexer) dirOutcome {
	switch id {
	case dirOctal:
		a.radix = 8
		return dirOutcome{}

	case dirDecimal:
		a.radix = 10
		return dirOutcome{}

	case dirField:
		return a.doField(lex)

	case dirPage:
		return a.doPage(lex)

	case dirSegmnt:
		return a.doSegmnt(lex)

	case dirFixMri:
		a.doFixMri(lex)
		return dirOutcome{}

	case dirFixTab:
		a.symtab.FixTab()
		return dirOutcome{}

	case dirExpunge:
		a.symtab.Expunge()
		return dirOutcome{}

	case dirEnpunch:
		a.punchGate.Enable()
		return dirOutcome{}

	case dirNopunch:
		a.punchGate.Disable()
		return dirOutcome{}

	case dirRimpunch:
		return a.doRimpunch(lex)

	case dirBinpunch:
		return a.doBinpunch(lex)

	case dirText:
		return dirOutcome{words: a.doText(lex)}

	case dirTitle:
		a.doTitle(lex)
		return dirOutcome{}

	case dirZblock:
		return a.doZblock(lex)

	case dirEject:
		a.doEject()
		return dirOutcome{}

	case dirXlist:
		a.listGate.Toggle()
		return dirOutcome{}

	case dirPause:
		return dirOutcome{}

	case dirReloc:
		return a.doReloc(lex)

	case dirIfdef:
		return a.doConditional(lex, false, false)

	case dirIfndef:
		return a.doConditional(lex, false, true)

	case dirIfzero:
		return a.doConditional(lex, true, false)

	case dirIfnzero:
		return a.doConditional(lex, true, true)

	case dirDubl:
		return dirOutcome{words: a.doDubl(lex)}

	case dirFltg:
		return dirOutcome{words: a.doFltg(lex)}

	case dirBank:
		// Open Question (a): BANK is a recognized no-op; it is accepted
		// and diagnosed as unsupported rather than causing a syntax error.
		a.raise(TagIllegal, "BANK not supported", "BANK directive is accepted but has no effect", -1, false)
		return dirOutcome{}
	}
	return dirOutcome{}
}

func (a *Assembler) doField(lex *Lexer) dirOutcome {
	if a.objMode == ModeRIM {
		a.raise(TagIllegal, "FIELD in RIM mode", "FIELD is illegal while punching RIM", -1, false)
		return dirOutcome{}
	}
	v, any := a.Eval(lex)
	if !any {
		v = uint16(a.field) + 1
	}
	f := int(v) & FieldMask
	oldField := a.field
	lits := a.drainPools()
	// The field switch itself runs in after, once emitOutcome has placed
	// lits at their fixed addresses: those addresses are tagged with
	// a.field at emission time, so a.field must still read as oldField
	// while they're being emitted.
	return dirOutcome{
		literals: lits,
		after: func() {
			a.fieldLCs[oldField] = a.fieldLC()
			a.field = f
			if a.fieldLCs[f] == 0 {
				a.fieldLCs[f] = PageSize
			}
			a.setLoc(f, a.fieldLCs[f])
			a.emitFieldChangeByte(f)
			a.haveOrigin = false
		},
	}
}

// doRimpunch implements RIMPUNCH [len]: if a BIN segment with data
// already in it is open, it is closed first (pools flushed, checksum
// written unless len is the -1 sentinel, a leader of len bytes
// punched, defaulting to 8), then the object mode switches to RIM. The
// mode switch happens in the returned outcome's after hook so the
// pools this call drains are still punched in BIN encoding.
func (a *Assembler) doRimpunch(lex *Lexer) dirOutcome {
	v, any := a.Eval(lex)
	leaderLen := 8
	suppressChecksum := false
	if any {
		if v == WordMask {
			suppressChecksum = true
		} else {
			leaderLen = int(v)
		}
	}
	closing := a.objMode == ModeBIN && a.binStarted
	var lits []literalWord
	if closing {
		lits = a.drainPools()
	}
	return dirOutcome{
		literals: lits,
		after: func() {
			if closing {
				if !suppressChecksum {
					a.writeChecksum()
				}
				a.writeLeader(leaderLen)
				a.checksum = 0
				a.binStarted = false
				a.haveOrigin = false
			}
			a.objMode = ModeRIM
		},
	}
}

// doBinpunch implements BINPUNCH [len]: if a RIM segment with data
// already punched is open, its pools are discarded (RIM carries no
// checksum to reconcile), a leader of len bytes is punched (default
// 8), the checksum resets, and the object mode switches to BIN.
func (a *Assembler) doBinpunch(lex *Lexer) dirOutcome {
	v, any := a.Eval(lex)
	leaderLen := 8
	if any {
		leaderLen = int(v)
	}
	closing := a.objMode == ModeRIM && a.rimStarted
	if closing {
		a.curPage.reset()
		a.pageZero.reset()
	}
	return dirOutcome{
		after: func() {
			if closing {
				a.writeLeader(leaderLen)
				a.checksum = 0
				a.rimStarted = false
				a.haveOrigin = false
			}
			a.objMode = ModeBIN
		},
	}
}

func (a *Assembler) doPage(lex *Lexer) dirOutcome {
	v, any := a.Eval(lex)
	var page uint16
	if any {
		page = v & 0o37
	} else {
		page = a.currentPage() + 1
	}
	lits := a.drainCurPagePool()
	a.setLoc(a.field, page*PageSize)
	return dirOutcome{literals: lits}
}

// drainCurPagePool returns the current-page pool's live slots as
// fixed addresses on the page being vacated, and resets the pool for
// the incoming page.
func (a *Assembler) drainCurPagePool() []literalWord {
	base := a.currentPage() * PageSize
	var out []literalWord
	for off := a.curPage.loc; off < PageSize; off++ {
		out = append(out, literalWord{Addr: base + off, Value: a.curPage.full[off]})
	}
	a.curPage.reset()
	return out
}

// drainPools is drainCurPagePool plus the page-zero pool, used when a
// FIELD switch vacates the whole field.
func (a *Assembler) drainPools() []literalWord {
	out := a.drainCurPagePool()
	for off := a.pageZero.loc; off < PageSize; off++ {
		out = append(out, literalWord{Addr: off, Value: a.pageZero.full[off]})
	}
	a.pageZero.reset()
	return out
}

func (a *Assembler) doSegmnt(lex *Lexer) dirOutcome {
	v, _ := a.Eval(lex)
	seg := int(v)
	if a.segLCs == nil {
		a.segLCs = make(map[int]uint16)
	}
	a.segLCs[a.segment] = a.fieldLC()
	a.segment = seg
	// Per the Open Question resolution in SPEC_FULL.md §9(c): an
	// unvisited segment starts at Go's zero value for its location,
	// not the field's conventional 0o200 code origin.
	a.setLoc(a.field, a.segLCs[seg])
	return dirOutcome{}
}

func (a *Assembler) doFixMri(lex *Lexer) {
	lex.skipBlanks()
	tok := lex.Next(false)
	if tok.kind != lexIdent {
		a.raise(TagIllegal, "bad FIXMRI", "FIXMRI requires a symbol name", tok.start, false)
		return
	}
	idx, overflow := a.symtab.Lookup(tok.text)
	if overflow {
		a.raise(TagSymtabFull, "symbol table full", "too many distinct symbols", tok.start, true)
		return
	}
	lex.skipBlanks()
	eq := lex.Next(false)
	if eq.kind != lexPunct || eq.ch != '=' {
		a.raise(TagIllegal, "bad FIXMRI", "FIXMRI NAME=value expected", eq.start, false)
		return
	}
	v, any := a.Eval(lex)
	if !any {
		a.raise(TagIllegal, "bad FIXMRI", "FIXMRI value expression missing", lex.Pos(), false)
		return
	}
	if a.symtab.SetMRI(idx, v) == defFixedIgnored {
		a.raise(TagIllegalRedefine, "fixed symbol", "cannot FIXMRI a permanent symbol", tok.start, false)
	}
}

// doTitle implements TITLE <delim>text<delim>: the byte right after
// TITLE is the delimiter, a doubled delimiter inside the text escapes
// to a literal delimiter character, the result is truncated to 63
// characters, and setting a title forces a page break in the listing.
func (a *Assembler) doTitle(lex *Lexer) {
	lex.skipBlanks()
	if lex.AtEOF() {
		return
	}
	delim := lex.line[lex.Pos()]
	pos := lex.Pos() + 1
	var b strings.Builder
	for pos < len(lex.line) {
		if lex.line[pos] == delim {
			if pos+1 < len(lex.line) && lex.line[pos+1] == delim {
				b.WriteByte(delim)
				pos += 2
				continue
			}
			pos++
			break
		}
		b.WriteByte(lex.line[pos])
		pos++
	}
	lex.SetPos(pos)

	title := b.String()
	if len(title) > 63 {
		title = title[:63]
	}
	a.title = title
	if a.listSink != nil {
		a.listSink.title = title
		a.listSink.Eject()
	}
}

func (a *Assembler) doEject() {
	if a.listSink != nil {
		a.listSink.Eject()
	}
}

func (a *Assembler) doReloc(lex *Lexer) dirOutcome {
	v, any := a.Eval(lex)
	if !any {
		a.reloc = 0
	} else {
		a.reloc = int32(v) - int32(a.fieldLC())
	}
	return dirOutcome{}
}

func (a *Assembler) doZblock(lex *Lexer) dirOutcome {
	lex.skipBlanks()
	negPos := -1
	if !lex.AtEOF() && lex.line[lex.Pos()] == '-' {
		negPos = lex.Pos()
	}
	v, any := a.Eval(lex)
	if !any || v == 0 {
		return dirOutcome{}
	}
	if negPos >= 0 {
		a.raise(TagIllegal, "negative ZBLOCK", "ZBLOCK operand must not be negative", negPos, false)
		return dirOutcome{}
	}
	n := int(v)
	if uint32(a.fieldLC())+uint32(n) > 4096 {
		a.raise(TagIllegal, "ZBLOCK crosses field boundary", "ZBLOCK operand runs past the end of the current field", -1, false)
		return dirOutcome{}
	}
	words := make([]uint16, n)
	return dirOutcome{words: words}
}

// doText packs the delimited text run into six-bit words. The
// character immediately following TEXT (after skipping blanks) is the
// delimiter; text runs until its second occurrence or EOL.
func (a *Assembler) doText(lex *Lexer) []uint16 {
	lex.skipBlanks()
	if lex.AtEOF() {
		return nil
	}
	delim := lex.line[lex.Pos()]
	start := lex.Pos() + 1
	end := start
	for end < len(lex.line) && lex.line[end] != delim {
		end++
	}
	text := lex.line[start:end]
	if end < len(lex.line) {
		end++ // consume the closing delimiter
	} else {
		a.raise(TagIllegal, "unterminated TEXT", "TEXT string missing closing delimiter", start, false)
	}
	lex.SetPos(end)
	return sixbit.Pack(text)
}

// doConditional evaluates an IFDEF/IFNDEF/IFZERO/IFNZERO guard. The
// guarded body is bracketed by '<' '>'; the leading '<' is consumed
// here (it is not itself blank, unlike the closing '>', which isBlank
// already treats as whitespace once a true guard's body is entered
// normally). On a false guard, the body is skipped character-by-
// character, counting nested '<'/'>' and spanning line boundaries via
// condSkipDepth, terminating early if a '$' is reached.
func (a *Assembler) doConditional(lex *Lexer, zeroForm, negate bool) dirOutcome {
	var cond bool
	if zeroForm {
		v, _ := a.Eval(lex)
		cond = v == 0
	} else {
		lex.skipBlanks()
		tok := lex.Next(false)
		if tok.kind != lexIdent {
			a.raise(TagIllegal, "bad conditional", "IFDEF/IFNDEF requires a symbol name", tok.start, false)
			return dirOutcome{}
		}
		idx, overflow := a.symtab.Lookup(tok.text)
		if overflow {
			a.raise(TagSymtabFull, "symbol table full", "too many distinct symbols", tok.start, true)
			return dirOutcome{}
		}
		cond = a.symtab.IsDefinedForConditional(idx)
	}
	if negate {
		cond = !cond
	}

	lex.skipBlanks()
	if !lex.AtEOF() && lex.line[lex.Pos()] == '<' {
		lex.SetPos(lex.Pos() + 1)
	}
	if cond {
		return dirOutcome{}
	}

	a.condSkipDepth = 1
	a.skipCondInLine(lex)
	return dirOutcome{}
}

// skipCondInLine advances lex past a false conditional's body, counting
// nested '<'/'>' against a.condSkipDepth. It returns with condSkipDepth
// still positive if the body runs past the end of this line (the
// driver resumes the skip on the next line); it leaves a trailing '$'
// unconsumed so the driver's normal statement dispatch sees it and ends
// the source the usual way.
func (a *Assembler) skipCondInLine(lex *Lexer) {
	for !lex.AtEOF() {
		ch := lex.line[lex.Pos()]
		if ch == '$' {
			return
		}
		switch ch {
		case '<':
			a.condSkipDepth++
		case '>':
			a.condSkipDepth--
		}
		lex.SetPos(lex.Pos() + 1)
		if a.condSkipDepth == 0 {
			return
		}
	}
}

func (a *Assembler) doDubl(lex *Lexer) []uint16 {
	var words []uint16
	for {
		lex.skipBlanks()
		if lex.AtEOF() {
			break
		}
		save := lex.Pos()
		tok := lex.Next(false)
		if tok.kind == lexPunct && isTerminator(tok.ch) {
			lex.SetPos(save)
			break
		}
		text := lex.line[tok.start:tok.end]
		if tok.kind == lexPunct && (tok.ch == '+' || tok.ch == '-') {
			// sign glued to a following digit run: re-scan as one token.
			save2 := lex.Pos()
			num := lex.Next(false)
			if num.kind == lexNumber {
				text = lex.line[tok.start:num.end]
			} else {
				lex.SetPos(save2)
			}
		}
		hi, lo, ok := a.ParseDubl(text)
		if !ok {
			a.raise(TagIllegal, "bad DUBL", "malformed DUBL operand", tok.start, false)
			continue
		}
		words = append(words, hi, lo)
	}
	return words
}

func (a *Assembler) doFltg(lex *Lexer) []uint16 {
	var words []uint16
	for {
		lex.skipBlanks()
		if lex.AtEOF() {
			break
		}
		save := lex.Pos()
		tok := lex.Next(false)
		if tok.kind == lexPunct && isTerminator(tok.ch) {
			lex.SetPos(save)
			break
		}
		end := tok.end
		for end < len(lex.line) && !isBlank(lex.line[end]) && !isTerminator(lex.line[end]) {
			end++
		}
		text := lex.line[tok.start:end]
		lex.SetPos(end)
		exp, hi, lo, ok := a.ParseFltg(text)
		if !ok {
			a.raise(TagIllegal, "bad FLTG", "malformed FLTG operand", tok.start, false)
			continue
		}
		words = append(words, exp, hi, lo)
	}
	return words
}
