/*
 * palbart - Source reader & lexer: tab expansion, lexeme segmentation.
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
	"unicode"
)

// expandTabs expands tabs to columns modulo 8 and strips a trailing CR,
// matching the teacher's own preference for doing this kind of cleanup
// with a single forward scan rather than regexp.
func expandTabs(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var b strings.Builder
	col := 0
	for _, ch := range line {
		if ch == '\t' {
			spaces := 8 - (col % 8)
			for i := 0; i < spaces; i++ {
				b.WriteByte(' ')
			}
			col += spaces
			continue
		}
		b.WriteRune(ch)
		col++
	}
	return b.String()
}

// isBlank matches §4.A's spacing policy: space, tab, form-feed, or '>'
// (which closes a conditional block and is otherwise treated as
// whitespace by the general line scanner).
func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '>'
}

// isTerminator matches the statement terminator set: '/', ';', EOL.
func isTerminator(ch byte) bool {
	return ch == '/' || ch == ';'
}

func isAlnum(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

// lexKind classifies one lexeme.
type lexKind int

const (
	lexEOF lexKind = iota
	lexIdent
	lexNumber
	lexQuotedChar
	lexPunct
	lexComment
)

// lexeme is one scanned unit, with its extent [Start, End) in the
// current line for caret diagnostics and the listing column marker.
type lexeme struct {
	kind  lexKind
	text  string // raw text for lexIdent / lexNumber
	ch    byte   // the punctuation byte, or the decoded value for a quoted char
	start int
	end   int
}

// Lexer scans one line at a time. It never looks past the line it was
// given; DUBL/FLTG's "consume subsequent lines" behavior is driven by
// the assembly driver re-creating a Lexer per physical line.
type Lexer struct {
	line string
	pos  int
}

// NewLexer wraps an already tab-expanded, CR-stripped line.
func NewLexer(line string) *Lexer {
	return &Lexer{line: line}
}

func (l *Lexer) AtEOF() bool { return l.pos >= len(l.line) }

func (l *Lexer) Pos() int { return l.pos }

func (l *Lexer) SetPos(p int) { l.pos = p }

// PeekBlank reports whether the lexer is sitting on a blank character
// (without consuming it). The evaluator uses this, rather than a
// separate lexer "mode", to detect the illegal-blank-after-operator
// case and the implicit-OR term boundary.
func (l *Lexer) PeekBlank() bool {
	return l.pos < len(l.line) && isBlank(l.line[l.pos])
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.line) && isBlank(l.line[l.pos]) {
		l.pos++
	}
}

// Next scans the next lexeme, skipping leading blanks unless
// illegalBlank is set (§4.A's two advance modes). When illegalBlank is
// set and a blank precedes the next token, Next returns without
// consuming it so the caller can diagnose "illegal blank".
func (l *Lexer) Next(illegalBlank bool) lexeme {
	if !illegalBlank {
		l.skipBlanks()
	}

	if l.AtEOF() {
		return lexeme{kind: lexEOF, start: l.pos, end: l.pos}
	}

	start := l.pos
	ch := l.line[start]

	if isTerminator(ch) {
		// '/' starts a comment that runs to EOL; ';' is a one-byte separator.
		if ch == '/' {
			text := l.line[start:]
			l.pos = len(l.line)
			return lexeme{kind: lexComment, text: text, start: start, end: l.pos}
		}
		l.pos++
		return lexeme{kind: lexPunct, ch: ch, start: start, end: l.pos}
	}

	switch {
	case ch == '"':
		// Quoted single character: "x -> ord(x) | 0o200.
		if start+1 >= len(l.line) {
			l.pos++
			return lexeme{kind: lexQuotedChar, ch: 0o200, start: start, end: l.pos}
		}
		v := l.line[start+1] | 0o200
		l.pos = start + 2
		return lexeme{kind: lexQuotedChar, ch: v, start: start, end: l.pos}

	case isAlnum(ch):
		i := start
		for i < len(l.line) && isAlnum(l.line[i]) {
			i++
		}
		text := l.line[start:i]
		l.pos = i
		if isDigitRun(text) {
			return lexeme{kind: lexNumber, text: text, start: start, end: i}
		}
		return lexeme{kind: lexIdent, text: strings.ToUpper(text), start: start, end: i}

	default:
		l.pos++
		return lexeme{kind: lexPunct, ch: ch, start: start, end: l.pos}
	}
}

func isDigitRun(s string) bool {
	for i := 0; i < len(s); i++ {
		if !unicode.IsDigit(rune(s[i])) {
			return false
		}
	}
	return len(s) > 0
}
