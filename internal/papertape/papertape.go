/*
 * palbart - Paper-tape leader/trailer framing and raw byte sink.
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

// Package papertape is the thin external collaborator that frames a DEC
// paper-tape object stream: a run of blank (leader/trailer) bytes around
// a caller-supplied body. It owns no assembler semantics: origin pairs,
// checksums, and field-change bytes are the assembler's concern
// (internal/asm/emit.go) and simply flow through Context.WriteByte.
package papertape

import (
	"bufio"
	"io"
)

const (
	// LeaderByte is punched for every frame of leader or trailer.
	LeaderByte byte = 0x80

	// DefaultLeaderLen is roughly 2 feet of blank tape at 10 punches/inch.
	DefaultLeaderLen = 240
)

// Context owns the buffered sink for one object file. It tracks nothing
// about assembler state; Detach flushes and closes the underlying file.
type Context struct {
	file *bufWriteCloser
}

type bufWriteCloser struct {
	w *bufio.Writer
	c io.Closer
}

func (b *bufWriteCloser) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

func (b *bufWriteCloser) Close() error {
	if err := b.w.Flush(); err != nil {
		return err
	}
	if b.c != nil {
		return b.c.Close()
	}
	return nil
}

// Attach opens w as the destination for subsequent writes. w may be an
// *os.File (closed on Detach) or any io.Writer (left open).
func Attach(w io.Writer) *Context {
	bw := &bufWriteCloser{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		bw.c = c
	}
	return &Context{file: bw}
}

// Detach flushes and, if the underlying writer was closeable, closes it.
func (ctx *Context) Detach() error {
	if ctx.file == nil {
		return nil
	}
	err := ctx.file.Close()
	ctx.file = nil
	return err
}

// Ready reports whether a sink is attached.
func (ctx *Context) Ready() bool {
	return ctx != nil && ctx.file != nil
}

// WriteLeader punches n frames of LeaderByte. n <= 0 defaults to
// DefaultLeaderLen.
func (ctx *Context) WriteLeader(n int) error {
	if n <= 0 {
		n = DefaultLeaderLen
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = LeaderByte
	}
	_, err := ctx.file.Write(buf)
	return err
}

// WriteByte punches a single raw frame, no leader framing applied.
func (ctx *Context) WriteByte(b byte) error {
	_, err := ctx.file.Write([]byte{b})
	return err
}
