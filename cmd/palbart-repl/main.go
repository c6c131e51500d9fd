/*
 * palbart - Interactive expression/directive console.
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

// palbart-repl is a line-at-a-time console over a live Assembler: each
// line is fed through the same AssembleLine path pal8asm uses for pass
// 2, against a single running symbol table, so an operator can try out
// an MRI fusion or a directive without writing a source file. Built on
// github.com/peterh/liner the same way the teacher's command/command
// package drives its debug console.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"

	"github.com/radekh/palbart/internal/asm"
)

func main() {
	a := asm.NewAssembler(false, asm.ModeBIN)
	a.StartPass(asm.Pass2)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("palbart-repl: one statement per line, ^D or 'exit' to quit")
	lineNo := 0
	for {
		text, err := line.Prompt(". ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}
		if text == "exit" {
			break
		}
		line.AppendHistory(text)
		lineNo++

		before := a.Diagnostics().Count()
		a.AssembleLine(asm.SourceLine{Number: lineNo, Text: text}, func(addr uint32, value uint16, fromLiteral bool) {
			fmt.Printf("  %05o: %04o%s\n", addr, value, literalTag(fromLiteral))
		})
		for _, d := range a.Diagnostics().Items()[before:] {
			fmt.Printf("  %s %s\n", d.Tag, d.Long)
		}
		if a.Done() {
			fmt.Println("(end of assembly reached; symbols remain usable but '$' will not re-trigger)")
		}
	}
}

func literalTag(fromLiteral bool) string {
	if fromLiteral {
		return " (literal)"
	}
	return ""
}
