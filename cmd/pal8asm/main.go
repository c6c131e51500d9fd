/*
 * palbart - PDP-8 PAL-dialect cross-assembler: CLI driver.
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

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/radekh/palbart/internal/asm"
	"github.com/radekh/palbart/util/logger"
)

const version = "palbart 1.0"

var Logger *slog.Logger

func main() {
	optDump := getopt.BoolLong("dump", 'd', "Dump the user symbol table to the listing")
	optLiterals := getopt.BoolLong("literals", 'l', "Enable literal generation for off-page MRI references")
	optPrm := getopt.BoolLong("prm", 'p', "Write a re-loadable permanent symbol table")
	optRim := getopt.BoolLong("rim", 'r', "Emit RIM object format instead of BIN")
	optXref := getopt.BoolLong("xref", 'x', "Emit a cross-reference listing")
	optLog := getopt.StringLong("log", 0, "", "Log file for assembler progress messages")
	optVersion := getopt.BoolLong("version", 'v', "Print version and exit")
	optHelp := getopt.BoolLong("help", 'h', "Print help and exit")
	getopt.Parse()

	var logFile *os.File
	if *optLog != "" {
		logFile, _ = os.Create(*optLog)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(Logger)

	if *optVersion {
		fmt.Println(version)
		os.Exit(1)
	}
	if *optHelp {
		getopt.Usage()
		os.Exit(1)
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "pal8asm: exactly one input file is required")
		getopt.Usage()
		os.Exit(1)
	}
	input := args[0]

	lines, err := readSourceLines(input)
	if err != nil {
		Logger.Error("reading source", "file", input, "error", err)
		os.Exit(1)
	}

	objMode := asm.ModeBIN
	objSuffix := ".bin"
	if *optRim {
		objMode = asm.ModeRIM
		objSuffix = ".rim"
	}

	a := asm.NewAssembler(*optLiterals, objMode)

	Logger.Info("pass 1 starting", "file", input, "lines", len(lines))
	a.StartPass(asm.Pass1)
	noop := func(addr uint32, value uint16, fromLiteral bool) {}
	for _, ln := range lines {
		a.AssembleLine(ln, noop)
		if a.Done() {
			break
		}
	}

	Logger.Info("pass 2 starting")
	a.StartPass(asm.Pass2)

	objPath := deriveOutputPath(input, objSuffix)
	objFile, err := os.Create(objPath)
	if err != nil {
		Logger.Error("creating object file", "file", objPath, "error", err)
		os.Exit(1)
	}
	a.AttachObject(objFile)

	lstPath := deriveOutputPath(input, ".lst")
	lstFile, err := os.Create(lstPath)
	if err != nil {
		Logger.Error("creating listing file", "file", lstPath, "error", err)
		os.Exit(1)
	}
	a.AttachListing(lstFile, input)

	lastLine := 0
	for _, ln := range lines {
		before := a.Diagnostics().Count()
		a.AssembleLine(ln, a.EmitObjectWord)
		lastLine = ln.Number
		a.WriteListingLine(ln.Number, ln.Text, a.Diagnostics().Items()[before:])
		if a.Done() {
			break
		}
	}
	if !a.Done() {
		before := a.Diagnostics().Count()
		a.CheckTerminated()
		a.WriteListingLine(lastLine+1, "", a.Diagnostics().Items()[before:])
	}

	if *optDump {
		a.DumpSymbolTable()
	}
	if *optXref {
		a.WriteCrossReference()
	}

	if err := a.DetachObject(); err != nil {
		Logger.Error("closing object file", "error", err)
	}
	if err := a.DetachListing(); err != nil {
		Logger.Error("closing listing file", "error", err)
	}
	objFile.Close()
	lstFile.Close()

	if *optPrm {
		prmPath := deriveOutputPath(input, ".prm")
		prmFile, err := os.Create(prmPath)
		if err != nil {
			Logger.Error("creating permanent table file", "file", prmPath, "error", err)
			os.Exit(1)
		}
		if err := a.WritePermanentTable(prmFile); err != nil {
			Logger.Error("writing permanent table", "error", err)
		}
		prmFile.Close()
	}

	diags := a.Diagnostics()
	errPath := deriveOutputPath(input, ".err")
	if diags.Count() > 0 {
		errFile, err := os.Create(errPath)
		if err != nil {
			Logger.Error("creating error file", "file", errPath, "error", err)
			os.Exit(1)
		}
		w := bufio.NewWriter(errFile)
		for _, d := range diags.Items() {
			fmt.Fprintln(w, d.ErrorFileLine(input))
		}
		w.Flush()
		errFile.Close()
	} else {
		os.Remove(errPath)
	}

	Logger.Info("assembly complete", "diagnostics", diags.Count(), "fatal", diags.Fatal())
	if diags.Count() > 0 {
		os.Exit(1)
	}
	os.Exit(0)
}

// readSourceLines slurps the whole file into memory up front: both
// passes walk the same lines, and PAL8 source files are small enough
// that re-reading from disk twice buys nothing.
func readSourceLines(path string) ([]asm.SourceLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []asm.SourceLine
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		lines = append(lines, asm.SourceLine{Number: n, Text: scanner.Text()})
	}
	return lines, scanner.Err()
}

// deriveOutputPath replaces the text after the last '.' in the base
// name with newSuffix (which already carries its own leading '.'), or
// appends it if the name has no extension. Filename derivation carries
// no assembly semantics; it is a thin collaborator, not core.
func deriveOutputPath(input, newSuffix string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i] + newSuffix
	} else {
		base += newSuffix
	}
	return filepath.Join(dir, base)
}
