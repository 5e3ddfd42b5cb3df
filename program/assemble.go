// This file is part of vme - https://github.com/hackvm/vme
//
// Copyright 2026 The vme Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package program assembles one or more .vm source files, together with a
// synthetically generated system file, into a linked vm.Program ready to
// run.
package program

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/hackvm/vme/parse"
	"github.com/hackvm/vme/scan"
	"github.com/hackvm/vme/symtab"
	"github.com/hackvm/vme/token"
	"github.com/hackvm/vme/vm"
	"github.com/pkg/errors"
	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// SystemFileName is the name reported for the synthetic file at index 0.
const SystemFileName = "<system>"

// WarnFunc receives a warning emitted during scanning (file extension,
// missing trailing newline, identifier truncation, integer saturation).
type WarnFunc func(pos token.Position, msg string)

// ErrNoEntryPoint is the cause wrapped when no supplied file defines
// Sys.init, matching the "write one" message from the original sources.
var ErrNoEntryPoint = errors.New("no Sys.init function defined: write one as the program's entry point")

// Assemble scans and parses every filename, links them behind a
// synthetically built system file, and validates that the linked program
// defines Sys.init. Per-file scan+parse runs concurrently across an
// errgroup, since each file owns independent state (its own symbol table
// and local memory) until the deterministic, input-order join below.
func Assemble(ctx context.Context, filenames []string, warn WarnFunc) (*vm.Program, error) {
	if warn == nil {
		warn = func(token.Position, string) {}
	}
	if len(filenames) == 0 {
		return nil, errors.New("no input files")
	}

	userFiles := make([]*vm.File, len(filenames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range filenames {
		i, name := i, name
		g.Go(func() error {
			if !strings.HasSuffix(name, ".vm") {
				warn(token.Position{File: name}, fmt.Sprintf("file %q does not end in .vm", name))
			}
			f, err := assembleOneFile(gctx, name, warn)
			if err != nil {
				return errors.Wrapf(err, "assembling %s", name)
			}
			userFiles[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sysFile := buildSystemFile()
	files := append([]*vm.File{sysFile}, userFiles...)

	if !hasSysInit(files) {
		return nil, ErrNoEntryPoint
	}

	entryEI := len(sysFile.Instructions) - 2 // the "push constant 0" just before "call Sys.init 1"
	return &vm.Program{Files: files, EntryFI: 0, EntryEI: entryEI}, nil
}

func hasSysInit(files []*vm.File) bool {
	for _, f := range files {
		if _, _, ok := f.Symbols.Get("Sys.init", symtab.Function); ok {
			return true
		}
	}
	return false
}

// assembleOneFile scans filename block by block and parses the resulting
// token stream into a *vm.File.
func assembleOneFile(ctx context.Context, filename string, warn WarnFunc) (*vm.File, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer r.Close()

	sc := scan.New(filename, warn)
	br := bufio.NewReaderSize(r, scan.BlockSize)
	var toks []scan.Token
	buf := make([]byte, scan.BlockSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, rerr := io.ReadFull(br, buf)
		if n > 0 {
			block, err := sc.Scan(buf[:n])
			if err != nil {
				return nil, errors.WithStack(err)
			}
			toks = append(toks, block...)
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return nil, errors.WithStack(rerr)
		}
	}
	final, err := sc.Close()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	toks = append(toks, final...)

	table := symtab.New()
	instrs, err := parse.Parse(filename, toks, table)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &vm.File{Name: filename, Instructions: instrs, Symbols: table}, nil
}
