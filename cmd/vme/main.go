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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hackvm/vme/cmd/vme/internal/diag"
	"github.com/hackvm/vme/program"
	"github.com/hackvm/vme/token"
	"github.com/hackvm/vme/vm"
)

const (
	exitOK       = 0
	exitAssembly = 1
	exitRuntime  = 2
)

func parseArgs(args []string) (files []string, stats bool) {
	for _, a := range args {
		if a == "-stats" {
			stats = true
			continue
		}
		files = append(files, a)
	}
	return files, stats
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdoutW, stderrW io.Writer) int {
	files, stats := parseArgs(args)
	diagnostics := diag.NewDiagnostics(stderrW)
	stdout := diag.NewStdoutWriter(stdoutW)

	if len(files) == 0 {
		diagnostics.Error(fmt.Errorf("no input files: usage: vme [-stats] FILE1 [FILE2 ...]"))
		return exitAssembly
	}

	warn := func(pos token.Position, msg string) {
		diagnostics.Warn("%s: %s", pos.String(), msg)
	}

	prog, err := program.Assemble(context.Background(), files, warn)
	if err != nil {
		emitError(stdout, diagnostics, err)
		return exitAssembly
	}

	inst := vm.New(prog, vm.WithStdout(stdout), vm.WithStdin(os.Stdin))
	start := time.Now()
	runErr := inst.Run()
	elapsed := time.Since(start)

	if stats {
		fmt.Fprintf(stderrW, "executed %d instructions in %v\n", inst.InstructionCount(), elapsed)
	}

	if runErr != nil {
		emitError(stdout, diagnostics, runErr)
		return exitRuntime
	}

	fmt.Fprintf(stdout, "%d\n", inst.Result())
	return exitOK
}

func emitError(stdout *diag.StdoutWriter, diagnostics *diag.Diagnostics, err error) {
	_ = stdout.EnsureNewline()
	diagnostics.Error(err)
}
