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

// Package diag formats the errors surfaced by scan, parse, program, and vm
// into the CLI's on-screen diagnostics, and wraps stdout so a warning or
// error printed to stderr never runs on into a partial output line.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hackvm/vme/parse"
	"github.com/hackvm/vme/program"
	"github.com/hackvm/vme/scan"
	"github.com/hackvm/vme/vm"
	pkgerrors "github.com/pkg/errors"
)

// StdoutWriter wraps stdout and remembers the last byte written, in the
// manner of the teacher's ngi.ErrWriter: once Err is set, Write keeps
// returning it without touching the underlying stream again.
type StdoutWriter struct {
	w        io.Writer
	Err      error
	lastByte byte
	wrote    bool
}

// NewStdoutWriter returns a StdoutWriter wrapping w.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	return &StdoutWriter{w: w}
}

func (w *StdoutWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err = w.w.Write(p)
	if n > 0 {
		w.lastByte = p[n-1]
		w.wrote = true
	}
	if err != nil {
		w.Err = pkgerrors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// EndsInNewline reports whether the last byte written was '\n'. A
// never-written-to writer reports true, so a diagnostic printed before any
// program output never gets a spurious blank line in front of it.
func (w *StdoutWriter) EndsInNewline() bool {
	if !w.wrote {
		return true
	}
	return w.lastByte == '\n'
}

// EnsureNewline writes a '\n' if the stream's last byte wasn't one
// already, so diagnostics always start on their own line.
func (w *StdoutWriter) EnsureNewline() error {
	if w.EndsInNewline() {
		return nil
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// colorEnabled reports whether ANSI styling should be applied: off when
// NO_COLOR is set to any non-empty value, or when stderr isn't a terminal.
func colorEnabled() bool {
	if v, set := os.LookupEnv("NO_COLOR"); set && v != "" {
		return false
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

const (
	ansiReset   = "\x1b[0m"
	ansiYellow  = "\x1b[33m"
	ansiBoldRed = "\x1b[1;31m"
	warnPrefix  = "warning: "
	errorPrefix = "error: "
)

// Diagnostics writes warnings (yellow) and errors (bold red) to a stream,
// consulting colorEnabled once at construction rather than per call.
type Diagnostics struct {
	w     io.Writer
	color bool
}

// NewDiagnostics returns a Diagnostics writing to w.
func NewDiagnostics(w io.Writer) *Diagnostics {
	return &Diagnostics{w: w, color: colorEnabled()}
}

// Warn prints a yellow "warning: " line.
func (d *Diagnostics) Warn(format string, args ...interface{}) {
	d.print(ansiYellow, warnPrefix, format, args...)
}

// Error prints a bold red "error: " line with the result of Format(err).
func (d *Diagnostics) Error(err error) {
	d.print(ansiBoldRed, errorPrefix, "%s", Format(err))
}

func (d *Diagnostics) print(color, prefix, format string, args ...interface{}) {
	msg := prefix + fmt.Sprintf(format, args...)
	if d.color {
		fmt.Fprintln(d.w, color+msg+ansiReset)
		return
	}
	fmt.Fprintln(d.w, msg)
}

// Format renders any error from scan, parse, program, or vm into the
// message shape described for its kind: scan and parse errors already
// carry a "file:line:col" prefix, vm.RuntimeError stringifies the failing
// instruction, and anything else (program-level assembly errors, wrapped
// symtab conflicts) falls back to err.Error().
func Format(err error) string {
	var scanErr *scan.Error
	if errors.As(err, &scanErr) {
		return scanErr.Error()
	}
	var synErr *parse.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Error()
	}
	var runErr *vm.RuntimeError
	if errors.As(err, &runErr) {
		return runErr.Error()
	}
	if errors.Is(err, program.ErrNoEntryPoint) {
		return err.Error()
	}
	return err.Error()
}
