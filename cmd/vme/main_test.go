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
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestParseArgsSplitsStatsFlag(t *testing.T) {
	files, stats := parseArgs([]string{"-stats", "a.vm", "b.vm"})
	if !stats {
		t.Fatal("expected stats to be true")
	}
	if len(files) != 2 || files[0] != "a.vm" || files[1] != "b.vm" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestParseArgsNoStatsFlag(t *testing.T) {
	files, stats := parseArgs([]string{"a.vm"})
	if stats {
		t.Fatal("expected stats to be false")
	}
	if len(files) != 1 || files[0] != "a.vm" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestRunPrintsResultAndExitsZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vm")
	src := "function Sys.init 0\npush constant 9\npush constant 10723\nadd\nreturn\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if stdout.String() != "10732\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunNoFilesExitsAssemblyFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	if code != exitAssembly {
		t.Fatalf("exit code = %d", code)
	}
}

func TestRunMissingSysInitExitsAssemblyFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vm")
	src := "function Main.run 0\npush constant 1\nreturn\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	if code != exitAssembly {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
}
