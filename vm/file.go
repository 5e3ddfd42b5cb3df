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

package vm

import "github.com/hackvm/vme/symtab"

// File is one assembled source file: its compiled instruction vector, its
// label/function symbol table (consulted by the executor at runtime for
// cross-file jump and call resolution), and its file-local static and
// temp segments. File 0 is always the synthetic system file built by the
// program package.
type File struct {
	Name         string
	Instructions []Instruction
	Symbols      *symtab.Table
	Static       [StaticSize]Word
	Temp         [TempSize]Word
}

// Program is a fully linked, ready-to-run set of files sharing one heap
// and operand stack. EntryFI/EntryEI identify the startup trampoline's
// first instruction (the "push constant 0" ahead of "call Sys.init 1"
// in the system file), set by program.Assemble.
type Program struct {
	Files   []*File
	EntryFI int
	EntryEI int
}
