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

package program

import (
	"github.com/hackvm/vme/symtab"
	"github.com/hackvm/vme/vm"
)

// builtin describes one Sys.* routine: its argument count and the single
// opcode that implements its whole body (the opcode pops its own arguments
// straight off the stack and pushes its own return value, so no separate
// "push return value" instruction is ever needed).
type builtin struct {
	name  string
	nargs int
	op    vm.OpCode
}

var builtins = []builtin{
	{"Sys.print_char", 1, vm.OpPrintChar},
	{"Sys.print_num", 1, vm.OpPrintNum},
	{"Sys.print_str", 2, vm.OpPrintStr},
	{"Sys.read_char", 0, vm.OpReadChar},
	{"Sys.read_num", 0, vm.OpReadNum},
	{"Sys.read_str", 1, vm.OpReadStr},
}

// buildSystemFile constructs file index 0: one tiny function body per
// built-in, each registered in the file's own symbol table exactly as a
// parsed "function" definition would be, followed by the startup
// trampoline that calls Sys.init.
func buildSystemFile() *vm.File {
	table := symtab.New()
	var instrs []vm.Instruction

	for _, b := range builtins {
		addr := len(instrs)
		for i := 0; i < b.nargs; i++ {
			instrs = append(instrs, vm.Instruction{Op: vm.OpPush, Segment: vm.Argument, Offset: i})
		}
		instrs = append(instrs, vm.Instruction{Op: b.op})
		instrs = append(instrs, vm.Instruction{Op: vm.OpReturn})
		if err := table.Insert(b.name, symtab.Function, addr, 0); err != nil {
			// builtins is a fixed literal with distinct names; a collision
			// here would be a programming error, not a runtime condition.
			panic(err)
		}
	}

	instrs = append(instrs,
		vm.Instruction{Op: vm.OpPush, Segment: vm.Constant, Offset: 0},
		vm.Instruction{Op: vm.OpCall, Ident: "Sys.init", NArgs: 1},
	)

	return &vm.File{Name: SystemFileName, Instructions: instrs, Symbols: table}
}
