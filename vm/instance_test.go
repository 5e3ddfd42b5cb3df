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

package vm_test

import (
	"bytes"
	"testing"

	"github.com/hackvm/vme/symtab"
	"github.com/hackvm/vme/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleFileProgram builds a one-file program whose instructions run
// directly from EntryEI 0, with no call frame or system file involved —
// enough for the arithmetic/memory-op tests that don't need Sys.init.
func singleFileProgram(instrs []vm.Instruction) *vm.Program {
	f := &vm.File{Name: "f.vm", Instructions: instrs, Symbols: symtab.New()}
	return &vm.Program{Files: []*vm.File{f}}
}

func TestConstantAddition(t *testing.T) {
	// Scenario 1: function Sys.init 0 / push constant 9 / push constant
	// 10723 / add / return, run directly without a trampoline.
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 9},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 10723},
		{Op: vm.OpAdd},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	require.NoError(t, inst.Run())
	assert.EqualValues(t, 10732, inst.Result())
}

func TestOverflowIsFatalAndAtomic(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 65535},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 1},
		{Op: vm.OpAdd},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	err := inst.Run()
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrArithmeticOverflow, rerr.Kind)
	assert.Equal(t, []vm.Word{65535, 1}, inst.StackWords())
}

func TestAdditionAtBoundarySucceeds(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 65535},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 0},
		{Op: vm.OpAdd},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	require.NoError(t, inst.Run())
	assert.EqualValues(t, 65535, inst.Result())
}

func TestSubUnderflowIsFatal(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 0},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 1},
		{Op: vm.OpSub},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	err := inst.Run()
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrArithmeticUnderflow, rerr.Kind)
}

func TestSubEqualYieldsZero(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 5},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 5},
		{Op: vm.OpSub},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	require.NoError(t, inst.Run())
	assert.EqualValues(t, 0, inst.Result())
}

func TestPointerInvalidIndexDoesNotConsumeStack(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 123},
		{Op: vm.OpPop, Segment: vm.Pointer, Offset: 2},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	err := inst.Run()
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrInvalidPointerIndex, rerr.Kind)
	assert.EqualValues(t, 123, inst.Result())
}

func TestPointerWriteThrough(t *testing.T) {
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 100},
		{Op: vm.OpPop, Segment: vm.Pointer, Offset: 0},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 7},
		{Op: vm.OpPop, Segment: vm.This, Offset: 3},
		{Op: vm.OpPush, Segment: vm.This, Offset: 3},
	})
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	require.NoError(t, inst.Run())
	assert.EqualValues(t, 7, inst.Result())
	assert.EqualValues(t, 7, inst.HeapWord(103))
}

func TestCallWrongArgCount(t *testing.T) {
	fn := &vm.File{Name: "f.vm", Symbols: symtab.New()}
	require.NoError(t, fn.Symbols.Insert("f", symtab.Function, 0, 0))
	fn.Instructions = []vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 1},
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 2},
		{Op: vm.OpCall, Ident: "f", NArgs: 3},
	}
	prog := &vm.Program{Files: []*vm.File{fn}}
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	err := inst.Run()
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrWrongArgCount, rerr.Kind)
}

func TestCrossFileCall(t *testing.T) {
	// Scenario 4: file A calls Helper.do in file B.
	sys := &vm.File{Name: "<system>", Symbols: symtab.New(), Instructions: []vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 0},
		{Op: vm.OpCall, Ident: "Sys.init", NArgs: 1},
	}}
	a := &vm.File{Name: "a.vm", Symbols: symtab.New()}
	require.NoError(t, a.Symbols.Insert("Sys.init", symtab.Function, 0, 0))
	a.Instructions = []vm.Instruction{
		{Op: vm.OpCall, Ident: "Helper.do", NArgs: 0},
		{Op: vm.OpReturn},
	}
	b := &vm.File{Name: "b.vm", Symbols: symtab.New()}
	require.NoError(t, b.Symbols.Insert("Helper.do", symtab.Function, 0, 0))
	b.Instructions = []vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 42},
		{Op: vm.OpReturn},
	}
	prog := &vm.Program{Files: []*vm.File{sys, a, b}, EntryFI: 0, EntryEI: 0}
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	require.NoError(t, inst.Run())
	assert.EqualValues(t, 42, inst.Result())
}

func TestUnresolvedSysInitGetsSpecializedMessage(t *testing.T) {
	f := &vm.File{Name: "f.vm", Symbols: symtab.New(), Instructions: []vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 0},
		{Op: vm.OpCall, Ident: "Sys.init", NArgs: 1},
	}}
	prog := &vm.Program{Files: []*vm.File{f}}
	inst := vm.New(prog, vm.WithStdout(&bytes.Buffer{}))
	err := inst.Run()
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vm.ErrControlFlowTargetNotFound, rerr.Kind)
	assert.Contains(t, rerr.Error(), "Sys.init")
}

func TestPrintCharWritesToStdout(t *testing.T) {
	var out bytes.Buffer
	prog := singleFileProgram([]vm.Instruction{
		{Op: vm.OpPush, Segment: vm.Constant, Offset: 'A'},
		{Op: vm.OpPrintChar},
	})
	inst := vm.New(prog, vm.WithStdout(&out))
	require.NoError(t, inst.Run())
	assert.Equal(t, "A", out.String())
}
