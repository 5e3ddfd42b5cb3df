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

import (
	"bytes"
	"testing"

	"github.com/hackvm/vme/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMultiplicationViaLoop exercises scenario 2 from spec.md §8, which
// needs a real local-variable frame (lcl/lclLen) below the instructions —
// exactly what a call's prologue sets up. This test sets that frame up by
// hand, in the same package, rather than routing through a full call.
func TestMultiplicationViaLoop(t *testing.T) {
	f := &File{Name: "f.vm", Symbols: symtab.New()}
	require.NoError(t, f.Symbols.Insert("loop", symtab.Label, 2, 0))
	f.Instructions = []Instruction{
		{Op: OpPush, Segment: Constant, Offset: 7},
		{Op: OpPop, Segment: Local, Offset: 2},
		{Op: OpPush, Segment: Local, Offset: 1},
		{Op: OpPush, Segment: Constant, Offset: 11},
		{Op: OpAdd},
		{Op: OpPop, Segment: Local, Offset: 1},
		{Op: OpPush, Segment: Local, Offset: 2},
		{Op: OpPush, Segment: Constant, Offset: 1},
		{Op: OpSub},
		{Op: OpPop, Segment: Local, Offset: 2},
		{Op: OpPush, Segment: Local, Offset: 2},
		{Op: OpPush, Segment: Constant, Offset: 0},
		{Op: OpGt},
		{Op: OpIfGoto, Ident: "loop"},
		{Op: OpPush, Segment: Local, Offset: 1},
	}
	prog := &Program{Files: []*File{f}}
	inst := New(prog, WithStdout(&bytes.Buffer{}))
	for i := 0; i < 3; i++ {
		inst.stack.Push(0)
	}
	inst.lcl, inst.lclLen = 0, 3

	require.NoError(t, inst.Run())
	assert.EqualValues(t, 77, inst.Result())
}

// TestArgumentWithinLengthButAboveStackPointerIsStackAddressOverflow checks
// that the two frame-segment bounds checks raise distinct ErrorKinds: an
// offset past argLen is ErrSegmentOverflow, but an offset within argLen that
// lands at or past the current stack pointer is ErrStackAddressOverflow.
func TestArgumentWithinLengthButAboveStackPointerIsStackAddressOverflow(t *testing.T) {
	f := &File{Name: "f.vm", Symbols: symtab.New()}
	f.Instructions = []Instruction{
		{Op: OpPush, Segment: Argument, Offset: 3},
	}
	prog := &Program{Files: []*File{f}}
	inst := New(prog, WithStdout(&bytes.Buffer{}))
	inst.stack.Push(0)
	inst.stack.Push(0)
	inst.arg, inst.argLen = 0, 5 // argLen claims 5 words, only 2 are on the stack

	err := inst.Run()
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrStackAddressOverflow, rerr.Kind)
}

// TestArgumentPastLengthIsSegmentOverflow checks the sibling case: an
// offset at or past argLen itself fails before the stack-pointer check even
// runs.
func TestArgumentPastLengthIsSegmentOverflow(t *testing.T) {
	f := &File{Name: "f.vm", Symbols: symtab.New()}
	f.Instructions = []Instruction{
		{Op: OpPush, Segment: Argument, Offset: 5},
	}
	prog := &Program{Files: []*File{f}}
	inst := New(prog, WithStdout(&bytes.Buffer{}))
	inst.stack.Push(0)
	inst.stack.Push(0)
	inst.arg, inst.argLen = 0, 2

	err := inst.Run()
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrSegmentOverflow, rerr.Kind)
}
