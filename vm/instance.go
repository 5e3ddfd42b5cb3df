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
	"io"
	"os"
)

// Instance is one running copy of a Program: the shared heap and operand
// stack, the active frame pointers, and the program counter (fi, ei).
// Per spec.md §5 it is strictly single-threaded — Run must not be called
// concurrently with itself or with any other method.
type Instance struct {
	prog  *Program
	stack *Stack
	heap  *Heap
	ports ioPorts

	fi, ei int

	arg, argLen int
	lcl, lclLen int

	insCount int64
}

// Option configures an Instance at construction time, in the style of
// db47h/ngaro's vm.Option.
type Option func(*instOpts)

type instOpts struct {
	stdout io.Writer
	stdin  io.Reader
}

// WithStdout overrides the writer the print-* built-ins write to.
func WithStdout(w io.Writer) Option { return func(o *instOpts) { o.stdout = w } }

// WithStdin overrides the reader the read-* built-ins read from.
func WithStdin(r io.Reader) Option { return func(o *instOpts) { o.stdin = r } }

// New returns an Instance ready to run prog from its entry point.
func New(prog *Program, opts ...Option) *Instance {
	o := instOpts{stdout: os.Stdout, stdin: os.Stdin}
	for _, opt := range opts {
		opt(&o)
	}
	return &Instance{
		prog:  prog,
		stack: NewStack(),
		heap:  NewHeap(),
		ports: newIOPorts(o.stdout, o.stdin),
		fi:    prog.EntryFI,
		ei:    prog.EntryEI,
	}
}

// HeapWord returns the word stored at addr, for diagnostics and tests.
func (vi *Instance) HeapWord(addr Address) Word { return vi.heap.Words[addr] }

// StackWords returns a copy of the live portion of the operand stack
// (index 0 is the bottom), for diagnostics and tests.
func (vi *Instance) StackWords() []Word {
	out := make([]Word, vi.stack.SP())
	for i := range out {
		out[i] = vi.stack.Get(i)
	}
	return out
}

// InstructionCount returns the number of instructions executed so far.
func (vi *Instance) InstructionCount() int64 { return vi.insCount }

// Result returns the top-of-stack word, or 0 if the stack is empty — the
// program's "result" per spec.md §4.5's termination rule.
func (vi *Instance) Result() Word {
	if vi.stack.SP() == 0 {
		return 0
	}
	return vi.stack.Get(vi.stack.SP() - 1)
}

// Run executes until the active file's instruction vector is exhausted or
// a runtime error occurs. Every control-flow op sets (fi, ei) to one less
// than the instruction it actually wants to land on, because the loop
// below always increments ei by one after a successful step — the same
// "let the common increment land on it" trick the original C interpreter
// uses in its dispatch loop.
func (vi *Instance) Run() error {
	for {
		file := vi.prog.Files[vi.fi]
		if vi.ei >= len(file.Instructions) {
			return nil
		}
		instr := file.Instructions[vi.ei]
		if err := vi.step(file, instr); err != nil {
			return err
		}
		vi.insCount++
		vi.ei++
	}
}

func (vi *Instance) floor() int { return vi.lcl + vi.lclLen }

func (vi *Instance) pop(instr Instruction, kind ErrorKind) (Word, error) {
	w, ok := vi.stack.ProtectedPop(vi.floor())
	if !ok {
		return 0, vi.err(instr, kind)
	}
	return w, nil
}

func (vi *Instance) err(instr Instruction, kind ErrorKind) error {
	return &RuntimeError{Kind: kind, Pos: instr.Pos, Instr: instr.String()}
}

func (vi *Instance) step(file *File, instr Instruction) error {
	switch instr.Op {
	case OpPush, OpPop:
		return vi.execMem(file, instr)
	case OpAdd, OpSub, OpNeg, OpAnd, OpOr, OpNot, OpEq, OpGt, OpLt:
		return vi.execArith(instr)
	case OpGoto, OpIfGoto, OpCall, OpReturn:
		return vi.execControl(instr)
	case OpPrintChar, OpPrintNum, OpPrintStr, OpReadChar, OpReadNum, OpReadStr:
		return vi.execBuiltin(instr)
	}
	panic("vm: unhandled opcode " + instr.Op.String())
}
