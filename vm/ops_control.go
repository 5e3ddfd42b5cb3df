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

// frameWords is the fixed call-frame size mandated by spec.md §9: the
// seven-word convention in the original sources is extended to eight so
// the return file index survives a cross-file call.
const frameWords = 8

func (vi *Instance) resolve(ident string, kind symtab.Kind) (fi, val, aux int, ok bool) {
	if v, a, found := vi.prog.Files[vi.fi].Symbols.Get(ident, kind); found {
		return vi.fi, v, a, true
	}
	for i, f := range vi.prog.Files {
		if i == vi.fi {
			continue
		}
		if v, a, found := f.Symbols.Get(ident, kind); found {
			return i, v, a, true
		}
	}
	return 0, 0, 0, false
}

func (vi *Instance) controlFlowError(instr Instruction, ident string) error {
	msg := ""
	if ident == "Sys.init" {
		msg = "program has no entry point: define function Sys.init"
	}
	return &RuntimeError{Kind: ErrControlFlowTargetNotFound, Pos: instr.Pos, Instr: instr.String(), Msg: msg}
}

func (vi *Instance) execControl(instr Instruction) error {
	switch instr.Op {
	case OpGoto:
		return vi.doGoto(instr, instr.Ident)
	case OpIfGoto:
		w, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		if w != 0 {
			return vi.doGoto(instr, instr.Ident)
		}
		return nil
	case OpCall:
		return vi.doCall(instr)
	case OpReturn:
		return vi.doReturn(instr)
	}
	panic("vm: unhandled control op " + instr.Op.String())
}

func (vi *Instance) doGoto(instr Instruction, ident string) error {
	fi, ei, _, ok := vi.resolve(ident, symtab.Label)
	if !ok {
		return vi.controlFlowError(instr, ident)
	}
	vi.fi = fi
	vi.ei = ei - 1
	return nil
}

func (vi *Instance) doCall(instr Instruction) error {
	nargs := instr.NArgs
	if nargs > vi.stack.SP() {
		return vi.err(instr, ErrWrongArgCount)
	}
	fi, ei, nlocals, ok := vi.resolve(instr.Ident, symtab.Function)
	if !ok {
		return vi.controlFlowError(instr, instr.Ident)
	}

	vi.stack.Push(Word(vi.ei))
	vi.stack.Push(Word(vi.fi))
	vi.stack.Push(Word(vi.lcl))
	vi.stack.Push(Word(vi.lclLen))
	vi.stack.Push(Word(vi.arg))
	vi.stack.Push(Word(vi.argLen))
	vi.stack.Push(Word(vi.heap.ThisBase))
	vi.stack.Push(Word(vi.heap.ThatBase))

	sp := vi.stack.SP()
	vi.arg = sp - frameWords - nargs
	vi.argLen = nargs
	vi.lcl = sp
	vi.lclLen = nlocals

	for i := 0; i < nlocals; i++ {
		vi.stack.Push(0)
	}

	vi.fi = fi
	vi.ei = ei - 1
	return nil
}

func (vi *Instance) doReturn(instr Instruction) error {
	retVal, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}

	base := vi.lcl - frameWords
	returnEi := int(vi.stack.Get(base + 0))
	returnFi := int(vi.stack.Get(base + 1))
	callerLcl := int(vi.stack.Get(base + 2))
	callerLclLen := int(vi.stack.Get(base + 3))
	callerArg := int(vi.stack.Get(base + 4))
	callerArgLen := int(vi.stack.Get(base + 5))
	callerThis := Address(vi.stack.Get(base + 6))
	callerThat := Address(vi.stack.Get(base + 7))

	vi.stack.Set(vi.arg, retVal)
	vi.stack.Truncate(vi.arg + 1)

	vi.lcl, vi.lclLen = callerLcl, callerLclLen
	vi.arg, vi.argLen = callerArg, callerArgLen
	vi.heap.ThisBase, vi.heap.ThatBase = callerThis, callerThat

	vi.fi = returnFi
	vi.ei = returnEi
	return nil
}
