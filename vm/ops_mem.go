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

// execMem implements the push/pop memory-op table in spec.md §4.5. Every
// bounds violation is checked before any mutation, so a failing op never
// touches the stack or memory it was about to write.
func (vi *Instance) execMem(file *File, instr Instruction) error {
	off := instr.Offset
	switch instr.Segment {
	case Argument:
		return vi.memFrameSeg(instr, vi.arg, vi.argLen, off)
	case Local:
		return vi.memFrameSeg(instr, vi.lcl, vi.lclLen, off)
	case Static:
		return vi.memArray(instr, file.Static[:], off)
	case Temp:
		return vi.memArray(instr, file.Temp[:], off)
	case Constant:
		return vi.memConstant(instr, off)
	case This:
		return vi.memHeap(instr, vi.heap.ThisBase, off)
	case That:
		return vi.memHeap(instr, vi.heap.ThatBase, off)
	case Pointer:
		return vi.memPointer(instr, off)
	}
	panic("vm: unhandled segment " + instr.Segment.String())
}

func (vi *Instance) memFrameSeg(instr Instruction, base, length, off int) error {
	if off >= length {
		return vi.err(instr, ErrSegmentOverflow)
	}
	if base+off >= vi.stack.SP() {
		return vi.err(instr, ErrStackAddressOverflow)
	}
	idx := base + off
	if instr.Op == OpPush {
		vi.stack.Push(vi.stack.Get(idx))
		return nil
	}
	w, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}
	vi.stack.Set(idx, w)
	return nil
}

func (vi *Instance) memArray(instr Instruction, arr []Word, off int) error {
	if off < 0 || off >= len(arr) {
		return vi.err(instr, ErrSegmentOverflow)
	}
	if instr.Op == OpPush {
		vi.stack.Push(arr[off])
		return nil
	}
	w, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}
	arr[off] = w
	return nil
}

func (vi *Instance) memConstant(instr Instruction, off int) error {
	if instr.Op == OpPush {
		vi.stack.Push(Word(off))
		return nil
	}
	_, err := vi.pop(instr, ErrStackUnderflow)
	return err
}

func (vi *Instance) memHeap(instr Instruction, base Address, off int) error {
	addr := int(base) + off
	if addr >= HeapSize {
		return vi.err(instr, ErrHeapAddressOverflow)
	}
	if instr.Op == OpPush {
		vi.stack.Push(vi.heap.Words[addr])
		return nil
	}
	w, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}
	vi.heap.Words[addr] = w
	return nil
}

func (vi *Instance) memPointer(instr Instruction, off int) error {
	if off != 0 && off != 1 {
		return vi.err(instr, ErrInvalidPointerIndex)
	}
	if instr.Op == OpPush {
		if off == 0 {
			vi.stack.Push(Word(vi.heap.ThisBase))
		} else {
			vi.stack.Push(Word(vi.heap.ThatBase))
		}
		return nil
	}
	w, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}
	if off == 0 {
		vi.heap.ThisBase = Address(w)
	} else {
		vi.heap.ThatBase = Address(w)
	}
	return nil
}
