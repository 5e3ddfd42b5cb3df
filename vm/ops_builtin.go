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

// execBuiltin implements the internal opcodes the system file's generated
// routines invoke (spec.md §4.4's built-in table). Each one consumes
// exactly the arguments the table lists and pushes exactly the return
// value it lists, so the system file only needs to push arguments before
// the opcode and return after it.
func (vi *Instance) execBuiltin(instr Instruction) error {
	switch instr.Op {
	case OpPrintChar:
		c, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		if err := vi.ports.printChar(c); err != nil {
			return err
		}
		vi.stack.Push(0)
		return nil

	case OpPrintNum:
		n, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		if err := vi.ports.printNum(n); err != nil {
			return err
		}
		vi.stack.Push(0)
		return nil

	case OpPrintStr:
		addr, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		nchars, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			vi.stack.Push(addr)
			return err
		}
		if int(addr)+int(nchars) > HeapSize {
			vi.stack.Push(nchars)
			vi.stack.Push(addr)
			return vi.err(instr, ErrHeapAddressOverflow)
		}
		buf := make([]byte, nchars)
		for i := range buf {
			buf[i] = byte(vi.heap.Words[int(addr)+i])
		}
		if err := vi.ports.printStr(buf); err != nil {
			return err
		}
		vi.stack.Push(0)
		return nil

	case OpReadChar:
		c, err := vi.ports.readChar()
		if err != nil {
			return err
		}
		vi.stack.Push(c)
		return nil

	case OpReadNum:
		n, err := vi.ports.readNum()
		if err != nil {
			return err
		}
		vi.stack.Push(n)
		return nil

	case OpReadStr:
		addr, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		line, err := vi.ports.readLine()
		if err != nil {
			return err
		}
		if int(addr)+len(line) > HeapSize {
			vi.stack.Push(addr)
			return vi.err(instr, ErrHeapAddressOverflow)
		}
		vi.heap.writeString(Address(addr), line)
		vi.stack.Push(Word(len(line)))
		return nil
	}
	panic("vm: unhandled builtin " + instr.Op.String())
}
