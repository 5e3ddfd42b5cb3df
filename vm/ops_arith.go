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

// Binary arithmetic/logic ops pop y (top) then x, per spec.md §4.5. On
// any failure both words are pushed back in their original order so the
// stack is left exactly as it was before the op, per the atomicity rule
// in spec.md §7.
func (vi *Instance) execArith(instr Instruction) error {
	switch instr.Op {
	case OpNeg, OpNot:
		x, err := vi.pop(instr, ErrStackUnderflow)
		if err != nil {
			return err
		}
		if instr.Op == OpNeg {
			vi.stack.Push(0 - x)
		} else {
			vi.stack.Push(^x)
		}
		return nil
	}

	y, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		return err
	}
	x, err := vi.pop(instr, ErrStackUnderflow)
	if err != nil {
		vi.stack.Push(y)
		return err
	}

	switch instr.Op {
	case OpAdd:
		if int(x)+int(y) > int(MaxWord) {
			vi.stack.Push(x)
			vi.stack.Push(y)
			return vi.err(instr, ErrArithmeticOverflow)
		}
		vi.stack.Push(x + y)
	case OpSub:
		if x < y {
			vi.stack.Push(x)
			vi.stack.Push(y)
			return vi.err(instr, ErrArithmeticUnderflow)
		}
		vi.stack.Push(x - y)
	case OpAnd:
		vi.stack.Push(x & y)
	case OpOr:
		vi.stack.Push(x | y)
	case OpEq:
		vi.stack.Push(boolWord(x == y))
	case OpGt:
		vi.stack.Push(boolWord(x > y))
	case OpLt:
		vi.stack.Push(boolWord(x < y))
	}
	return nil
}

func boolWord(b bool) Word {
	if b {
		return True
	}
	return False
}
