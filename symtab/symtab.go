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

// Package symtab implements the open-addressed symbol table used by the
// parser to record label and function definitions within a single file.
//
// Slots are located with djb2 hashing of the symbol name mixed with its
// kind, reduced to a slot index by Fibonacci multiplicative hashing (the
// high bits of name-hash * goldenRatio64). Collisions are resolved by
// linear probing. The table doubles and rehashes every entry once the load
// factor exceeds 0.75, trading a full-table scan (the probe-everything
// fallback used by the original C implementation) for restored O(1)
// expected probe counts — see DESIGN.md for the rationale.
package symtab

import "github.com/pkg/errors"

// Kind distinguishes the two symbol classes the parser can define.
type Kind uint8

const (
	// Label names a jump target defined by a "label" instruction.
	Label Kind = iota
	// Function names a callable entry point defined by "function".
	Function
)

func (k Kind) String() string {
	if k == Function {
		return "function"
	}
	return "label"
}

// BlockSize is the table's initial capacity and the minimum it ever grows
// by; it must be a power of two so the Fibonacci-hash slot reduction can
// use a plain bit shift.
const BlockSize = 4096

// goldenRatio64 is 2^64 / phi, rounded to the nearest odd integer: the
// standard multiplier for Fibonacci (multiplicative) hashing.
const goldenRatio64 = 11400714819323198485

// ErrExists is the cause wrapped into the error returned by Insert when a
// name/kind pair is already present in the table.
var ErrExists = errors.New("symbol already defined")

type slot struct {
	name  string
	kind  Kind
	value int
	aux   int
	used  bool
}

// Table is a single file's symbol table: label and function names mapped
// to instruction indices local to that file. Offset is added to every
// value returned by Get, so a caller can re-base all stored indices at
// once without rewriting them. The program package leaves it at zero,
// since each file keeps its own instruction slice.
type Table struct {
	Offset int

	// LocalCount is the running count of instructions emitted into this
	// table's file across however many parser calls contributed to it,
	// so label/function addresses stay correct when a file is parsed in
	// more than one pass. The parser owns this field.
	LocalCount int

	slots []slot
	count int
}

// New returns an empty table with the default initial capacity.
func New() *Table {
	return &Table{slots: make([]slot, BlockSize)}
}

func hash(name string, kind Kind) uint64 {
	// djb2
	var h uint64 = 5381
	for i := 0; i < len(name); i++ {
		h = h*33 + uint64(name[i])
	}
	return h ^ (uint64(kind) * 0x9e3779b97f4a7c15)
}

func slotIndex(h uint64, capacity int) int {
	// capacity is a power of two; bits is log2(capacity).
	bits := 0
	for c := capacity; c > 1; c >>= 1 {
		bits++
	}
	return int((h * goldenRatio64) >> (64 - uint(bits)))
}

// Insert records name/kind with the given local instruction value and an
// auxiliary field (the local-variable count, for Function entries; unused
// for Label entries). Re-inserting the same key with the same value/aux is
// a no-op; re-inserting with a different value or aux wraps ErrExists, the
// EXISTS conflict rule in spec.md §4.3.
func (t *Table) Insert(name string, kind Kind, value, aux int) error {
	if t.slots == nil {
		t.slots = make([]slot, BlockSize)
	}
	if (t.count+1)*4 > len(t.slots)*3 {
		t.grow()
	}
	h := hash(name, kind)
	idx := slotIndex(h, len(t.slots))
	for i := 0; i < len(t.slots); i++ {
		s := &t.slots[(idx+i)%len(t.slots)]
		if !s.used {
			s.name, s.kind, s.value, s.aux, s.used = name, kind, value, aux, true
			t.count++
			return nil
		}
		if s.name == name && s.kind == kind {
			if s.value == value && s.aux == aux {
				return nil
			}
			return errors.Wrapf(ErrExists, "%s %q", kind, name)
		}
	}
	// unreachable: grow() always keeps load factor below 1.
	panic("symtab: table full")
}

// Get looks up name under kind and returns its value plus Offset, its aux
// field, and whether it was found.
func (t *Table) Get(name string, kind Kind) (value int, aux int, ok bool) {
	if t.slots == nil {
		return 0, 0, false
	}
	h := hash(name, kind)
	idx := slotIndex(h, len(t.slots))
	for i := 0; i < len(t.slots); i++ {
		s := &t.slots[(idx+i)%len(t.slots)]
		if !s.used {
			return 0, 0, false
		}
		if s.name == name && s.kind == kind {
			return s.value + t.Offset, s.aux, true
		}
	}
	return 0, 0, false
}

// grow doubles the backing array (in multiples of BlockSize) and
// reinserts every live entry at its slot for the new capacity.
func (t *Table) grow() {
	old := t.slots
	newCap := len(t.slots) * 2
	if newCap < BlockSize {
		newCap = BlockSize
	}
	t.slots = make([]slot, newCap)
	t.count = 0
	for _, s := range old {
		if !s.used {
			continue
		}
		t.insertRehash(s.name, s.kind, s.value, s.aux)
	}
}

func (t *Table) insertRehash(name string, kind Kind, value, aux int) {
	h := hash(name, kind)
	idx := slotIndex(h, len(t.slots))
	for i := 0; i < len(t.slots); i++ {
		s := &t.slots[(idx+i)%len(t.slots)]
		if !s.used {
			s.name, s.kind, s.value, s.aux, s.used = name, kind, value, aux, true
			t.count++
			return
		}
	}
	panic("symtab: table full during rehash")
}

// Len reports the number of distinct name/kind pairs stored.
func (t *Table) Len() int { return t.count }
