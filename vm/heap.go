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

// Heap is the fixed-size program-scoped word array backing the this/that
// segments. ThisBase and ThatBase are the pointer-segment base registers;
// spec.md §3 stores them outside the heap data itself.
type Heap struct {
	Words    [HeapSize]Word
	ThisBase Address
	ThatBase Address
}

// NewHeap returns a zeroed heap.
func NewHeap() *Heap { return &Heap{} }

// writeString copies s into Words starting at addr, one byte per word.
func (h *Heap) writeString(addr Address, s []byte) {
	for i, b := range s {
		h.Words[int(addr)+i] = Word(b)
	}
}
