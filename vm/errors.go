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
	"fmt"

	"github.com/hackvm/vme/token"
)

// ErrorKind classifies a runtime failure.
type ErrorKind int

const (
	ErrStackUnderflow ErrorKind = iota
	ErrSegmentOverflow
	ErrStackAddressOverflow
	ErrHeapAddressOverflow
	ErrInvalidPointerIndex
	ErrArithmeticOverflow
	ErrArithmeticUnderflow
	ErrControlFlowTargetNotFound
	ErrWrongArgCount
)

func (k ErrorKind) String() string {
	switch k {
	case ErrStackUnderflow:
		return "stack underflow"
	case ErrSegmentOverflow:
		return "segment out of range"
	case ErrStackAddressOverflow:
		return "stack address overflow"
	case ErrHeapAddressOverflow:
		return "heap address overflow"
	case ErrInvalidPointerIndex:
		return "invalid pointer segment index"
	case ErrArithmeticOverflow:
		return "arithmetic overflow"
	case ErrArithmeticUnderflow:
		return "arithmetic underflow"
	case ErrControlFlowTargetNotFound:
		return "control-flow target not found"
	case ErrWrongArgCount:
		return "wrong argument count"
	}
	return "unknown runtime error"
}

// RuntimeError is returned by Instance.Run when execution cannot continue.
// Per spec.md §7, every runtime error carries a source position (if the
// offending instruction has one) and the instruction's stringified form,
// and is raised only after the stack has been restored to its
// pre-operation state.
type RuntimeError struct {
	Kind  ErrorKind
	Pos   token.Position
	Instr string
	Msg   string // optional specialization, e.g. the Sys.init message
}

func (e *RuntimeError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s (%s)", e.Pos, msg, e.Instr)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Instr)
}
