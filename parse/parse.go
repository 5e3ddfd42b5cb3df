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

// Package parse turns a scanned token sequence into an instruction vector,
// recording label and function definitions into a symbol table as it
// goes.
package parse

import (
	"fmt"
	"strings"

	"github.com/hackvm/vme/scan"
	"github.com/hackvm/vme/symtab"
	"github.com/hackvm/vme/token"
	"github.com/hackvm/vme/vm"
)

// SyntaxError is a position-stamped parse failure with the three-token
// context window and caret underline described in spec.md §4.2/§7.
type SyntaxError struct {
	Pos     token.Position
	Want    string
	Context string // three-token window, rendered with a caret underline
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s\n%s", e.Pos, e.Want, e.Context)
}

var segmentKinds = map[scan.Kind]vm.Segment{
	scan.KwArgument: vm.Argument,
	scan.KwLocal:    vm.Local,
	scan.KwStatic:   vm.Static,
	scan.KwConstant: vm.Constant,
	scan.KwThis:     vm.This,
	scan.KwThat:     vm.That,
	scan.KwPointer:  vm.Pointer,
	scan.KwTemp:     vm.Temp,
}

type parser struct {
	filename string
	toks     []scan.Token
	pos      int
	table    *symtab.Table
	out      []vm.Instruction
}

// Parse consumes toks (a complete file's token sequence) and returns its
// instruction vector. function/label definitions are inserted into table
// under table.LocalCount + the instruction index they'd occupy, so a file
// parsed across more than one call still gets correctly addressed labels.
func Parse(filename string, toks []scan.Token, table *symtab.Table) ([]vm.Instruction, error) {
	p := &parser{filename: filename, toks: toks, table: table}
	for p.pos < len(p.toks) {
		if err := p.instruction(); err != nil {
			return nil, err
		}
	}
	table.LocalCount += len(p.out)
	return p.out, nil
}

func (p *parser) cur() (scan.Token, bool) {
	if p.pos >= len(p.toks) {
		return scan.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) advance() scan.Token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

// errAt builds a SyntaxError for the token at index i (or end-of-file if i
// is out of range), with a three-token window centered on it.
func (p *parser) errAt(i int, want string) error {
	var pos token.Position
	if i < len(p.toks) {
		pos = p.toks[i].Pos
	} else if len(p.toks) > 0 {
		pos = p.toks[len(p.toks)-1].Pos
	} else {
		pos = token.Position{File: p.filename}
	}
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	hi := i + 1
	if hi >= len(p.toks) {
		hi = len(p.toks) - 1
	}
	var words []string
	caretIdx := 0
	for j := lo; j <= hi && j >= 0; j++ {
		words = append(words, p.toks[j].String())
		if j == i {
			caretIdx = len(words) - 1
		}
	}
	line1 := strings.Join(words, " ")
	pad := 0
	for k := 0; k < caretIdx; k++ {
		pad += len(words[k]) + 1
	}
	caret := strings.Repeat(" ", pad) + strings.Repeat("^", maxInt(1, len(wordAt(words, caretIdx))))
	return &SyntaxError{Pos: pos, Want: want, Context: line1 + "\n" + caret}
}

func wordAt(words []string, i int) string {
	if i < 0 || i >= len(words) {
		return ""
	}
	return words[i]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *parser) expectKind(kind scan.Kind, want string) (scan.Token, error) {
	t, ok := p.cur()
	if !ok || t.Kind != kind {
		return scan.Token{}, p.errAt(p.pos, want)
	}
	return p.advance(), nil
}

func (p *parser) instruction() error {
	t, _ := p.cur()
	switch t.Kind {
	case scan.KwAdd:
		return p.simple(vm.OpAdd, t)
	case scan.KwSub:
		return p.simple(vm.OpSub, t)
	case scan.KwNeg:
		return p.simple(vm.OpNeg, t)
	case scan.KwAnd:
		return p.simple(vm.OpAnd, t)
	case scan.KwOr:
		return p.simple(vm.OpOr, t)
	case scan.KwNot:
		return p.simple(vm.OpNot, t)
	case scan.KwEq:
		return p.simple(vm.OpEq, t)
	case scan.KwGt:
		return p.simple(vm.OpGt, t)
	case scan.KwLt:
		return p.simple(vm.OpLt, t)
	case scan.KwReturn:
		return p.simple(vm.OpReturn, t)
	case scan.KwPush:
		return p.mem(vm.OpPush, t)
	case scan.KwPop:
		return p.mem(vm.OpPop, t)
	case scan.KwGoto:
		return p.ctrl(vm.OpGoto, t)
	case scan.KwIfGoto:
		return p.ctrl(vm.OpIfGoto, t)
	case scan.KwFunction:
		return p.funcdef(t)
	case scan.KwLabel:
		return p.labeldef(t)
	case scan.KwCall:
		return p.call(t)
	}
	return p.errAt(p.pos, "an instruction")
}

func (p *parser) simple(op vm.OpCode, t scan.Token) error {
	p.advance()
	p.out = append(p.out, vm.Instruction{Op: op, Pos: t.Pos})
	return nil
}

func (p *parser) mem(op vm.OpCode, t scan.Token) error {
	p.advance()
	segTok, ok := p.cur()
	seg, known := segmentKinds[segTok.Kind]
	if !ok || !known {
		return p.errAt(p.pos, "a segment name")
	}
	p.advance()
	offTok, err := p.expectKind(scan.KindUInt, "an unsigned integer offset")
	if err != nil {
		return err
	}
	p.out = append(p.out, vm.Instruction{Op: op, Segment: seg, Offset: offTok.Value, Pos: t.Pos})
	return nil
}

func (p *parser) ctrl(op vm.OpCode, t scan.Token) error {
	p.advance()
	identTok, err := p.expectKind(scan.KindIdent, "an identifier")
	if err != nil {
		return err
	}
	p.out = append(p.out, vm.Instruction{Op: op, Ident: identTok.Text, Pos: t.Pos})
	return nil
}

func (p *parser) call(t scan.Token) error {
	p.advance()
	identTok, err := p.expectKind(scan.KindIdent, "a function name")
	if err != nil {
		return err
	}
	nargsTok, err := p.expectKind(scan.KindUInt, "an argument count")
	if err != nil {
		return err
	}
	p.out = append(p.out, vm.Instruction{Op: vm.OpCall, Ident: identTok.Text, NArgs: nargsTok.Value, Pos: t.Pos})
	return nil
}

func (p *parser) funcdef(t scan.Token) error {
	p.advance()
	identTok, err := p.expectKind(scan.KindIdent, "a function name")
	if err != nil {
		return err
	}
	nlocalsTok, err := p.expectKind(scan.KindUInt, "a local-variable count")
	if err != nil {
		return err
	}
	addr := p.table.LocalCount + len(p.out)
	if err := p.table.Insert(identTok.Text, symtab.Function, addr, nlocalsTok.Value); err != nil {
		return fmt.Errorf("%s: %w", identTok.Pos, err)
	}
	return nil
}

func (p *parser) labeldef(t scan.Token) error {
	p.advance()
	identTok, err := p.expectKind(scan.KindIdent, "a label name")
	if err != nil {
		return err
	}
	addr := p.table.LocalCount + len(p.out)
	if err := p.table.Insert(identTok.Text, symtab.Label, addr, 0); err != nil {
		return fmt.Errorf("%s: %w", identTok.Pos, err)
	}
	return nil
}
