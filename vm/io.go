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
	"bufio"
	"io"
	"strconv"
)

// runeWriter is satisfied by bufio.Writer; wrapping an arbitrary io.Writer
// in runeWriterWrapper gives the same capability to any writer, the same
// shape db47h/ngaro uses for its VM output port.
type runeWriter interface {
	io.Writer
	WriteByte(c byte) error
}

type runeWriterWrapper struct{ io.Writer }

func (w *runeWriterWrapper) WriteByte(c byte) error {
	_, err := w.Write([]byte{c})
	return err
}

func newRuneWriter(w io.Writer) runeWriter {
	if rw, ok := w.(runeWriter); ok {
		return rw
	}
	return &runeWriterWrapper{w}
}

// ioPorts bundles the built-ins' backing streams. stdin is wrapped in a
// bufio.Reader so read-num/read-str can peek past whitespace and compose
// ReadByte calls without the caller managing buffering itself.
type ioPorts struct {
	out runeWriter
	in  *bufio.Reader
}

func newIOPorts(out io.Writer, in io.Reader) ioPorts {
	return ioPorts{out: newRuneWriter(out), in: bufio.NewReader(in)}
}

func (p ioPorts) printChar(c Word) error {
	return p.out.WriteByte(byte(c))
}

func (p ioPorts) printNum(n Word) error {
	_, err := p.out.Write([]byte(strconv.FormatUint(uint64(n), 10)))
	return err
}

func (p ioPorts) printStr(s []byte) error {
	_, err := p.out.Write(s)
	return err
}

// readChar reads a single byte from stdin.
func (p ioPorts) readChar() (Word, error) {
	b, err := p.in.ReadByte()
	if err != nil {
		return 0, err
	}
	return Word(b), nil
}

// readNum reads a decimal number from stdin, skipping leading whitespace.
func (p ioPorts) readNum() (Word, error) {
	for {
		b, err := p.in.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			p.in.UnreadByte()
			break
		}
	}
	var v int
	any := false
	for {
		b, err := p.in.ReadByte()
		if err != nil {
			if any {
				break
			}
			return 0, err
		}
		if b < '0' || b > '9' {
			p.in.UnreadByte()
			break
		}
		v = v*10 + int(b-'0')
		if v > 65535 {
			v = 65535
		}
		any = true
	}
	return Word(v), nil
}

// readLine reads up to '\n' (discarded) or EOF and returns the bytes read.
func (p ioPorts) readLine() ([]byte, error) {
	line, err := p.in.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line, nil
}
