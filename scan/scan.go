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

// Package scan implements the restartable lexical scanner: it turns a byte
// stream, delivered in arbitrarily-sized blocks, into a token sequence.
// A Scanner carries state (an in-progress word, open comment, line/column
// counters) between calls to Scan so that a token split across a block
// boundary is recognized correctly once the rest of it arrives.
package scan

import (
	"fmt"

	"github.com/hackvm/vme/token"
)

// BlockSize is the default read-block size callers are expected to use when
// feeding bytes to Scan; the scanner itself places no limit on block size.
const BlockSize = 65536

// MaxIdentLen is the longest identifier the scanner keeps in full; excess
// bytes are truncated with a warning.
const MaxIdentLen = 24

// Kind identifies a token's grammatical class.
type Kind int

const (
	KwPush Kind = iota
	KwPop
	KwAdd
	KwSub
	KwNeg
	KwAnd
	KwOr
	KwNot
	KwEq
	KwGt
	KwLt
	KwLabel
	KwGoto
	KwIfGoto
	KwFunction
	KwCall
	KwReturn
	KwArgument
	KwLocal
	KwStatic
	KwConstant
	KwThis
	KwThat
	KwPointer
	KwTemp
	KindUInt
	KindIdent
)

var keywords = map[string]Kind{
	"push": KwPush, "pop": KwPop,
	"add": KwAdd, "sub": KwSub, "neg": KwNeg,
	"and": KwAnd, "or": KwOr, "not": KwNot,
	"eq": KwEq, "gt": KwGt, "lt": KwLt,
	"label": KwLabel, "goto": KwGoto, "if-goto": KwIfGoto,
	"function": KwFunction, "call": KwCall, "return": KwReturn,
	"argument": KwArgument, "local": KwLocal, "static": KwStatic,
	"constant": KwConstant, "this": KwThis, "that": KwThat,
	"pointer": KwPointer, "temp": KwTemp,
}

// String names a token kind the way it reads in source, for error messages.
func (k Kind) String() string {
	for text, kk := range keywords {
		if kk == k {
			return text
		}
	}
	switch k {
	case KindUInt:
		return "integer"
	case KindIdent:
		return "identifier"
	}
	return "?"
}

// Token is one lexeme plus its source position.
type Token struct {
	Kind  Kind
	Text  string // lexeme for Ident, and for keywords (matches Kind.String())
	Value int    // parsed value for KindUInt
	Pos   token.Position
}

// String renders the token the way it appeared in source; for keywords and
// identifiers this is the lexeme, for integers the decimal value.
func (t Token) String() string {
	if t.Kind == KindUInt {
		return fmt.Sprintf("%d", t.Value)
	}
	return t.Text
}

// Error reports an unrecognized byte sequence at a source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Scanner converts a file's byte stream, delivered block by block, into
// tokens. The zero value is not usable; construct with New.
type Scanner struct {
	filename string
	warn     func(token.Position, string)

	line, col int
	lastByte  byte

	inComment bool

	pending      []byte
	pendingStart token.Position
	havePending  bool
}

// New returns a Scanner for filename. warn is invoked once per warning
// described in spec — truncated identifiers, saturated integers, a missing
// trailing newline — and may be nil to discard them.
func New(filename string, warn func(token.Position, string)) *Scanner {
	if warn == nil {
		warn = func(token.Position, string) {}
	}
	return &Scanner{filename: filename, warn: warn, line: 1, col: 1}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func (s *Scanner) pos() token.Position {
	return token.Position{File: s.filename, Line: s.line, Col: s.col}
}

func (s *Scanner) advance(b byte) {
	s.lastByte = b
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// Scan feeds one block of input and returns every token fully recognized
// within it. A trailing partial word is retained internally and completed
// (or carried further) by the next call, or finalized by Close.
func (s *Scanner) Scan(block []byte) ([]Token, error) {
	var buf []byte
	var bufStart token.Position
	if s.havePending {
		buf = append(append([]byte{}, s.pending...), block...)
		bufStart = s.pendingStart
		s.pending, s.havePending = nil, false
	} else {
		buf = block
		bufStart = s.pos()
	}

	var toks []Token
	i := 0
	pendingLen := 0
	if bufStart != s.pos() {
		// buf begins with carried-over bytes whose position is bufStart,
		// not s.pos(); track how many of buf's leading bytes those are so
		// we know when to switch to s.pos()-based positions below.
		pendingLen = len(buf) - len(block)
	}
	wordStartPos := func(start int) token.Position {
		if start < pendingLen {
			return bufStart
		}
		return s.pos()
	}

	for i < len(buf) {
		if s.inComment {
			for i < len(buf) && buf[i] != '\n' {
				if i >= pendingLen {
					s.advance(buf[i])
				}
				i++
			}
			if i < len(buf) {
				// consume the newline itself
				if i >= pendingLen {
					s.advance(buf[i])
				}
				i++
				s.inComment = false
			}
			continue
		}
		if isSpace(buf[i]) {
			if i >= pendingLen {
				s.advance(buf[i])
			}
			i++
			continue
		}
		start := i
		startPos := wordStartPos(start)

		// A comment is only recognized at a word's starting position, the
		// same unchanged offset every other matcher is tried at — never
		// after a word has already begun being scanned. So "push//x" scans
		// as the single (unrecognized) word "push//x", not "push" followed
		// by a comment: keywords are delimited to the right by whitespace
		// only.
		if buf[start] == '/' {
			if start+1 < len(buf) && buf[start+1] == '/' {
				for k := 0; k < 2; k++ {
					if i >= pendingLen {
						s.advance(buf[i])
					}
					i++
				}
				s.inComment = true
				continue
			}
			if start+1 == len(buf) {
				// lone '/' at the end of this block: it may complete to
				// "//" once the next block arrives, so carry it like an
				// incomplete word rather than deciding now.
				s.pending = append([]byte{}, buf[start:]...)
				s.pendingStart = startPos
				s.havePending = true
				for k := start; k < len(buf); k++ {
					if k >= pendingLen {
						s.advance(buf[k])
					}
				}
				return toks, nil
			}
			// a '/' not followed by another '/' doesn't start a comment;
			// fall through and let it be scanned (and rejected) as an
			// ordinary word.
		}

		// find the next delimiter: whitespace only
		j := start
		delim := -1 // -1: ran off end of buf with no delimiter found
		for j < len(buf) {
			if isSpace(buf[j]) {
				delim = 0
				break
			}
			j++
		}
		if delim == -1 {
			// incomplete word: carry the whole remainder to the next call
			s.pending = append([]byte{}, buf[i:]...)
			s.pendingStart = startPos
			s.havePending = true
			// advance position counters over the consumed-but-unterminated bytes
			for k := i; k < len(buf); k++ {
				if k >= pendingLen {
					s.advance(buf[k])
				}
			}
			return toks, nil
		}
		word := string(buf[start:j])
		tok, err := s.classify(word, startPos)
		// advance position counters over the word bytes themselves
		for k := start; k < j; k++ {
			if k >= pendingLen {
				s.advance(buf[k])
			}
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		i = j
	}
	return toks, nil
}

// classify turns a complete, delimiter-terminated word into a token.
func (s *Scanner) classify(word string, pos token.Position) (Token, error) {
	if k, ok := keywords[word]; ok {
		return Token{Kind: k, Text: word, Pos: pos}, nil
	}
	if isUIntWord(word) {
		return s.classifyUInt(word, pos), nil
	}
	if isIdentWord(word) {
		return s.classifyIdent(word, pos), nil
	}
	return Token{}, &Error{Pos: pos, Msg: fmt.Sprintf("unrecognized token %q", word)}
}

func isUIntWord(w string) bool {
	if len(w) < 1 || len(w) > 5 {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}
	return true
}

func (s *Scanner) classifyUInt(w string, pos token.Position) Token {
	v := 0
	for i := 0; i < len(w); i++ {
		v = v*10 + int(w[i]-'0')
	}
	if v > 65535 {
		s.warn(pos, fmt.Sprintf("integer literal %s saturated to 65535", w))
		v = 65535
	}
	return Token{Kind: KindUInt, Text: w, Value: v, Pos: pos}
}

func isIdentStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_' || b == '.' || b == ':'
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isIdentWord(w string) bool {
	if len(w) == 0 || !isIdentStart(w[0]) {
		return false
	}
	for i := 1; i < len(w); i++ {
		if !isIdentCont(w[i]) {
			return false
		}
	}
	return true
}

func (s *Scanner) classifyIdent(w string, pos token.Position) Token {
	if len(w) > MaxIdentLen {
		s.warn(pos, fmt.Sprintf("identifier %q truncated to %d characters", w, MaxIdentLen))
		w = w[:MaxIdentLen]
	}
	return Token{Kind: KindIdent, Text: w, Pos: pos}
}

// Close finalizes the stream: any still-pending partial word is classified
// as if terminated by end-of-input, and a missing trailing newline is
// synthesized with a warning, per spec.
func (s *Scanner) Close() ([]Token, error) {
	var toks []Token
	if s.inComment {
		s.inComment = false
	}
	if s.havePending {
		word := string(s.pending)
		for i := 0; i < len(s.pending); i++ {
			s.advance(s.pending[i])
		}
		s.pending, s.havePending = nil, false
		tok, err := s.classify(word, s.pendingStart)
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
	if s.lastByte != '\n' {
		s.warn(s.pos(), "file does not end in a newline")
		s.advance('\n')
	}
	return toks, nil
}
