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

// Package token holds the source-position type shared by the scanner,
// parser, and executor so that diagnostics from any stage look the same.
package token

import "fmt"

// Position identifies a single byte in a source file by 1-indexed line and
// column. Line and Col are both 0 for a Position that was never set by the
// scanner (e.g. a synthetic instruction with no source origin).
type Position struct {
	File string
	Line int
	Col  int
}

// String renders the position as "file:line:col", matching the format used
// throughout diagnostics in spec.md §4.2 and §7.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// IsValid reports whether p carries real line/column information.
func (p Position) IsValid() bool {
	return p.Line > 0
}
