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

// The vme command assembles and runs one or more Hack-style .vm source
// files.
//
// Usage:
//
//	vme [-stats] FILE1 [FILE2 ...]
//
// -stats: print the number of instructions executed and elapsed time to
// stderr once the program has run, whether or not it failed at runtime.
//
// Files whose names don't end in .vm are accepted but produce a warning.
// Assembly (scan/parse/link) failures exit 1; a failure raised once the
// program is running exits 2; success exits 0 and prints the value left on
// top of the operand stack to stdout.
package main
