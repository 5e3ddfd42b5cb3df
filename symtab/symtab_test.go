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

package symtab_test

import (
	"fmt"
	"testing"

	"github.com/hackvm/vme/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetRoundTrip(t *testing.T) {
	tb := symtab.New()
	require.NoError(t, tb.Insert("LOOP", symtab.Label, 42, 0))
	v, _, ok := tb.Get("LOOP", symtab.Label)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetMissingNotFound(t *testing.T) {
	tb := symtab.New()
	_, _, ok := tb.Get("nope", symtab.Function)
	assert.False(t, ok)
}

func TestLabelAndFunctionMaySharaName(t *testing.T) {
	tb := symtab.New()
	require.NoError(t, tb.Insert("main", symtab.Function, 1, 2))
	require.NoError(t, tb.Insert("main", symtab.Label, 2, 0))
	fv, aux, ok := tb.Get("main", symtab.Function)
	require.True(t, ok)
	assert.Equal(t, 1, fv)
	assert.Equal(t, 2, aux)
	lv, _, ok := tb.Get("main", symtab.Label)
	require.True(t, ok)
	assert.Equal(t, 2, lv)
}

func TestDuplicateInsertSameValueIsIdempotent(t *testing.T) {
	tb := symtab.New()
	require.NoError(t, tb.Insert("dup", symtab.Label, 1, 0))
	require.NoError(t, tb.Insert("dup", symtab.Label, 1, 0))
	v, _, ok := tb.Get("dup", symtab.Label)
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDuplicateInsertDifferentValueConflicts(t *testing.T) {
	tb := symtab.New()
	require.NoError(t, tb.Insert("dup", symtab.Label, 1, 0))
	err := tb.Insert("dup", symtab.Label, 2, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, symtab.ErrExists)
}

func TestOffsetAppliedOnGet(t *testing.T) {
	tb := symtab.New()
	require.NoError(t, tb.Insert("f", symtab.Function, 10, 0))
	tb.Offset = 1000
	v, _, ok := tb.Get("f", symtab.Function)
	require.True(t, ok)
	assert.Equal(t, 1010, v)
}

func TestGrowPastLoadFactorPreservesAllEntries(t *testing.T) {
	tb := symtab.New()
	n := symtab.BlockSize // forces at least one grow past the 0.75 threshold
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("sym%d", i)
		require.NoError(t, tb.Insert(name, symtab.Label, i, 0))
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("sym%d", i)
		v, _, ok := tb.Get(name, symtab.Label)
		require.Truef(t, ok, "missing %s after grow", name)
		assert.Equal(t, i, v)
	}
}
