// validator_test.go: tests for reference loading and output validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReference(t *testing.T) {
	path := writeGzipFile(t, "ref.csv.gz", "key,count,sum,min,max\n1,3,37,7,20\n2,2,8,3,5\n")

	ref, err := LoadReference(path)
	require.NoError(t, err)
	require.Len(t, ref, 2)
	assert.Equal(t, Accumulator{Count: 3, Sum: 37, Min: 7, Max: 20}, ref[1])
	assert.Equal(t, Accumulator{Count: 2, Sum: 8, Min: 3, Max: 5}, ref[2])
}

func TestLoadReference_BadHeader(t *testing.T) {
	path := writeGzipFile(t, "ref.csv.gz", "key,cnt,sum,min,max\n1,1,1,1,1\n")
	_, err := LoadReference(path)
	require.Error(t, err)
	assert.Equal(t, ErrCodeValidationLoad, GetErrorCode(err))
}

func TestValidate_Passes(t *testing.T) {
	ref := map[int64]Accumulator{
		1: {Count: 3, Sum: 37, Min: 7, Max: 20},
		2: {Count: 2, Sum: 8, Min: 3, Max: 5},
	}
	rows := []ResultRow{
		{Key: 1, Count: 3, Sum: 37, Min: 7, Max: 20},
		{Key: 2, Count: 2, Sum: 8, Min: 3, Max: 5},
	}
	assert.NoError(t, Validate(rows, ref))
}

func TestValidate_KeysOutsideReferenceIgnored(t *testing.T) {
	ref := map[int64]Accumulator{1: {Count: 1, Sum: 5, Min: 5, Max: 5}}
	rows := []ResultRow{
		{Key: 1, Count: 1, Sum: 5, Min: 5, Max: 5},
		{Key: 99, Count: 7, Sum: 7, Min: 0, Max: 7},
	}
	assert.NoError(t, Validate(rows, ref))
}

func TestValidate_MismatchReportsFirstFailingField(t *testing.T) {
	ref := map[int64]Accumulator{1: {Count: 3, Sum: 37, Min: 7, Max: 20}}
	rows := []ResultRow{{Key: 1, Count: 3, Sum: 36, Min: 7, Max: 20}}

	err := Validate(rows, ref)
	require.Error(t, err)
	assert.True(t, IsValidationMismatch(err))

	ctx := GetErrorContext(err)
	require.NotNil(t, ctx)
	assert.Equal(t, int64(1), ctx["key"])
	assert.Equal(t, "sum", ctx["field"])
	assert.Equal(t, int64(37), ctx["expected"])
	assert.Equal(t, int64(36), ctx["got"])
}

func TestValidate_EndToEnd(t *testing.T) {
	dataPath := writeGzipFile(t, "data.csv.gz", "key,val\n1,10\n2,5\n1,7\n2,3\n1,20\n")
	refPath := writeGzipFile(t, "ref.csv.gz", "key,count,sum,min,max\n1,3,37,7,20\n2,2,8,3,5\n")

	table, err := LoadDataset(dataPath)
	require.NoError(t, err)
	ref, err := LoadReference(refPath)
	require.NoError(t, err)

	for _, alg := range StrategyNames() {
		rows := runStrategy(t, alg, table, configWithThreads(4))
		assert.NoError(t, Validate(rows, ref), alg)
	}
}
