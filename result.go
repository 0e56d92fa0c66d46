// result.go: result collection and ordering helpers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sort"

// ResultBuffer is the standard in-memory ResultSink. The zero value is
// ready to use.
type ResultBuffer struct {
	rows []ResultRow
}

// Emit appends one result row.
func (b *ResultBuffer) Emit(row ResultRow) {
	b.rows = append(b.rows, row)
}

// Rows returns the collected rows in emission order.
func (b *ResultBuffer) Rows() []ResultRow { return b.rows }

// Len returns the number of collected rows.
func (b *ResultBuffer) Len() int { return len(b.rows) }

// Reset discards collected rows but keeps the backing storage, so a driver
// can reuse one buffer across dry-runs and trials.
func (b *ResultBuffer) Reset() {
	b.rows = b.rows[:0]
}

// SortByKey orders the rows by group key. Strategies emit in map order;
// validation and tests want a canonical order.
func (b *ResultBuffer) SortByKey() {
	sort.Slice(b.rows, func(i, j int) bool { return b.rows[i].Key < b.rows[j].Key })
}

// emitAggMap pushes every entry of m into the sink as a result row.
func emitAggMap(sink ResultSink, m *AggMap) {
	m.ForEach(func(key int64, acc Accumulator) {
		sink.Emit(ResultRow{Key: key, Count: acc.Count, Sum: acc.Sum, Min: acc.Min, Max: acc.Max})
	})
}

// emitLockFree pushes every occupied slot of m into the sink.
func emitLockFree(sink ResultSink, m *LockFreeAggMap) {
	m.ForEach(func(key int64, acc Accumulator) {
		sink.Emit(ResultRow{Key: key, Count: acc.Count, Sum: acc.Sum, Min: acc.Min, Max: acc.Max})
	})
}
