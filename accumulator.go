// accumulator.go: the {count, sum, min, max} reduction algebra
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "math"

// Accumulator is the per-key aggregate state: COUNT, SUM, MIN and MAX of
// the values absorbed so far. It is a plain value type; Merge and
// AbsorbValue return the combined state rather than mutating in place.
//
// The algebra is associative and commutative, which is what lets every
// strategy split the row range arbitrarily across threads and merge partial
// results in any order. SUM wraps with two's-complement semantics on
// overflow; COUNT and MIN/MAX cannot overflow under realistic inputs.
type Accumulator struct {
	Count int64
	Sum   int64
	Min   int64
	Max   int64
}

// IdentityAccumulator returns the identity element (0, 0, +inf, -inf),
// with the infinities encoded as math.MaxInt64 and math.MinInt64.
func IdentityAccumulator() Accumulator {
	return Accumulator{Count: 0, Sum: 0, Min: math.MaxInt64, Max: math.MinInt64}
}

// AbsorbValue folds one value into the accumulator: a ⊕ (1, v, v, v).
func (a Accumulator) AbsorbValue(v int64) Accumulator {
	a.Count++
	a.Sum += v
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
	return a
}

// Merge combines two accumulators component-wise.
func (a Accumulator) Merge(b Accumulator) Accumulator {
	a.Count += b.Count
	a.Sum += b.Sum
	if b.Min < a.Min {
		a.Min = b.Min
	}
	if b.Max > a.Max {
		a.Max = b.Max
	}
	return a
}
