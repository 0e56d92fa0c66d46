// sampling_test.go: tests for the group-cardinality estimator
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"math"
	"testing"
)

func TestExpectedDistinct(t *testing.T) {
	// one draw always observes exactly one distinct key
	if got := expectedDistinct(1, 100); math.Abs(got-1) > 1e-9 {
		t.Errorf("E(1, 100) = %v, expected 1", got)
	}
	// many draws from a tiny population saturate it
	if got := expectedDistinct(10_000, 10); got < 9.999 {
		t.Errorf("E(10000, 10) = %v, expected ~10", got)
	}
	// E(k, G) < k always
	if got := expectedDistinct(100, 1e6); got >= 100 {
		t.Errorf("E(100, 1e6) = %v, must be below the sample size", got)
	}
}

func TestEstimateDistinct_ConvergesToObserved(t *testing.T) {
	// g̃ far below k means the sample saw the whole population
	got := EstimateDistinct(10_000, 50)
	if math.Abs(got-50) > 1 {
		t.Errorf("estimate %v, expected ~50", got)
	}
}

func TestEstimateDistinct_MonotoneInObserved(t *testing.T) {
	prev := 0.0
	for observed := 0; observed <= 9_999; observed += 111 {
		got := EstimateDistinct(10_000, observed)
		if got < prev {
			t.Fatalf("estimate decreased: observed=%d gave %v after %v", observed, got, prev)
		}
		prev = got
	}
}

func TestEstimateDistinct_Clamps(t *testing.T) {
	// saturated samples clamp to k-1 and stay below the search cap
	got := EstimateDistinct(10_000, 10_000)
	if got > estimateCap {
		t.Errorf("estimate %v exceeds the cap", got)
	}
	if got < 9_999 {
		t.Errorf("saturated sample should estimate a large population, got %v", got)
	}
}

func TestEstimateDistinct_Degenerate(t *testing.T) {
	if got := EstimateDistinct(0, 0); got != 0 {
		t.Errorf("empty sample: expected 0, got %v", got)
	}
	if got := EstimateDistinct(100, 0); got != 0 {
		t.Errorf("no keys observed: expected 0, got %v", got)
	}
	if got := EstimateDistinct(1, 1); got != 1 {
		t.Errorf("single saturated draw: expected 1, got %v", got)
	}
}

func TestEstimateDistinct_RecoversTruth(t *testing.T) {
	// For a known population G, feeding E(k, G) back in should return ~G.
	for _, g := range []float64{100, 1_000, 5_000} {
		observed := int(expectedDistinct(10_000, g))
		got := EstimateDistinct(10_000, observed)
		if math.Abs(got-g) > g*0.05+2 {
			t.Errorf("population %v: estimated %v from %d observed", g, got, observed)
		}
	}
}
