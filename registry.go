// registry.go: strategy names and lookup
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// CLI-facing strategy names.
const (
	AlgSequential      = "sequential"
	AlgTwoPhaseCentral = "two-phase-central-merge"
	AlgTwoPhaseTree    = "two-phase-tree-merge"
	AlgTwoPhaseRadix   = "two-phase-radix"
	AlgDuckDBish       = "duckdbish-two-phase"
	AlgLockFree        = "lock-free-hash-table"
	AlgAdaptive1       = "adaptive-alg1"
	AlgAdaptive2       = "adaptive-alg2"
	AlgAdaptive3       = "adaptive-alg3"
)

// strategyNames lists every registered strategy in presentation order.
var strategyNames = []string{
	AlgSequential,
	AlgTwoPhaseCentral,
	AlgTwoPhaseTree,
	AlgTwoPhaseRadix,
	AlgDuckDBish,
	AlgLockFree,
	AlgAdaptive1,
	AlgAdaptive2,
	AlgAdaptive3,
}

// StrategyNames returns the names of all registered strategies.
func StrategyNames() []string {
	out := make([]string, len(strategyNames))
	copy(out, strategyNames)
	return out
}

// StrategyByName resolves a CLI algorithm name to its engine. Unknown names
// return a structured configuration error carrying the known names.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case AlgSequential:
		return sequentialStrategy{}, nil
	case AlgTwoPhaseCentral:
		return centralStrategy{}, nil
	case AlgTwoPhaseTree:
		return treeStrategy{}, nil
	case AlgTwoPhaseRadix:
		return radixStrategy{}, nil
	case AlgDuckDBish:
		return duckdbishStrategy{}, nil
	case AlgLockFree:
		return lockFreeStrategy{}, nil
	case AlgAdaptive1:
		return adaptiveHeuristic{}, nil
	case AlgAdaptive2:
		return adaptiveCostModel{}, nil
	case AlgAdaptive3:
		return adaptiveWindowed{}, nil
	}
	return nil, NewErrUnknownAlgorithm(name)
}
