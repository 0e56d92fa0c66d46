// timing.go: phase timers feeding the metrics collector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "time"

// Phase names reported by the strategies. The driver prints each as
// ">>> run=<i>, <phase>=<ms>ms", matching the observed output contract.
const (
	PhaseSampling    = "phase_0"
	PhaseScan        = "phase_1"
	PhaseMerge       = "phase_2"
	PhaseAggregation = "aggregation_time"
	PhaseOutput      = "write_output"
	PhaseElapsed     = "elapsed_time"
)

// startPhase starts a monotonic timer for one named phase and returns the
// function that stops it and reports to the collector. Usage:
//
//	done := startPhase(cfg, PhaseScan)
//	... phase body ...
//	done()
func startPhase(cfg Config, phase string) func() {
	start := time.Now()
	return func() {
		cfg.Metrics.RecordPhase(cfg.Trial, phase, time.Since(start))
	}
}
