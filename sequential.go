// sequential.go: single-thread baseline strategy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// sequentialStrategy aggregates the whole table on the calling goroutine.
// It defines the reference output every parallel strategy must reproduce.
type sequentialStrategy struct{}

func (sequentialStrategy) Name() string { return AlgSequential }

func (sequentialStrategy) Run(table *RowStore, cfg Config, sink ResultSink) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer startPhase(cfg, PhaseElapsed)()

	aggDone := startPhase(cfg, PhaseAggregation)
	m := NewAggMap()
	for r := 0; r < table.NumRows(); r++ {
		m.AbsorbRow(table, r)
	}
	aggDone()

	outDone := startPhase(cfg, PhaseOutput)
	emitAggMap(sink, m)
	outDone()
	cfg.Metrics.RecordRows(cfg.Trial, m.Len())
	return nil
}
