// config.go: configuration for xanthos aggregation runs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"github.com/agilira/go-timecache"
)

// Default tuning values. BatchSize, RadixPartitionRatio and
// AdaptationThreshold mirror the driver flag defaults.
const (
	DefaultBatchSize           = 10_000
	DefaultRadixPartitionRatio = 4
	DefaultAdaptationThreshold = 10_000
	DefaultSamplePrefixLen     = 10_000
)

// Config holds the tuning parameters of one aggregation run.
type Config struct {
	// NumThreads is the worker parallelism p. Must be >= 1.
	NumThreads int

	// BatchSize is the dynamic-scheduling chunk size in rows.
	// Default: DefaultBatchSize.
	BatchSize int

	// RadixPartitionRatio scales the radix partition count: N = p * ratio.
	// Default: DefaultRadixPartitionRatio.
	RadixPartitionRatio int

	// AdaptationThreshold is the local-map size past which the duckdbish
	// strategy flips to late repartitioning. Default: DefaultAdaptationThreshold.
	AdaptationThreshold int

	// SamplePrefixLen is K, the number of prefix rows the adaptive
	// selectors sample single-threadedly. Default: DefaultSamplePrefixLen.
	SamplePrefixLen int

	// LockFreeCapacity fixes the lock-free table size in slots. 0 derives
	// the size from the row count (standalone strategy) or from the
	// estimated group cardinality (adaptive selectors).
	LockFreeCapacity int

	// Trial identifies the run for reporting only; the driver sets it to
	// the dry-run or trial index.
	Trial int

	// Logger is used for decision and fallback logging.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider is a cached time source carried with the run
	// configuration. No strategy, logger or collector in this package reads
	// it. If nil, a go-timecache backed implementation is used.
	TimeProvider TimeProvider

	// Metrics receives phase timings, decisions and fallbacks.
	// If nil, NoOpMetricsCollector is used (zero overhead).
	Metrics MetricsCollector
}

// Validate checks configuration parameters and applies sensible defaults.
// A non-positive NumThreads is the one genuine error; everything else is
// normalized in place.
func (c *Config) Validate() error {
	if c.NumThreads < 1 {
		return NewErrInvalidThreads(c.NumThreads)
	}

	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}

	if c.RadixPartitionRatio <= 0 {
		c.RadixPartitionRatio = DefaultRadixPartitionRatio
	}

	if c.AdaptationThreshold <= 0 {
		c.AdaptationThreshold = DefaultAdaptationThreshold
	}

	if c.SamplePrefixLen <= 0 {
		c.SamplePrefixLen = DefaultSamplePrefixLen
	}

	if c.LockFreeCapacity < 0 {
		c.LockFreeCapacity = 0
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.Metrics == nil {
		c.Metrics = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults and
// single-threaded execution.
func DefaultConfig() Config {
	return Config{
		NumThreads:          1,
		BatchSize:           DefaultBatchSize,
		RadixPartitionRatio: DefaultRadixPartitionRatio,
		AdaptationThreshold: DefaultAdaptationThreshold,
		SamplePrefixLen:     DefaultSamplePrefixLen,
		Logger:              NoOpLogger{},
		TimeProvider:        &systemTimeProvider{},
		Metrics:             NoOpMetricsCollector{},
	}
}

// numPartitions returns N, the radix partition count.
func (c *Config) numPartitions() int {
	return c.NumThreads * c.RadixPartitionRatio
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access compared to time.Now() with zero
// allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
