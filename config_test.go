// config_test.go: tests for configuration validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := Config{NumThreads: 4}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("batch size default: got %d", cfg.BatchSize)
	}
	if cfg.RadixPartitionRatio != DefaultRadixPartitionRatio {
		t.Errorf("radix ratio default: got %d", cfg.RadixPartitionRatio)
	}
	if cfg.AdaptationThreshold != DefaultAdaptationThreshold {
		t.Errorf("adaptation threshold default: got %d", cfg.AdaptationThreshold)
	}
	if cfg.SamplePrefixLen != DefaultSamplePrefixLen {
		t.Errorf("sample prefix default: got %d", cfg.SamplePrefixLen)
	}
	if cfg.Logger == nil || cfg.TimeProvider == nil || cfg.Metrics == nil {
		t.Error("nil collaborators not defaulted")
	}
}

func TestConfig_ValidateRejectsBadThreads(t *testing.T) {
	for _, p := range []int{0, -1} {
		cfg := Config{NumThreads: p}
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for %d threads", p)
		}
		if !IsConfigError(err) {
			t.Errorf("expected a config error, got %v", err)
		}
	}
}

func TestConfig_NumPartitions(t *testing.T) {
	cfg := Config{NumThreads: 8, RadixPartitionRatio: 4}
	if got := cfg.numPartitions(); got != 32 {
		t.Errorf("expected 32 partitions, got %d", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.NumThreads != 1 {
		t.Errorf("default thread count: got %d", cfg.NumThreads)
	}
}
