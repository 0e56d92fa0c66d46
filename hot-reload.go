// hot-reload.go: dynamic tuning configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a tuning file and keeps an up-to-date Config snapshot
// for long benchmark campaigns, so batch size, radix ratio and the
// adaptation threshold can be adjusted between trials without restarting
// the driver. Structural parameters (thread count, algorithm) are
// deliberately not reloadable; they define the experiment.
type HotConfig struct {
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the tuning file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)
}

// NewHotConfig creates a hot-reloadable tuning configuration seeded from
// base and starts watching the file at opts.ConfigPath.
//
// Example tuning file (YAML):
//
//	tuning:
//	  batch_size: 10000
//	  radix_partition_cnt_ratio: 4
//	  adaptation_threshold: 10000
//	  sample_prefix_len: 10000
func NewHotConfig(base Config, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig{
		config:   base,
		OnReload: opts.OnReload,
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the tuning file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the tuning file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration snapshot (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when the tuning file changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseConfig extracts tuning parameters from Argus config data, keeping
// everything not named in the file at its current value.
func (hc *HotConfig) parseConfig(data map[string]interface{}) Config {
	config := hc.config

	tuning, ok := data["tuning"].(map[string]interface{})
	if !ok {
		// Try if the whole data IS the tuning section
		if _, hasBatch := data["batch_size"]; hasBatch {
			tuning = data
		} else {
			return config
		}
	}

	if batch, ok := parsePositiveInt(tuning["batch_size"]); ok {
		config.BatchSize = batch
	}
	if ratio, ok := parsePositiveInt(tuning["radix_partition_cnt_ratio"]); ok {
		config.RadixPartitionRatio = ratio
	}
	if thr, ok := parsePositiveInt(tuning["adaptation_threshold"]); ok {
		config.AdaptationThreshold = thr
	}
	if k, ok := parsePositiveInt(tuning["sample_prefix_len"]); ok {
		config.SamplePrefixLen = k
	}
	if capacity, ok := parsePositiveInt(tuning["lock_free_capacity"]); ok {
		config.LockFreeCapacity = capacity
	}

	return config
}
