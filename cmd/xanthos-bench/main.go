// main.go: benchmark driver for the xanthos aggregation strategies
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/agilira/xanthos"
	"github.com/olekukonko/tablewriter"
)

var (
	numThreads         int
	algorithm          string
	datasetFilePath    string
	validationFilePath string
	numDryruns         int
	numTrials          int
	batchSize          int
	radixRatio         int
	adaptThreshold     int
	configWatchPath    string
	printSummary       bool
	verbose            bool
)

func init() {
	flag.IntVar(&numThreads, "num-threads", 0, "worker parallelism p (required, >= 1)")
	flag.StringVar(&algorithm, "algorithm", xanthos.AlgSequential, "aggregation algorithm to run")
	flag.StringVar(&datasetFilePath, "dataset-file-path", "", "gzipped CSV dataset (required)")
	flag.StringVar(&validationFilePath, "validation-file-path", "", "gzipped CSV reference aggregates (required)")
	flag.IntVar(&numDryruns, "num-dryruns", 3, "untimed warm-up runs")
	flag.IntVar(&numTrials, "num-trials", 5, "timed trial runs")
	flag.IntVar(&batchSize, "batch-size", xanthos.DefaultBatchSize, "dynamic scheduling chunk size in rows")
	flag.IntVar(&radixRatio, "radix-partition-cnt-ratio", xanthos.DefaultRadixPartitionRatio, "radix partitions per thread")
	flag.IntVar(&adaptThreshold, "duckdb-style-adaptation-threshold", xanthos.DefaultAdaptationThreshold, "local map size that triggers late repartitioning")
	flag.StringVar(&configWatchPath, "config-watch", "", "optional tuning file watched for hot reload between runs")
	flag.BoolVar(&printSummary, "print-summary", false, "print a per-trial phase timing table")
	flag.BoolVar(&verbose, "verbose", false, "log strategy decisions and fallbacks")
}

// consoleLogger adapts the standard library logger to xanthos.Logger.
type consoleLogger struct {
	logger *log.Logger
}

func newConsoleLogger() *consoleLogger {
	return &consoleLogger{logger: log.New(os.Stderr, "[XANTHOS] ", log.LstdFlags|log.Lmicroseconds)}
}

func (l *consoleLogger) Debug(msg string, keyvals ...interface{}) {
	l.logger.Printf("DEBUG %s %v", msg, keyvals)
}

func (l *consoleLogger) Info(msg string, keyvals ...interface{}) {
	l.logger.Printf("INFO %s %v", msg, keyvals)
}

func (l *consoleLogger) Warn(msg string, keyvals ...interface{}) {
	l.logger.Printf("WARN %s %v", msg, keyvals)
}

func (l *consoleLogger) Error(msg string, keyvals ...interface{}) {
	l.logger.Printf("ERROR %s %v", msg, keyvals)
}

// phaseRecord is one timed phase of one run, kept for the summary table.
type phaseRecord struct {
	run   int
	phase string
	ms    int64
}

// printingCollector prints the per-phase timing lines the harness scripts
// scrape, and keeps the records for the optional summary table.
type printingCollector struct {
	mu      sync.Mutex
	records []phaseRecord
}

func (c *printingCollector) RecordPhase(run int, phase string, elapsed time.Duration) {
	ms := elapsed.Milliseconds()
	fmt.Printf(">>> run=%d, %s=%dms\n", run, phase, ms)
	c.mu.Lock()
	c.records = append(c.records, phaseRecord{run: run, phase: phase, ms: ms})
	c.mu.Unlock()
}

func (c *printingCollector) RecordRows(int, int) {}

func (c *printingCollector) RecordDecision(run int, strategy string) {
	fmt.Printf(">> run=%d, strat-decided=%s\n", run, strategy)
}

func (c *printingCollector) RecordFallback(run int, from, to string) {
	fmt.Printf(">> run=%d, fallback from=%s to=%s\n", run, from, to)
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if numThreads < 1 {
		fmt.Fprintln(os.Stderr, "--num-threads is required and must be >= 1")
		return 2
	}
	if datasetFilePath == "" {
		fmt.Fprintln(os.Stderr, "--dataset-file-path is required")
		return 2
	}
	if validationFilePath == "" {
		fmt.Fprintln(os.Stderr, "--validation-file-path is required")
		return 2
	}

	strat, err := xanthos.StrategyByName(algorithm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	if _, err := os.Stat(datasetFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "dataset file not found: %s\n", datasetFilePath)
		return 2
	}

	table, err := xanthos.LoadDataset(datasetFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dataset: %v\n", err)
		return 1
	}
	ref, err := xanthos.LoadReference(validationFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load validation reference: %v\n", err)
		return 1
	}

	baseCfg := xanthos.DefaultConfig()
	baseCfg.NumThreads = numThreads
	baseCfg.BatchSize = batchSize
	baseCfg.RadixPartitionRatio = radixRatio
	baseCfg.AdaptationThreshold = adaptThreshold
	if verbose {
		baseCfg.Logger = newConsoleLogger()
	}

	var hot *xanthos.HotConfig
	if configWatchPath != "" {
		hot, err = xanthos.NewHotConfig(baseCfg, xanthos.HotConfigOptions{ConfigPath: configWatchPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to watch tuning file: %v\n", err)
			return 1
		}
		if err := hot.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start tuning watcher: %v\n", err)
			return 1
		}
		defer func() { _ = hot.Stop() }()
	}

	currentCfg := func() xanthos.Config {
		if hot != nil {
			return hot.GetConfig()
		}
		return baseCfg
	}

	// untimed warm-up runs
	var buf xanthos.ResultBuffer
	for i := 0; i < numDryruns; i++ {
		cfg := currentCfg()
		cfg.Trial = i
		buf.Reset()
		if err := strat.Run(table, cfg, &buf); err != nil {
			fmt.Fprintf(os.Stderr, "dry-run %d failed: %v\n", i, err)
			return 1
		}
	}

	// timed trials
	collector := &printingCollector{}
	for i := 0; i < numTrials; i++ {
		cfg := currentCfg()
		cfg.Trial = i
		cfg.Metrics = collector
		buf.Reset()
		if err := strat.Run(table, cfg, &buf); err != nil {
			fmt.Fprintf(os.Stderr, "trial %d failed: %v\n", i, err)
			return 1
		}
	}

	fmt.Printf(">> output has %d rows\n", buf.Len())

	buf.SortByKey()
	if err := xanthos.Validate(buf.Rows(), ref); err != nil {
		ctx := xanthos.GetErrorContext(err)
		fmt.Fprintf(os.Stderr, "validation failed: key=%v field=%v expected=%v got=%v\n",
			ctx["key"], ctx["field"], ctx["expected"], ctx["got"])
		return 1
	}
	fmt.Println("Validation passes")

	if printSummary {
		renderSummary(collector.records)
	}
	return 0
}

// renderSummary prints one table row per trial with a column per phase.
func renderSummary(records []phaseRecord) {
	phases := []string{}
	seen := map[string]bool{}
	byRun := map[int]map[string]int64{}
	runs := []int{}
	for _, rec := range records {
		if !seen[rec.phase] {
			seen[rec.phase] = true
			phases = append(phases, rec.phase)
		}
		if byRun[rec.run] == nil {
			byRun[rec.run] = map[string]int64{}
			runs = append(runs, rec.run)
		}
		byRun[rec.run][rec.phase] = rec.ms
	}
	sort.Ints(runs)

	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader(append([]string{"run"}, phases...))
	for _, run := range runs {
		row := []string{strconv.Itoa(run)}
		for _, phase := range phases {
			row = append(row, strconv.FormatInt(byRun[run][phase], 10)+"ms")
		}
		w.Append(row)
	}
	w.Render()
}
