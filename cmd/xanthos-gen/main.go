// main.go: synthetic dataset generator for the aggregation benchmarks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/xanthos"
)

var (
	distribution string
	numRowsStr   string
	numGroupsStr string
	mean         float64
	stddev       float64
	lambda       float64
	seed         uint64
	outDir       string
	outPath      string
	refPath      string
	shards       int
)

func init() {
	flag.StringVar(&distribution, "distribution", "uniform", "distribution type: uniform, normal, or exponential")
	flag.StringVar(&numRowsStr, "num-rows", "1M", "number of rows (e.g. 1M, 500K)")
	flag.StringVar(&numGroupsStr, "num-groups", "1K", "number of groups (e.g. 1K, 100)")
	flag.Float64Var(&mean, "mean", 0, "mean for normal distribution (default: num-groups/2)")
	flag.Float64Var(&stddev, "stddev", 0, "standard deviation for normal distribution (default: num-groups/8)")
	flag.Float64Var(&lambda, "lambda", 5.0, "lambda for exponential distribution")
	flag.Uint64Var(&seed, "seed", 0, "RNG seed (0 = fixed default)")
	flag.StringVar(&outDir, "out-dir", "data", "output directory for derived file names")
	flag.StringVar(&outPath, "out", "", "dataset output path (default: <out-dir>/<distribution>-<rows>-<groups>.csv.gz)")
	flag.StringVar(&refPath, "validation-out", "", "reference aggregates output path (default: alongside dataset)")
	flag.IntVar(&shards, "shards", 4, "parallel generation shards")
}

func main() {
	flag.Parse()

	numRows, err := xanthos.ParseCount(numRowsStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --num-rows: %v\n", err)
		os.Exit(2)
	}
	numGroups, err := xanthos.ParseCount(numGroupsStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --num-groups: %v\n", err)
		os.Exit(2)
	}
	if numGroups > numRows {
		fmt.Fprintln(os.Stderr, "--num-groups cannot be greater than --num-rows")
		os.Exit(2)
	}

	if outPath == "" {
		name := fmt.Sprintf("%s-%s-%s.csv.gz", distribution, strings.ToLower(numRowsStr), strings.ToLower(numGroupsStr))
		outPath = filepath.Join(outDir, name)
	}
	if refPath == "" {
		refPath = strings.TrimSuffix(outPath, ".csv.gz") + "-validation.csv.gz"
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	cfg := xanthos.GeneratorConfig{
		NumRows:      numRows,
		NumGroups:    numGroups,
		Distribution: distribution,
		Mean:         mean,
		StdDev:       stddev,
		Lambda:       lambda,
		Seed:         seed,
		Shards:       shards,
	}
	if err := xanthos.Generate(outPath, refPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d rows, %d groups)\n", outPath, numRows, numGroups)
	fmt.Printf("wrote %s\n", refPath)
}
