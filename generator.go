// generator.go: synthetic dataset generation with configurable distributions
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
)

// Distribution names accepted by the generator.
const (
	DistUniform     = "uniform"
	DistNormal      = "normal"
	DistExponential = "exponential"
)

// GeneratorConfig describes one synthetic dataset.
type GeneratorConfig struct {
	// NumRows is the total row count. Must be >= 1.
	NumRows int

	// NumGroups is the distinct group-key count. Must be >= 1 and <= NumRows.
	NumGroups int

	// Distribution picks how group keys are drawn: uniform, normal or
	// exponential. Default: uniform.
	Distribution string

	// Mean and StdDev parameterise the normal distribution over the group
	// index space. Defaults: NumGroups/2 and NumGroups/8.
	Mean   float64
	StdDev float64

	// Lambda parameterises the exponential distribution. Default: 5.0.
	Lambda float64

	// ValueRange bounds generated values to [0, ValueRange). Default: 32768.
	ValueRange int64

	// Seed makes generation reproducible. Default: a fixed seed.
	Seed uint64

	// Shards is the parallel generation fan-out. Default: 4.
	Shards int
}

// Validate normalizes the generator configuration.
func (c *GeneratorConfig) Validate() error {
	if c.NumRows < 1 {
		return NewErrInvalidConfig("num rows must be at least 1")
	}
	if c.NumGroups < 1 {
		return NewErrInvalidConfig("num groups must be at least 1")
	}
	if c.NumGroups > c.NumRows {
		return NewErrInvalidConfig("num groups cannot exceed num rows")
	}
	switch c.Distribution {
	case "":
		c.Distribution = DistUniform
	case DistUniform, DistNormal, DistExponential:
	default:
		return NewErrInvalidConfig("unknown distribution " + c.Distribution)
	}
	if c.Mean == 0 {
		c.Mean = float64(c.NumGroups) / 2
	}
	if c.StdDev <= 0 {
		c.StdDev = float64(c.NumGroups) / 8
	}
	if c.Lambda <= 0 {
		c.Lambda = 5.0
	}
	if c.ValueRange <= 0 {
		c.ValueRange = 32768
	}
	if c.Seed == 0 {
		c.Seed = 0x9e3779b97f4a7c15
	}
	if c.Shards <= 0 {
		c.Shards = 4
	}
	return nil
}

// ParseCount parses an integer count with an optional K/M/B/T suffix,
// e.g. "10K", "5M", "2000".
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty count")
	}
	mult := 1
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1_000
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1_000_000
		s = s[:len(s)-1]
	case 'B', 'b':
		mult = 1_000_000_000
		s = s[:len(s)-1]
	case 'T', 't':
		mult = 1_000_000_000_000
		s = s[:len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	return n * mult, nil
}

// xorshift64 is the generator's RNG state. Same algorithm the aggregation
// benchmarks use to build their tables; cheap, one independent state per
// shard, and reproducible from a seed.
type xorshift64 struct {
	state uint64
}

func (x *xorshift64) next() uint64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// float64unit returns a uniform float in [0, 1).
func (x *xorshift64) float64unit() float64 {
	return float64(x.next()>>11) / (1 << 53)
}

// splitmix64 scrambles a shard index into an independent RNG seed.
func splitmix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// groupIndex draws one group index under the configured distribution.
func (c *GeneratorConfig) groupIndex(rng *xorshift64) int {
	g := c.NumGroups
	switch c.Distribution {
	case DistNormal:
		// Box-Muller, one sample per call
		u1 := rng.float64unit()
		for u1 == 0 {
			u1 = rng.float64unit()
		}
		u2 := rng.float64unit()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		idx := int(c.Mean + c.StdDev*z)
		return ((idx % g) + g) % g
	case DistExponential:
		u := rng.float64unit()
		for u == 0 {
			u = rng.float64unit()
		}
		x := -math.Log(u) / c.Lambda
		idx := int(x * float64(g))
		return ((idx % g) + g) % g
	default:
		return int(rng.next() % uint64(g)) // #nosec G115 - g >= 1
	}
}

// Generate produces the dataset at dataPath and, when refPath is not
// empty, the matching reference aggregates at refPath. Shards generate
// their row ranges concurrently into memory buffers; the gzip streams are
// then written in shard order so output is deterministic for a fixed
// configuration.
func Generate(dataPath, refPath string, cfg GeneratorConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shards := cfg.Shards
	if shards > cfg.NumRows {
		shards = cfg.NumRows
	}
	bufs := make([]*bytes.Buffer, shards)
	refs := make([]*AggMap, shards)

	var g errgroup.Group
	rowsPerShard := cfg.NumRows / shards
	for shard := 0; shard < shards; shard++ {
		lo := shard * rowsPerShard
		hi := lo + rowsPerShard
		if shard == shards-1 {
			hi = cfg.NumRows
		}
		g.Go(func() error {
			rng := &xorshift64{state: splitmix64(cfg.Seed + uint64(lo))} // #nosec G115 - lo >= 0
			buf := &bytes.Buffer{}
			ref := NewAggMap()
			var line [2][]byte
			for r := lo; r < hi; r++ {
				key := int64(cfg.groupIndex(rng))
				val := int64(rng.next() % uint64(cfg.ValueRange)) // #nosec G115 - range > 0
				line[0] = strconv.AppendInt(line[0][:0], key, 10)
				line[1] = strconv.AppendInt(line[1][:0], val, 10)
				buf.Write(line[0])
				buf.WriteByte(',')
				buf.Write(line[1])
				buf.WriteByte('\n')
				ref.Absorb(key, IdentityAccumulator().AbsorbValue(val))
			}
			bufs[shard] = buf
			refs[shard] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeGzip(dataPath, "key,val\n", bufs); err != nil {
		return err
	}
	if refPath == "" {
		return nil
	}

	merged := refs[0]
	for i := 1; i < len(refs); i++ {
		merged.MergeFrom(refs[i])
	}
	return writeReference(refPath, merged)
}

// writeGzip streams header plus the shard buffers into one gzip member.
func writeGzip(path, header string, bufs []*bytes.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(header)); err != nil {
		_ = f.Close()
		return err
	}
	for _, buf := range bufs {
		if _, err := gz.Write(buf.Bytes()); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeReference writes the reference aggregates sorted by key.
func writeReference(path string, ref *AggMap) error {
	keys := make([]int64, 0, ref.Len())
	ref.ForEach(func(key int64, _ Accumulator) {
		keys = append(keys, key)
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	buf := &bytes.Buffer{}
	for _, key := range keys {
		acc, _ := ref.Get(key)
		fmt.Fprintf(buf, "%d,%d,%d,%d,%d\n", key, acc.Count, acc.Sum, acc.Min, acc.Max)
	}
	return writeGzip(path, "key,count,sum,min,max\n", []*bytes.Buffer{buf})
}
