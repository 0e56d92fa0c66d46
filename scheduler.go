// scheduler.go: dynamic work distribution and phase fan-out
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync"
	"sync/atomic"
)

// rowScheduler hands out half-open row ranges [lo, hi) in chunks of batch
// rows. Any number of workers pull concurrently; a single atomic cursor is
// the only shared state, which makes the distribution dynamic (fast workers
// take more chunks) without locks.
type rowScheduler struct {
	cursor int64
	hi     int64
	batch  int64
}

func newRowScheduler(lo, hi, batch int) *rowScheduler {
	if batch < 1 {
		batch = 1
	}
	return &rowScheduler{cursor: int64(lo), hi: int64(hi), batch: int64(batch)}
}

// next claims the next chunk. ok is false once the range is exhausted.
func (s *rowScheduler) next() (lo, hi int, ok bool) {
	start := atomic.AddInt64(&s.cursor, s.batch) - s.batch
	if start >= s.hi {
		return 0, 0, false
	}
	end := start + s.batch
	if end > s.hi {
		end = s.hi
	}
	return int(start), int(end), true
}

// indexScheduler hands out single indices in [0, n), one at a time. Used
// for partition-parallel merges where the unit of work is one partition.
type indexScheduler struct {
	cursor int64
	n      int64
}

func newIndexScheduler(n int) *indexScheduler {
	return &indexScheduler{n: int64(n)}
}

func (s *indexScheduler) next() (int, bool) {
	i := atomic.AddInt64(&s.cursor, 1) - 1
	if i >= s.n {
		return 0, false
	}
	return int(i), true
}

// runWorkers fans fn out to p goroutines carrying thread ids 0..p-1 and
// joins them. The return is the phase barrier: every write a worker made
// happens-before anything the caller does next.
func runWorkers(p int, fn func(tid int)) {
	if p == 1 {
		fn(0)
		return
	}
	var wg sync.WaitGroup
	wg.Add(p)
	for tid := 0; tid < p; tid++ {
		go func(tid int) {
			defer wg.Done()
			fn(tid)
		}(tid)
	}
	wg.Wait()
}
