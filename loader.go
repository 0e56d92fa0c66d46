// loader.go: gzipped CSV dataset loading into a frozen row table
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// LoadDataset materialises a gzip-compressed CSV dataset into a RowStore.
//
// The expected format is a header line "key,val" followed by one
// "<int64>,<int64>" row per line. The row count is not known up front, so
// rows are buffered while streaming and copied into the table in one pass;
// the returned table is frozen and safe for concurrent reads.
//
// A row whose key equals KeyEmpty is rejected: that bit pattern marks
// empty slots in the lock-free table and cannot be represented.
func LoadDataset(path string) (*RowStore, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewErrDatasetMissing(path)
		}
		return nil, NewErrDatasetLoad(path, err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, NewErrDatasetLoad(path, err)
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = 2
	r.ReuseRecord = true

	// header
	header, err := r.Read()
	if err != nil {
		return nil, NewErrDatasetLoad(path, err)
	}
	if header[0] != "key" || header[1] != "val" {
		return nil, NewErrDatasetLoad(path, fmt.Errorf("unexpected header %q,%q", header[0], header[1]))
	}

	var cells []int64
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewErrDatasetLoad(path, err)
		}
		key, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, NewErrDatasetLoad(path, fmt.Errorf("row %d: bad key: %w", row, err))
		}
		if key == KeyEmpty {
			return nil, NewErrReservedKey(path, row)
		}
		val, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, NewErrDatasetLoad(path, fmt.Errorf("row %d: bad value: %w", row, err))
		}
		cells = append(cells, key, val)
		row++
	}

	table := NewRowStore(2, row)
	for r := 0; r < row; r++ {
		table.Write(r, 0, cells[2*r])
		table.Write(r, 1, cells[2*r+1])
	}
	return table, nil
}
