// validator.go: reference aggregate loading and output validation
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

// LoadReference reads a gzipped CSV of reference aggregates with header
// "key,count,sum,min,max" into a map keyed by group key.
func LoadReference(path string) (map[int64]Accumulator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewErrValidationLoad(path, err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, NewErrValidationLoad(path, err)
	}
	defer func() { _ = gz.Close() }()

	r := csv.NewReader(gz)
	r.FieldsPerRecord = 5
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, NewErrValidationLoad(path, err)
	}
	want := [5]string{"key", "count", "sum", "min", "max"}
	for i, name := range want {
		if header[i] != name {
			return nil, NewErrValidationLoad(path, fmt.Errorf("unexpected header column %d: %q", i, header[i]))
		}
	}

	ref := make(map[int64]Accumulator)
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewErrValidationLoad(path, err)
		}
		var fields [5]int64
		for i := 0; i < 5; i++ {
			fields[i], err = strconv.ParseInt(record[i], 10, 64)
			if err != nil {
				return nil, NewErrValidationLoad(path, fmt.Errorf("row %d, column %s: %w", row, want[i], err))
			}
		}
		ref[fields[0]] = Accumulator{Count: fields[1], Sum: fields[2], Min: fields[3], Max: fields[4]}
		row++
	}
	return ref, nil
}

// Validate compares aggregation output against reference aggregates.
// Validation passes iff, for every output row whose key appears in the
// reference, all four fields match exactly. The first failing field is
// returned as a structured mismatch error.
func Validate(rows []ResultRow, ref map[int64]Accumulator) error {
	for _, row := range rows {
		want, ok := ref[row.Key]
		if !ok {
			continue
		}
		if row.Count != want.Count {
			return NewErrValidationMismatch(row.Key, "count", want.Count, row.Count)
		}
		if row.Sum != want.Sum {
			return NewErrValidationMismatch(row.Key, "sum", want.Sum, row.Sum)
		}
		if row.Min != want.Min {
			return NewErrValidationMismatch(row.Key, "min", want.Min, row.Min)
		}
		if row.Max != want.Max {
			return NewErrValidationMismatch(row.Key, "max", want.Max, row.Max)
		}
	}
	return nil
}
