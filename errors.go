// errors.go: comprehensive error handling for xanthos aggregation runs
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for configuration, input loading, aggregation and validation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"strconv"

	"github.com/agilira/go-errors"
)

// Error codes for xanthos operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig    errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeUnknownAlgorithm errors.ErrorCode = "XANTHOS_UNKNOWN_ALGORITHM"
	ErrCodeInvalidThreads   errors.ErrorCode = "XANTHOS_INVALID_THREADS"

	// Input errors (2xxx)
	ErrCodeDatasetMissing errors.ErrorCode = "XANTHOS_DATASET_MISSING"
	ErrCodeDatasetLoad    errors.ErrorCode = "XANTHOS_DATASET_LOAD"
	ErrCodeReservedKey    errors.ErrorCode = "XANTHOS_RESERVED_KEY"

	// Aggregation errors (3xxx)
	ErrCodeTableFull errors.ErrorCode = "XANTHOS_TABLE_FULL"

	// Validation errors (4xxx)
	ErrCodeValidationLoad     errors.ErrorCode = "XANTHOS_VALIDATION_LOAD"
	ErrCodeValidationMismatch errors.ErrorCode = "XANTHOS_VALIDATION_MISMATCH"
)

// Common error messages
const (
	msgInvalidConfig      = "invalid configuration"
	msgUnknownAlgorithm   = "unknown aggregation algorithm"
	msgInvalidThreads     = "invalid thread count: must be at least 1"
	msgDatasetMissing     = "dataset file does not exist"
	msgDatasetLoad        = "failed to load dataset"
	msgReservedKey        = "dataset contains the reserved empty-slot key"
	msgTableFull          = "lock-free table is full"
	msgValidationLoad     = "failed to load validation reference"
	msgValidationMismatch = "aggregation output does not match reference"
)

// NewErrInvalidConfig creates an error for an unusable configuration.
func NewErrInvalidConfig(reason string) error {
	return errors.NewWithField(ErrCodeInvalidConfig, msgInvalidConfig, "reason", reason)
}

// NewErrUnknownAlgorithm creates an error for an unrecognized strategy name.
func NewErrUnknownAlgorithm(name string) error {
	return errors.NewWithContext(ErrCodeUnknownAlgorithm, msgUnknownAlgorithm, map[string]interface{}{
		"algorithm": name,
		"known":     StrategyNames(),
	})
}

// NewErrInvalidThreads creates an error for a non-positive thread count.
func NewErrInvalidThreads(n int) error {
	return errors.NewWithField(ErrCodeInvalidThreads, msgInvalidThreads, "num_threads", strconv.Itoa(n))
}

// NewErrDatasetMissing creates an error for an absent dataset path.
func NewErrDatasetMissing(path string) error {
	return errors.NewWithField(ErrCodeDatasetMissing, msgDatasetMissing, "path", path)
}

// NewErrDatasetLoad creates an error when reading or parsing a dataset fails.
func NewErrDatasetLoad(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeDatasetLoad, msgDatasetLoad).
		WithContext("path", path)
}

// NewErrReservedKey creates an error when a dataset row carries KeyEmpty,
// which the lock-free table cannot represent.
func NewErrReservedKey(path string, row int) error {
	return errors.NewWithContext(ErrCodeReservedKey, msgReservedKey, map[string]interface{}{
		"path": path,
		"row":  row,
	})
}

// NewErrTableFull creates an error when a lock-free upsert saw only foreign
// keys along a full probe cycle. Marked retryable: the caller recovers by
// re-running with a partitioned strategy, not by aborting the trial.
func NewErrTableFull(capacity int) error {
	return errors.NewWithField(ErrCodeTableFull, msgTableFull, "capacity", strconv.Itoa(capacity)).
		AsRetryable()
}

// NewErrValidationLoad creates an error when the reference file is unreadable.
func NewErrValidationLoad(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeValidationLoad, msgValidationLoad).
		WithContext("path", path)
}

// NewErrValidationMismatch creates an error describing the first failing
// (key, field, expected, got) tuple of a validation run.
func NewErrValidationMismatch(key int64, field string, expected, got int64) error {
	return errors.NewWithContext(ErrCodeValidationMismatch, msgValidationMismatch, map[string]interface{}{
		"key":      key,
		"field":    field,
		"expected": expected,
		"got":      got,
	})
}

// IsTableFull checks if the error is a lock-free table overflow.
func IsTableFull(err error) bool {
	return errors.HasCode(err, ErrCodeTableFull)
}

// IsValidationMismatch checks if the error is a validation mismatch.
func IsValidationMismatch(err error) bool {
	return errors.HasCode(err, ErrCodeValidationMismatch)
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidConfig) ||
		errors.HasCode(err, ErrCodeUnknownAlgorithm) ||
		errors.HasCode(err, ErrCodeInvalidThreads)
}

// IsRetryable checks if the error can be recovered from within the trial.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xErr *errors.Error
	if goerrors.As(err, &xErr) {
		return xErr.Context
	}
	return nil
}
