// errors_test.go: tests for structured error construction and inspection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

func TestErrUnknownAlgorithm(t *testing.T) {
	err := NewErrUnknownAlgorithm("nope")
	if GetErrorCode(err) != ErrCodeUnknownAlgorithm {
		t.Errorf("code: got %s", GetErrorCode(err))
	}
	if !IsConfigError(err) {
		t.Error("unknown algorithm should be a config error")
	}
	ctx := GetErrorContext(err)
	if ctx["algorithm"] != "nope" {
		t.Errorf("context missing algorithm, got %v", ctx)
	}
}

func TestErrTableFullRetryable(t *testing.T) {
	err := NewErrTableFull(1024)
	if !IsTableFull(err) {
		t.Error("IsTableFull should match")
	}
	if !IsRetryable(err) {
		t.Error("table overflow is recovered by fallback, must be retryable")
	}
	if IsConfigError(err) {
		t.Error("table overflow is not a config error")
	}
}

func TestErrValidationMismatchContext(t *testing.T) {
	err := NewErrValidationMismatch(42, "min", 7, 8)
	if !IsValidationMismatch(err) {
		t.Error("IsValidationMismatch should match")
	}
	ctx := GetErrorContext(err)
	if ctx["key"] != int64(42) || ctx["field"] != "min" {
		t.Errorf("context: got %v", ctx)
	}
	if ctx["expected"] != int64(7) || ctx["got"] != int64(8) {
		t.Errorf("context values: got %v", ctx)
	}
}

func TestErrorHelpers_NilSafe(t *testing.T) {
	if IsTableFull(nil) || IsValidationMismatch(nil) || IsConfigError(nil) || IsRetryable(nil) {
		t.Error("helpers must be nil-safe")
	}
	if GetErrorCode(nil) != "" {
		t.Error("code of nil error must be empty")
	}
	if GetErrorContext(nil) != nil {
		t.Error("context of nil error must be nil")
	}
}
