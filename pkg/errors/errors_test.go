// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.

package errors

import (
	"errors"
	"fmt"
	"testing"
)

// =============================================================================
// Error definition tests
// =============================================================================

func TestExecutionErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ErrStackOverflow, "stack overflow"},
		{ErrStackUnderflow, "stack underflow"},
		{ErrOutOfGas, "out of gas"},
		{ErrInvalidJump, "invalid jump destination"},
		{ErrInvalidOpcode, "invalid opcode"},
		{ErrOutOfBounds, "out of bounds access"},
		{ErrBytecodeTooLarge, "bytecode too large"},
		{ErrExecutionStopped, "execution stopped"},
		{ErrExecutionReverted, "execution reverted"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
		}
	}
	t.Log("✓ Execution errors are correctly defined")
}

func TestResourceErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ErrAllocationFailure, "allocation failure"},
		{ErrMemoryLimitExceeded, "memory limit exceeded"},
		{ErrCallDepthExceeded, "call depth exceeded"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
		}
	}
	t.Log("✓ Resource errors are correctly defined")
}

func TestProgrammingErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{ErrNullPointer, "null pointer"},
		{ErrInvalidHandle, "invalid handle"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
		}
	}
	t.Log("✓ Programming errors are correctly defined")
}

// =============================================================================
// Helper function tests
// =============================================================================

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}

	wrapped := Wrap(ErrOutOfGas, "frame execution failed")
	if wrapped.Error() != "frame execution failed: out of gas" {
		t.Errorf("unexpected wrapped message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, ErrOutOfGas) {
		t.Error("wrapped error should unwrap to ErrOutOfGas")
	}
	t.Log("✓ Wrap works correctly")
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}

	wrapped := Wrapf(ErrStackOverflow, "at pc=%d", 42)
	if wrapped.Error() != "at pc=42: stack overflow" {
		t.Errorf("unexpected wrapped message: %s", wrapped.Error())
	}
	t.Log("✓ Wrapf works correctly")
}

func TestIsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrInvalidJump)
	if !Is(wrapped, ErrInvalidJump) {
		t.Error("Is should find ErrInvalidJump in the chain")
	}

	var target error
	if As(wrapped, &target) {
		// errors.As requires target to be a pointer to a type implementing
		// error beyond the trivial `error` interface for meaningful
		// matching; this call only exercises that As delegates correctly.
		_ = target
	}
	t.Log("✓ Is/As delegate to the standard library correctly")
}

func TestNewAndErrorf(t *testing.T) {
	err := New("custom failure")
	if err.Error() != "custom failure" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	ferr := Errorf("failure at %d", 7)
	if ferr.Error() != "failure at 7" {
		t.Errorf("unexpected message: %s", ferr.Error())
	}
	t.Log("✓ New/Errorf work correctly")
}
