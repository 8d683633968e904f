// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

// Package errors defines the sentinel error values shared across the
// interpreter packages, plus small helpers for wrapping and inspecting
// them. This is a centralized location for error definitions to ensure
// consistency and avoid duplication across modules.
package errors

import (
	"errors"
	"fmt"
)

// =====================
// Execution Errors
// =====================
//
// A consequence of running bytecode. These unwind only the current frame
// and surface to the caller as a completed outcome, never a panic.

var (
	// ErrStackOverflow is returned when a push would exceed stack capacity.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned when a pop is attempted on an empty
	// (or insufficiently deep) stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrOutOfGas is returned when gas_remaining would go negative.
	ErrOutOfGas = errors.New("out of gas")

	// ErrInvalidJump is returned when a JUMP/JUMPI target is not a valid
	// JUMPDEST that is also an opcode start.
	ErrInvalidJump = errors.New("invalid jump destination")

	// ErrInvalidOpcode is returned when the stream encounters an opcode
	// with no registered handler.
	ErrInvalidOpcode = errors.New("invalid opcode")

	// ErrOutOfBounds is returned for reads/writes addressing past a
	// configured or structural bound.
	ErrOutOfBounds = errors.New("out of bounds access")

	// ErrBytecodeTooLarge is returned when bytecode exceeds the
	// configured maximum size.
	ErrBytecodeTooLarge = errors.New("bytecode too large")

	// ErrExecutionStopped is the sentinel for normal termination (STOP).
	// It is not a failure; callers check the outcome, not this value,
	// to tell success from error.
	ErrExecutionStopped = errors.New("execution stopped")

	// ErrExecutionReverted is returned when a REVERT is encountered; the
	// accompanying return data carries the revert reason, if any.
	ErrExecutionReverted = errors.New("execution reverted")
)

// =====================
// Resource Errors
// =====================
//
// Abort the current frame; the surrounding transaction context decides
// whether to retry or fail outright.

var (
	// ErrAllocationFailure is returned when the interpreter cannot obtain
	// memory it needs (e.g. a pooled buffer request that overflows available
	// capacity).
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrMemoryLimitExceeded is returned when memory growth would exceed
	// the configured memory limit.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrCallDepthExceeded is returned when a nested frame would exceed
	// the configured maximum call depth.
	ErrCallDepthExceeded = errors.New("call depth exceeded")
)

// =====================
// Programming Errors
// =====================
//
// Detected at the edge and returned as typed failures; internally these
// indicate a bug in the caller or the interpreter itself.

var (
	// ErrNullPointer is returned when a required handle (plan, frame,
	// bytecode) is nil at an API boundary.
	ErrNullPointer = errors.New("null pointer")

	// ErrInvalidHandle is returned when a caller passes a frame or plan
	// handle that has already been destroyed or does not belong to this
	// cache/executor.
	ErrInvalidHandle = errors.New("invalid handle")
)

// =====================
// Helper Functions
// =====================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Errorf formats according to a format specifier and returns the string as
// a value that satisfies error.
func Errorf(format string, a ...interface{}) error {
	return fmt.Errorf(format, a...)
}
