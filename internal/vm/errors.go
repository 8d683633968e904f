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

package vm

import evmerrors "github.com/n42blockchain/evmcore/pkg/errors"

// ErrorCode is a stable, externally observable enumeration of why a
// frame stopped abnormally, independent of the underlying Go error's
// formatting. Host integrations that cross an FFI or RPC boundary should
// key behavior off this code, not off Outcome.Err's message.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	ErrCodeStackOverflow
	ErrCodeStackUnderflow
	ErrCodeOutOfGas
	ErrCodeInvalidJump
	ErrCodeInvalidOpcode
	ErrCodeOutOfBounds
	ErrCodeAllocationFailure
	ErrCodeBytecodeTooLarge
	ErrCodeExecutionStopped
	ErrCodeCallDepthExceeded
	ErrCodeNullPointer
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "none"
	case ErrCodeStackOverflow:
		return "stack_overflow"
	case ErrCodeStackUnderflow:
		return "stack_underflow"
	case ErrCodeOutOfGas:
		return "out_of_gas"
	case ErrCodeInvalidJump:
		return "invalid_jump"
	case ErrCodeInvalidOpcode:
		return "invalid_opcode"
	case ErrCodeOutOfBounds:
		return "out_of_bounds"
	case ErrCodeAllocationFailure:
		return "allocation_failure"
	case ErrCodeBytecodeTooLarge:
		return "bytecode_too_large"
	case ErrCodeExecutionStopped:
		return "execution_stopped"
	case ErrCodeCallDepthExceeded:
		return "call_depth_exceeded"
	case ErrCodeNullPointer:
		return "null_pointer"
	default:
		return "unknown"
	}
}

// CodeFor maps a wrapped interpreter error to its stable ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeNone
	case evmerrors.Is(err, evmerrors.ErrStackOverflow):
		return ErrCodeStackOverflow
	case evmerrors.Is(err, evmerrors.ErrStackUnderflow):
		return ErrCodeStackUnderflow
	case evmerrors.Is(err, evmerrors.ErrOutOfGas):
		return ErrCodeOutOfGas
	case evmerrors.Is(err, evmerrors.ErrInvalidJump):
		return ErrCodeInvalidJump
	case evmerrors.Is(err, evmerrors.ErrInvalidOpcode):
		return ErrCodeInvalidOpcode
	case evmerrors.Is(err, evmerrors.ErrOutOfBounds), evmerrors.Is(err, evmerrors.ErrMemoryLimitExceeded):
		return ErrCodeOutOfBounds
	case evmerrors.Is(err, evmerrors.ErrAllocationFailure):
		return ErrCodeAllocationFailure
	case evmerrors.Is(err, evmerrors.ErrBytecodeTooLarge):
		return ErrCodeBytecodeTooLarge
	case evmerrors.Is(err, evmerrors.ErrExecutionStopped), evmerrors.Is(err, evmerrors.ErrExecutionReverted):
		return ErrCodeExecutionStopped
	case evmerrors.Is(err, evmerrors.ErrCallDepthExceeded):
		return ErrCodeCallDepthExceeded
	case evmerrors.Is(err, evmerrors.ErrNullPointer):
		return ErrCodeNullPointer
	default:
		return ErrCodeExecutionStopped
	}
}

// ReasonFor maps a StopReason to its stable ErrorCode for cases where
// the caller only has the Outcome, not the original error value.
func ReasonFor(r StopReason) ErrorCode {
	switch r {
	case StopNone, StopStop, StopReturn:
		return ErrCodeNone
	case StopRevert:
		return ErrCodeExecutionStopped
	case StopOutOfGas:
		return ErrCodeOutOfGas
	case StopInvalidJump:
		return ErrCodeInvalidJump
	case StopInvalidOpcode:
		return ErrCodeInvalidOpcode
	case StopStackOverflow:
		return ErrCodeStackOverflow
	case StopStackUnderflow:
		return ErrCodeStackUnderflow
	case StopOutOfBounds:
		return ErrCodeOutOfBounds
	case StopCallDepthExceeded:
		return ErrCodeCallDepthExceeded
	default:
		return ErrCodeExecutionStopped
	}
}
