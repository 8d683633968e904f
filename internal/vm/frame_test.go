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

import (
	"testing"

	evmerrors "github.com/n42blockchain/evmcore/pkg/errors"
)

func runCode(t *testing.T, code []byte, gas uint64) (Outcome, *Frame) {
	t.Helper()
	bc, err := NewBytecode(code, 0)
	if err != nil {
		t.Fatalf("NewBytecode: %v", err)
	}
	plan, err := Translate(bc)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	f := NewFrame(FrameParams{Plan: plan, Gas: gas})
	return f.Run(), f
}

func TestFrameAdd(t *testing.T) {
	code := []byte{byte(PUSH1), 1, byte(PUSH1), 1, byte(ADD), byte(STOP)}
	outcome, f := runCode(t, code, 100000)
	defer ReleaseFrame(f)

	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop; err=%v", outcome.Reason, outcome.Err)
	}
	if f.StackLen() != 1 {
		t.Fatalf("stack length = %d, want 1", f.StackLen())
	}
	if got := f.stack.Peek().Uint64(); got != 2 {
		t.Errorf("1+1 = %d, want 2", got)
	}
}

func TestFramePushAddFusion(t *testing.T) {
	// PUSH1 3; PUSH1 5 ADD (fused into PushAddInline); STOP.
	code := []byte{byte(PUSH1), 3, byte(PUSH1), 5, byte(ADD), byte(STOP)}
	bc, err := NewBytecode(code, 0)
	if err != nil {
		t.Fatalf("NewBytecode: %v", err)
	}
	plan, err := Translate(bc)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if plan.Len() != 3 {
		t.Fatalf("expected 3 planned instructions (PUSH, fused PUSH+ADD, STOP), got %d", plan.Len())
	}
	if plan.Instruction(1).Op != PushAddInline {
		t.Fatalf("second instruction should be the fused PUSH+ADD, got %v", plan.Instruction(1).Op)
	}

	f := NewFrame(FrameParams{Plan: plan, Gas: 100000})
	defer ReleaseFrame(f)
	outcome := f.Run()

	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop; err=%v", outcome.Reason, outcome.Err)
	}
	if got := f.stack.Peek().Uint64(); got != 8 {
		t.Errorf("3+5 = %d, want 8", got)
	}
	// Fusion must not change observable gas: PUSH1(3) + PUSH1(3) + ADD(3) +
	// STOP(0) unfused is 9, and the fused PushAddInline instruction is
	// charged PUSH's 3 plus ADD's 3 so the fused block still costs 9.
	if outcome.GasUsed != 9 {
		t.Errorf("gas used = %d, want 9 (fusion must not change observable gas)", outcome.GasUsed)
	}
}

func TestFrameValidJump(t *testing.T) {
	// PUSH1 4 JUMP (fused); INVALID (skipped); JUMPDEST; STOP.
	code := []byte{byte(PUSH1), 4, byte(JUMP), byte(INVALID), byte(JUMPDEST), byte(STOP)}
	outcome, f := runCode(t, code, 100000)
	defer ReleaseFrame(f)

	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop; err=%v", outcome.Reason, outcome.Err)
	}
}

func TestFrameInvalidJumpIntoPushData(t *testing.T) {
	// PUSH1 4 JUMP (fused), targeting pc 4: the first immediate byte of
	// the PUSH2 below, which happens to equal 0x5b (JUMPDEST) but is not
	// an opcode start.
	code := []byte{
		byte(PUSH1), 4,
		byte(JUMP),
		byte(PUSH2), 0x5b, 0x00,
		byte(STOP),
	}
	outcome, f := runCode(t, code, 100000)
	defer ReleaseFrame(f)

	if outcome.Reason != StopInvalidJump {
		t.Fatalf("reason = %d, want StopInvalidJump", outcome.Reason)
	}
	if !evmerrors.Is(outcome.Err, evmerrors.ErrInvalidJump) {
		t.Errorf("expected ErrInvalidJump, got %v", outcome.Err)
	}
}

func TestFrameOutOfGasAtZero(t *testing.T) {
	code := []byte{byte(PUSH1), 1, byte(STOP)}
	outcome, f := runCode(t, code, 0)
	defer ReleaseFrame(f)

	if outcome.Reason != StopOutOfGas {
		t.Fatalf("reason = %d, want StopOutOfGas", outcome.Reason)
	}
}

func TestFrameMemoryExpansionCost(t *testing.T) {
	// PUSH1 0xff; PUSH2 1000; MSTORE8; STOP.
	code := []byte{
		byte(PUSH1), 0xff,
		byte(PUSH2), 0x03, 0xe8,
		byte(MSTORE8),
		byte(STOP),
	}
	outcome, f := runCode(t, code, 1000)
	defer ReleaseFrame(f)

	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop; err=%v", outcome.Reason, outcome.Err)
	}
	if outcome.GasUsed != 107 {
		t.Errorf("gas used = %d, want 107 (9 static + 98 memory expansion)", outcome.GasUsed)
	}
}

func TestFrameEmptyCodeStopsCleanly(t *testing.T) {
	outcome, f := runCode(t, nil, 100000)
	defer ReleaseFrame(f)

	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop; err=%v", outcome.Reason, outcome.Err)
	}
	if outcome.GasUsed != 0 {
		t.Errorf("gas used = %d, want 0", outcome.GasUsed)
	}
}
