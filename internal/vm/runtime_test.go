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

import "testing"

func TestExecuteAddProgram(t *testing.T) {
	code := []byte{byte(PUSH1), 10, byte(PUSH1), 32, byte(ADD), byte(STOP)}
	outcome, err := Execute(ExecParams{Code: code, Gas: 100000})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome.Reason != StopStop {
		t.Fatalf("reason = %d, want StopStop", outcome.Reason)
	}
}

func TestExecuteReturnsData(t *testing.T) {
	// PUSH1 0x2a; PUSH1 0; MSTORE; PUSH1 32; PUSH1 0; RETURN.
	code := []byte{
		byte(PUSH1), 0x2a,
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 32,
		byte(PUSH1), 0,
		byte(RETURN),
	}
	outcome, err := Execute(ExecParams{Code: code, Gas: 100000})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome.Reason != StopReturn {
		t.Fatalf("reason = %d, want StopReturn", outcome.Reason)
	}
	if len(outcome.ReturnData) != 32 || outcome.ReturnData[31] != 0x2a {
		t.Errorf("unexpected return data: %x", outcome.ReturnData)
	}
}

func TestExecuteUsesSharedCacheByDefault(t *testing.T) {
	code := []byte{byte(PUSH1), 1, byte(STOP)}
	before := sharedCache.Len()
	if _, err := Execute(ExecParams{Code: code, Gas: 100000}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sharedCache.Len() <= before && sharedCache.Len() == 0 {
		t.Error("expected the shared plan cache to gain an entry")
	}
}
