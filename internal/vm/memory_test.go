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

func TestMemoryExpansionCostAtOffset1000(t *testing.T) {
	m := NewMemory(0)
	cost, err := m.Set(1000, []byte{1})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cost != 98 {
		t.Errorf("expansion cost = %d, want 98", cost)
	}
	if m.Size() != 1024 {
		t.Errorf("memory size = %d, want 1024", m.Size())
	}
}

func TestMemoryRepeatQueryIsFree(t *testing.T) {
	m := NewMemory(0)
	if _, err := m.Set(0, []byte{1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cost, err := m.Set(0, []byte{2})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cost != 0 {
		t.Errorf("repeat write within the same word should cost 0 expansion gas, got %d", cost)
	}
}

func TestMemoryLimitExceeded(t *testing.T) {
	m := NewMemory(64)
	if _, err := m.Set(0, make([]byte, 32)); err != nil {
		t.Fatalf("Set within limit: %v", err)
	}
	if _, err := m.Set(64, make([]byte, 32)); err == nil {
		t.Fatal("expected ErrMemoryLimitExceeded")
	}
}

func TestMemoryGetCopyZeroFilled(t *testing.T) {
	m := NewMemory(0)
	data, _, err := m.GetCopy(0, 32)
	if err != nil {
		t.Fatalf("GetCopy: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 on first read", i, b)
		}
	}
}

func TestWordCostFormula(t *testing.T) {
	cases := []struct {
		words int
		want  uint64
	}{
		{0, 0},
		{1, 3},
		{32, 98},
		{512, 2048},
	}
	for _, c := range cases {
		if got := wordCost(c.words); got != c.want {
			t.Errorf("wordCost(%d) = %d, want %d", c.words, got, c.want)
		}
	}
}
