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

// TestAnalysisCacheLRUEviction exercises the capacity-2 scenario: after
// A, B, C are translated in order with a recency touch on A between B
// and C, B (the least recently used) is the one evicted, not A.
func TestAnalysisCacheLRUEviction(t *testing.T) {
	cache := NewAnalysisCache(2)
	cfg := DefaultConfig()

	progA := []byte{byte(PUSH1), 1, byte(PUSH1), 1, byte(ADD)}
	progB := []byte{byte(PUSH1), 2, byte(PUSH1), 2, byte(ADD)}
	progC := []byte{byte(PUSH1), 3, byte(PUSH1), 3, byte(ADD)}

	if _, err := cache.GetOrTranslate(progA, cfg); err != nil {
		t.Fatalf("translate A: %v", err)
	}
	if _, err := cache.GetOrTranslate(progB, cfg); err != nil {
		t.Fatalf("translate B: %v", err)
	}
	// Touch A again so B becomes the least recently used entry.
	if _, err := cache.GetOrTranslate(progA, cfg); err != nil {
		t.Fatalf("re-fetch A: %v", err)
	}
	if _, err := cache.GetOrTranslate(progC, cfg); err != nil {
		t.Fatalf("translate C: %v", err)
	}

	if cache.Len() != 2 {
		t.Fatalf("cache length = %d, want 2", cache.Len())
	}
	if !cache.lru.Contains(bytecodeHash(progA)) {
		t.Error("A should still be cached (recently touched)")
	}
	if cache.lru.Contains(bytecodeHash(progB)) {
		t.Error("B should have been evicted as the least recently used entry")
	}
	if !cache.lru.Contains(bytecodeHash(progC)) {
		t.Error("C should be cached (just inserted)")
	}
}

func TestAnalysisCacheReturnsSamePlanOnHit(t *testing.T) {
	cache := NewAnalysisCache(4)
	cfg := DefaultConfig()
	code := []byte{byte(PUSH1), 5, byte(PUSH1), 5, byte(ADD)}

	p1, err := cache.GetOrTranslate(code, cfg)
	if err != nil {
		t.Fatalf("first translate: %v", err)
	}
	p2, err := cache.GetOrTranslate(code, cfg)
	if err != nil {
		t.Fatalf("second translate: %v", err)
	}
	if p1 != p2 {
		t.Error("expected the identical cached *Plan on a hit")
	}
}

func TestPlanMatchesRejectsLengthMismatch(t *testing.T) {
	cache := NewAnalysisCache(4)
	cfg := DefaultConfig()
	code := []byte{byte(PUSH1), 5}

	plan, err := cache.GetOrTranslate(code, cfg)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if planMatches(plan, []byte{byte(PUSH1), 5, byte(STOP)}) {
		t.Error("plan should not match bytecode of a different length")
	}
}
