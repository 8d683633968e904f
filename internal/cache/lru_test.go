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

package cache

import "testing"

func TestLRUGetMissReturnsZeroValue(t *testing.T) {
	c := NewLRU[string, int](2)
	if v, ok := c.Get("missing"); ok || v != 0 {
		t.Fatalf("Get on empty cache = (%d, %v), want (0, false)", v, ok)
	}
}

func TestLRUSetAndGet(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a, so b becomes least recently used
	c.Set("c", 3)

	if !c.Contains("a") {
		t.Error("a should still be cached")
	}
	if c.Contains("b") {
		t.Error("b should have been evicted")
	}
	if !c.Contains("c") {
		t.Error("c should be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUSetExistingKeyUpdatesValueWithoutGrowing(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("a", 2)
	if v, _ := c.Peek("a"); v != 2 {
		t.Errorf("Peek(a) = %d, want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRUPeekDoesNotAffectRecency(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Peek("a") // peek must not count as a use
	c.Set("c", 3)

	if c.Contains("a") {
		t.Error("a should have been evicted: Peek must not refresh recency")
	}
	if !c.Contains("b") {
		t.Error("b should still be cached")
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) should report removal")
	}
	if c.Delete("a") {
		t.Error("Delete(a) a second time should report no-op")
	}
	if c.Contains("a") {
		t.Error("a should be gone after Delete")
	}

	c.Clear()
	if c.Len() != 0 || len(c.Keys()) != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestLRUKeysOrderedMostToLeastRecent(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a") // a becomes most recent

	keys := c.Keys()
	if len(keys) != 3 || keys[0] != "a" {
		t.Errorf("Keys() = %v, want most-recent-first starting with a", keys)
	}
}
