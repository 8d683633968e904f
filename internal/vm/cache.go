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
	"github.com/cespare/xxhash/v2"

	"github.com/n42blockchain/evmcore/internal/cache"
)

// DefaultAnalysisCacheSize is the default number of plans the cache
// keeps resident.
const DefaultAnalysisCacheSize = 1024

// AnalysisCache memoizes bytecode -> Plan translation keyed on a 64-bit
// non-cryptographic hash of the bytecode (spec.md §6). Collisions are
// resolved with a verify-on-hit check rather than a cryptographic key,
// trading a vanishingly small chance of a wasted re-translation for
// avoiding a full hash of every program on every lookup.
type AnalysisCache struct {
	lru *cache.LRU[uint64, *Plan]
}

// NewAnalysisCache returns a cache holding up to size plans.
func NewAnalysisCache(size int) *AnalysisCache {
	if size <= 0 {
		size = DefaultAnalysisCacheSize
	}
	return &AnalysisCache{lru: cache.NewLRU[uint64, *Plan](size)}
}

func bytecodeHash(code []byte) uint64 {
	return xxhash.Sum64(code)
}

// GetOrTranslate returns the cached Plan for code if present and valid,
// or translates, analyzes, and caches a new one otherwise.
func (c *AnalysisCache) GetOrTranslate(code []byte, cfg *Config) (*Plan, error) {
	cfg = configOrDefault(cfg)
	key := bytecodeHash(code)

	if plan, ok := c.lru.Get(key); ok && planMatches(plan, code) {
		recordCacheHit()
		return plan, nil
	}
	recordCacheMiss()

	bc, err := NewBytecode(code, cfg.MaxBytecodeSize)
	if err != nil {
		return nil, err
	}
	plan, err := Translate(bc)
	if err != nil {
		return nil, err
	}
	c.lru.Set(key, plan)
	return plan, nil
}

// planMatches is the verify-on-hit check: a hash collision between two
// different programs is accepted as a cache miss rather than silently
// returning the wrong plan (spec.md §9, Open Question 4).
func planMatches(plan *Plan, code []byte) bool {
	if plan.BytecodeLen() != len(code) {
		return false
	}
	stored := plan.Bytecode().Code()
	for i := range stored {
		if stored[i] != code[i] {
			return false
		}
	}
	return true
}

// Len returns the number of plans currently cached.
func (c *AnalysisCache) Len() int { return c.lru.Len() }

// Clear empties the cache.
func (c *AnalysisCache) Clear() { c.lru.Clear() }
