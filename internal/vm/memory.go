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
	"math"

	evmerrors "github.com/n42blockchain/evmcore/pkg/errors"
)

const wordSize = 32

// Memory is a growable, word-aligned, byte-addressable buffer. A child
// frame may share its parent's backing buffer above a checkpoint offset;
// Size always reports buffer length minus checkpoint (spec.md §3).
type Memory struct {
	store      []byte
	checkpoint int
	limit      int

	// ownsStore is true when store was obtained from the size-classed
	// pool in pool.go and may be returned to it on growth or release;
	// false when it was adopted from a parent frame via SetCheckpoint,
	// in which case the parent still owns and may be reading it.
	ownsStore bool

	// expansion cost cache: memoizes the last (words, cost) pair so
	// repeat expansion_cost queries at the same or smaller size are O(1).
	lastWords int
	lastCost  uint64
}

// NewMemory returns an empty Memory bounded by limit bytes (0 means no
// limit).
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

// Len returns the logical size of memory above the checkpoint.
func (m *Memory) Len() int {
	return len(m.store) - m.checkpoint
}

// Checkpoint returns the frame's base offset into the shared buffer.
func (m *Memory) Checkpoint() int { return m.checkpoint }

// SetCheckpoint adopts an existing buffer at the given offset, used when a
// child frame shares its parent's memory (spec.md §5).
func (m *Memory) SetCheckpoint(store []byte, checkpoint int) {
	m.store = store
	m.checkpoint = checkpoint
	m.ownsStore = false
	m.lastWords = 0
	m.lastCost = 0
}

// Truncate shrinks the buffer back to the checkpoint, used on child frame
// teardown.
func (m *Memory) Truncate() {
	m.store = m.store[:m.checkpoint]
}

func roundUpToWord(n int) int {
	return (n + wordSize - 1) / wordSize * wordSize
}

func wordsFor(n int) int {
	return roundUpToWord(n) / wordSize
}

// expansionCost computes the gas cost of growing memory to hold `words`
// 32-byte words, per the quadratic formula in spec.md §4.4:
// 3*words + floor(words^2/512). The result is the incremental cost over the
// last charged size (lastWords): a size not larger than that one costs 0.
func (m *Memory) expansionCost(words int) uint64 {
	if words <= m.lastWords {
		return 0
	}
	cost := wordCost(words) - wordCost(m.lastWords)
	m.lastWords = words
	m.lastCost = wordCost(words)
	return cost
}

func wordCost(words int) uint64 {
	w := uint64(words)
	return 3*w + (w*w)/512
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ExpansionCost reports what growing to hold byte offset+length would
// cost without performing the growth. It does not update the cache.
func (m *Memory) ExpansionCost(offset, length int) uint64 {
	if length == 0 {
		return 0
	}
	words := wordsFor(offset + length)
	if words <= m.lastWords {
		return 0
	}
	return wordCost(words) - wordCost(m.lastWords)
}

// ensure grows the buffer so offset+length bytes are addressable above
// the checkpoint, zero-filling new space, and returns the expansion
// gas cost. Growth rounds up to a whole number of words.
func (m *Memory) ensure(offset, length int) (uint64, error) {
	if length == 0 {
		return 0, nil
	}
	if offset < 0 || length < 0 || offset > math.MaxInt-length {
		return 0, evmerrors.ErrOutOfBounds
	}
	needed := offset + length
	words := wordsFor(needed)
	if m.limit > 0 && words*wordSize > m.limit {
		return 0, evmerrors.ErrMemoryLimitExceeded
	}
	cost := m.expansionCost(words)

	needAbs := m.checkpoint + words*wordSize
	if needAbs > len(m.store) {
		grown := GetMemory(needAbs)
		n := copy(grown, m.store)
		clearBytes(grown[n:]) // pooled buffers may carry a prior user's data
		if m.ownsStore {
			PutMemory(m.store)
		}
		m.store = grown
		m.ownsStore = true
	}
	return cost, nil
}

// Set writes data at offset, growing memory as needed, and returns the
// expansion gas cost.
func (m *Memory) Set(offset int, data []byte) (uint64, error) {
	cost, err := m.ensure(offset, len(data))
	if err != nil {
		return 0, err
	}
	copy(m.store[m.checkpoint+offset:], data)
	return cost, nil
}

// Set32 writes v as a 32-byte big-endian word at offset (MSTORE).
func (m *Memory) Set32(offset int, v [32]byte) (uint64, error) {
	return m.Set(offset, v[:])
}

// SetByte writes a single byte at offset (MSTORE8).
func (m *Memory) SetByte(offset int, b byte) (uint64, error) {
	return m.Set(offset, []byte{b})
}

// GetCopy returns a fresh copy of length bytes at offset, growing memory
// as needed first.
func (m *Memory) GetCopy(offset, length int) ([]byte, uint64, error) {
	if length == 0 {
		return nil, 0, nil
	}
	cost, err := m.ensure(offset, length)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, length)
	copy(out, m.store[m.checkpoint+offset:m.checkpoint+offset+length])
	return out, cost, nil
}

// GetPtr returns a slice into the live buffer (no copy); callers must
// treat it as read-only and not retain it past the next write.
func (m *Memory) GetPtr(offset, length int) ([]byte, uint64, error) {
	if length == 0 {
		return nil, 0, nil
	}
	cost, err := m.ensure(offset, length)
	if err != nil {
		return nil, 0, err
	}
	return m.store[m.checkpoint+offset : m.checkpoint+offset+length], cost, nil
}

// Size returns the current logical memory size in bytes. It is always a
// multiple of 32.
func (m *Memory) Size() int { return m.Len() }

// Reset empties memory for reuse within the same frame without returning
// the backing array to the pool.
func (m *Memory) Reset() {
	m.store = m.store[:m.checkpoint]
	m.lastWords = 0
	m.lastCost = 0
}

// Release returns the backing buffer to the size-classed pool in
// pool.go, if this Memory owns it, and clears the struct for reuse. A
// child frame's Memory adopted from a parent via SetCheckpoint does not
// own its buffer and is left untouched. Called by ReleaseFrame on frame
// teardown.
func (m *Memory) Release() {
	if m.ownsStore {
		PutMemory(m.store)
	}
	m.store = nil
	m.ownsStore = false
	m.checkpoint = 0
	m.limit = 0
	m.lastWords = 0
	m.lastCost = 0
}
