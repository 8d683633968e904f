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

// Package stack implements the fixed-capacity 256-bit word stack used by
// the frame interpreter.
package stack

import (
	"sync"

	"github.com/holiman/uint256"

	evmerrors "github.com/n42blockchain/evmcore/pkg/errors"
)

// MaxCapacity is the largest stack depth this implementation supports.
// Individual Stacks may be configured with a smaller logical capacity via
// SetCapacity, but the backing array is always this size so Stacks can be
// pooled and reused across configurations.
const MaxCapacity = 1024

// Stack is a fixed-capacity array of 256-bit words with a next_index
// cursor, per spec.md §3. It is not safe for concurrent use; each frame
// owns exactly one Stack for its lifetime.
type Stack struct {
	data     [MaxCapacity]uint256.Int
	next     int
	capacity int
}

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{capacity: MaxCapacity}
	},
}

// New returns an empty Stack from the reuse pool with the default
// (maximum) capacity. Thread-safe.
func New() *Stack {
	s := stackPool.Get().(*Stack)
	s.next = 0
	s.capacity = MaxCapacity
	return s
}

// ReturnNormalStack resets s and returns it to the reuse pool. A Stack may
// only be returned once. Thread-safe.
func ReturnNormalStack(s *Stack) {
	s.next = 0
	stackPool.Put(s)
}

// SetCapacity bounds future pushes to at most n slots (n <= MaxCapacity).
func (s *Stack) SetCapacity(n int) {
	if n <= 0 || n > MaxCapacity {
		n = MaxCapacity
	}
	s.capacity = n
}

// Cap returns the stack's configured capacity.
func (s *Stack) Cap() int { return s.capacity }

// Len returns the number of elements currently on the stack.
func (s *Stack) Len() int { return s.next }

// Reset empties the stack without returning it to the pool.
func (s *Stack) Reset() { s.next = 0 }

// Push is the unchecked push: it copies val onto the top of the stack.
// Callers inside a block whose bounds were already verified by the
// frame's block-entry check (spec.md §4.4) use this variant; it does not
// re-check capacity.
func (s *Stack) Push(val *uint256.Int) {
	s.data[s.next] = *val
	s.next++
}

// PushN pushes each of vals in order (vals[0] ends up deepest).
func (s *Stack) PushN(vals ...uint256.Int) {
	for i := range vals {
		s.data[s.next] = vals[i]
		s.next++
	}
}

// Pop is the unchecked pop: it returns a pointer to the top element and
// decrements the cursor. The pointer is valid only until the next push.
func (s *Stack) Pop() *uint256.Int {
	s.next--
	return &s.data[s.next]
}

// Peek returns a pointer to the top element without removing it.
func (s *Stack) Peek() *uint256.Int {
	return &s.data[s.next-1]
}

// Back returns a pointer to the n-th element from the top; Back(0) is
// equivalent to Peek().
func (s *Stack) Back(n int) *uint256.Int {
	return &s.data[s.next-1-n]
}

// Swap exchanges the top element with the n-th element below it (n >= 1).
func (s *Stack) Swap(n int) {
	top := s.next - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// Dup duplicates the n-th element from the top (n >= 1) onto the top of
// the stack.
func (s *Stack) Dup(n int) {
	s.data[s.next] = s.data[s.next-n]
	s.next++
}

// Get returns a pointer to the element at bottom-indexed position i.
func (s *Stack) Get(i int) *uint256.Int { return &s.data[i] }

// TryPush is the checked push used at frame entry and outside a
// known-safe block: it returns ErrStackOverflow instead of corrupting
// memory when the stack is already at capacity.
func (s *Stack) TryPush(val *uint256.Int) error {
	if s.next >= s.capacity {
		return evmerrors.ErrStackOverflow
	}
	s.Push(val)
	return nil
}

// TryPop is the checked pop used at frame entry and outside a known-safe
// block.
func (s *Stack) TryPop() (*uint256.Int, error) {
	if s.next == 0 {
		return nil, evmerrors.ErrStackUnderflow
	}
	return s.Pop(), nil
}

// ReturnStack is the growable uint32 stack used to remember return
// addresses for subroutine-style call conventions built on top of JUMP.
type ReturnStack struct {
	data []uint32
}

var returnStackPool = sync.Pool{
	New: func() interface{} {
		return &ReturnStack{data: make([]uint32, 0, 16)}
	},
}

// NewReturnStack returns an empty ReturnStack from the reuse pool.
func NewReturnStack() *ReturnStack {
	rs := returnStackPool.Get().(*ReturnStack)
	rs.data = rs.data[:0]
	return rs
}

// ReturnRStack resets rs and returns it to the reuse pool.
func ReturnRStack(rs *ReturnStack) {
	rs.data = rs.data[:0]
	returnStackPool.Put(rs)
}

// Push appends v to the top of the return stack.
func (rs *ReturnStack) Push(v uint32) {
	rs.data = append(rs.data, v)
}

// Pop removes and returns the top of the return stack.
func (rs *ReturnStack) Pop() uint32 {
	v := rs.data[len(rs.data)-1]
	rs.data = rs.data[:len(rs.data)-1]
	return v
}

// Data returns the return stack contents, bottom first.
func (rs *ReturnStack) Data() []uint32 { return rs.data }
