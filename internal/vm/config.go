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

// InlineLimit is the largest constant value the planner's fused
// PUSH+op instructions store directly in Instruction.Arg rather than in
// the plan's constants side-table.
const InlineLimit = ^uint64(0)

// Config bounds one execution: call depth, bytecode and stack size, and
// memory growth, plus whether a tracer should be attached by default.
type Config struct {
	MaxCallDepth    int
	MaxBytecodeSize int
	StackCapacity   int
	MemoryLimit     int
	TracerEnabled   bool
}

// DefaultConfig returns the limits a bare `vm.Execute` call runs under.
func DefaultConfig() *Config {
	return &Config{
		MaxCallDepth:    1024,
		MaxBytecodeSize: DefaultMaxBytecodeSize,
		StackCapacity:   stackMaxCapacity,
		MemoryLimit:     32 * 1024 * 1024,
		TracerEnabled:   false,
	}
}

// stackMaxCapacity mirrors stack.MaxCapacity without importing the
// subpackage purely for a constant; kept in sync by the stack package's
// own invariant that MaxCapacity is 1024 words.
const stackMaxCapacity = 1024
