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

import "github.com/holiman/uint256"

// handlerFn executes one planned instruction against a frame and reports
// where to continue: the next stream index. A handler that ends execution
// records the outcome on the frame itself (Frame.Stop) and Run ignores the
// returned index; a non-nil error also ends the run. Handlers live in
// handlers.go.
type handlerFn func(f *Frame, instr *Instruction) (next int, err error)

// Instruction is one entry of a Plan's instruction stream: the struct of
// arrays spec.md §4.3 describes as a "word-sized union" is realized here
// as a plain struct, since Go has no operator overloading to make a
// packed union ergonomic (SPEC_FULL.md, word type decision).
type Instruction struct {
	Op      OpCode
	Handler handlerFn

	// Arg is opcode-specific: an index into Plan.Constants for PUSH and
	// for the *Pointer fused variants; the pushed value itself for the
	// *Inline fused variants (for PushJumpInline/PushJumpiInline that
	// value is a bytecode offset, mapped through Plan.ResolveJump); or
	// unused (0) otherwise.
	Arg uint64

	// PC is the original bytecode offset this instruction was planned
	// from, used for PC opcode semantics and tracer output.
	PC int
}

// BlockMeta holds the block-level precomputed bounds spec.md §4.2
// describes: the total static gas cost of a basic block and the stack
// depth range execution of the block can reach, both computed once at
// plan time so the frame can charge gas and check stack bounds a single
// time per block instead of per instruction.
type BlockMeta struct {
	GasCost  uint64
	MinStack int
	MaxStack int
}

// Plan is the output of translating Bytecode into an executable
// instruction stream (spec.md §4.3). It is immutable once built and safe
// to share across concurrent frames executing the same bytecode.
type Plan struct {
	bytecode   *Bytecode
	instrs     []Instruction
	constants  []uint256.Int
	blockAt    []int // blockAt[streamIdx] = index into blocks
	blocks     []BlockMeta
	pcToStream map[int]int
}

// Len returns the number of instructions in the stream.
func (p *Plan) Len() int { return len(p.instrs) }

// BytecodeLen returns the length of the original bytecode this plan was
// translated from, used by the analysis cache's verify-on-hit check.
func (p *Plan) BytecodeLen() int { return p.bytecode.Len() }

// Bytecode returns the underlying analyzed bytecode.
func (p *Plan) Bytecode() *Bytecode { return p.bytecode }

// Instruction returns a pointer to the instruction at stream index idx.
func (p *Plan) Instruction(idx int) *Instruction { return &p.instrs[idx] }

// Constant returns the constant stored at table index idx.
func (p *Plan) Constant(idx uint64) *uint256.Int { return &p.constants[idx] }

// BlockMetaAt returns the precomputed bounds for the block containing
// stream index idx.
func (p *Plan) BlockMetaAt(idx int) BlockMeta {
	return p.blocks[p.blockAt[idx]]
}

// ResolveJump maps a bytecode program counter to a stream index, failing
// if pc is not both a JUMPDEST and the start of an instruction in this
// plan. This is the sole legal target check for JUMP/JUMPI (spec.md
// §4.1 and §8's jump-validity invariant).
func (p *Plan) ResolveJump(pc int) (int, bool) {
	if !p.bytecode.IsJumpdest(pc) {
		return 0, false
	}
	idx, ok := p.pcToStream[pc]
	return idx, ok
}
