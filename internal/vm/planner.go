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

// fusion describes one PUSH_n + op pair this planner collapses into a
// single synthetic instruction, grounded on the Fantom lfvm converter's
// pairwise fusion table. The inline variant carries the pushed constant
// directly in Instruction.Arg (when it fits a uint64); the pointer
// variant stores it in the plan's constant table instead.
type fusion struct {
	second  OpCode
	inline  OpCode
	pointer OpCode
}

var fusionTable = map[OpCode]fusion{
	ADD:   {ADD, PushAddInline, PushAddPointer},
	MUL:   {MUL, PushMulInline, PushMulPointer},
	DIV:   {DIV, PushDivInline, PushDivPointer},
	JUMP:  {JUMP, PushJumpInline, PushJumpPointer},
	JUMPI: {JUMPI, PushJumpiInline, PushJumpiPointer},
}

// planBuilder accumulates state while translating one Bytecode into a
// Plan. Block boundaries fall at the start of the program, at each
// JUMPDEST (which begins a new block), and immediately after a block
// terminator.
type planBuilder struct {
	bc         *Bytecode
	instrs     []Instruction
	constants  []uint256.Int
	pcToStream map[int]int
	blockAt    []int
	blocks     []BlockMeta

	blockStart int // stream index where the current block began
}

// Translate compiles analyzed bytecode into an executable Plan, fusing
// PUSH+op pairs and precomputing per-block gas and stack bounds
// (spec.md §4.1-§4.3).
func Translate(bc *Bytecode) (*Plan, error) {
	pb := &planBuilder{
		bc:         bc,
		pcToStream: make(map[int]int, bc.Len()),
	}

	code := bc.Code()
	for pc := 0; pc < len(code); {
		if !bc.IsOpStart(pc) {
			pc++
			continue
		}
		op := OpCode(code[pc])

		if bc.IsJumpdest(pc) && len(pb.instrs) > pb.blockStart {
			pb.closeBlock()
		}
		pb.pcToStream[pc] = len(pb.instrs)

		if IsPush(op) {
			size := PushSize(op)
			val := readPush(code, pc+1, size)
			nextPC := pc + 1 + size

			if fz, ok := fusionTable[op2(code, nextPC)]; ok {
				pb.emitFused(op, fz, val, pc)
				pc = nextPC + 1
				if opTable[fz.second].terminator {
					pb.closeBlock()
				}
				continue
			}

			pb.emitPush(val, pc)
			pc = nextPC
			continue
		}

		pb.emit(op, 0, pc)
		pc++
		if opTable[op].terminator {
			pb.closeBlock()
		}
	}
	pb.closeBlock()

	return &Plan{
		bytecode:   bc,
		instrs:     pb.instrs,
		constants:  pb.constants,
		blockAt:    pb.blockAt,
		blocks:     pb.blocks,
		pcToStream: pb.pcToStream,
	}, nil
}

// op2 returns the opcode at pc, or 0xff (SELFDESTRUCT, which is never a
// fusion second opcode) if pc runs past the end of the bytecode; this lets the fusion lookup at the
// tail of a program behave as "nothing to fuse with" without a separate
// bounds check at every call site.
func op2(code []byte, pc int) OpCode {
	if pc >= len(code) {
		return 0xff // SELFDESTRUCT sentinel: never a fusion second opcode
	}
	return OpCode(code[pc])
}

func readPush(code []byte, start, size int) uint256.Int {
	var buf [32]byte
	for i := 0; i < size; i++ {
		p := start + i
		if p < len(code) {
			buf[32-size+i] = code[p]
		}
	}
	var v uint256.Int
	v.SetBytes(buf[:])
	return v
}

func (pb *planBuilder) emit(op OpCode, arg uint64, pc int) {
	pb.instrs = append(pb.instrs, Instruction{
		Op:      op,
		Handler: handlerTable[op],
		Arg:     arg,
		PC:      pc,
	})
	pb.blockAt = append(pb.blockAt, len(pb.blocks))
}

// emitPush always routes the pushed constant through the constants
// table, keeping PUSH's Arg semantics (a constant-table index)
// unambiguous. Only fused instructions use the inline/pointer split,
// since they already have distinct opcodes to record which form applies.
func (pb *planBuilder) emitPush(val uint256.Int, pc int) {
	idx := uint64(len(pb.constants))
	pb.constants = append(pb.constants, val)
	pb.emit(OpCode(pb.bc.ByteAt(pc)), idx, pc)
}

func (pb *planBuilder) emitFused(pushOp OpCode, fz fusion, val uint256.Int, pc int) {
	if val.IsUint64() {
		pb.emit(fz.inline, val.Uint64(), pc)
		return
	}
	idx := uint64(len(pb.constants))
	pb.constants = append(pb.constants, val)
	pb.emit(fz.pointer, idx, pc)
}

// closeBlock finalizes BlockMeta for the instructions emitted since the
// last block boundary, per the stack-requirement/growth algorithm used
// by evmone-style analyzers: minStack is the deepest the block ever
// needs the caller's stack to already be, maxStack is the furthest the
// block can grow it, both relative to the stack depth on block entry.
func (pb *planBuilder) closeBlock() {
	if len(pb.instrs) == pb.blockStart {
		return
	}
	var gas uint64
	delta, minReq, maxReq := 0, 0, 0
	for i := pb.blockStart; i < len(pb.instrs); i++ {
		in, out := stackDelta(&pb.instrs[i])
		gas += opTable[pb.instrs[i].Op].baseGas
		if need := in - delta; need > minReq {
			minReq = need
		}
		delta += out - in
		if delta > maxReq {
			maxReq = delta
		}
	}
	blockIdx := len(pb.blocks)
	pb.blocks = append(pb.blocks, BlockMeta{GasCost: gas, MinStack: minReq, MaxStack: maxReq})
	for i := pb.blockStart; i < len(pb.instrs); i++ {
		pb.blockAt[i] = blockIdx
	}
	pb.blockStart = len(pb.instrs)
}

// stackDelta returns the (in, out) stack effect for instr, accounting
// for synthetic fused opcodes which do not appear in opTable's PUSH
// entries directly.
func stackDelta(instr *Instruction) (int, int) {
	info := opTable[instr.Op]
	return info.stackIn, info.stackOut
}
