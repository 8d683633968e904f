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
	"sync"

	"github.com/holiman/uint256"

	evmerrors "github.com/n42blockchain/evmcore/pkg/errors"
	"github.com/n42blockchain/evmcore/internal/vm/stack"
)

// Host supplies the account and block state an interpreter core does not
// own itself: balances, storage, code of other accounts, and nested
// call/create dispatch. A nil Host is valid for pure bytecode execution
// (arithmetic, memory, control flow); opcodes that need one fail with
// ErrNullPointer if none was supplied, matching spec.md's scoping of
// state access behind the host boundary rather than inside the core.
type Host interface {
	GetBalance(addr Address) uint256.Int
	GetCodeSize(addr Address) int
	GetCodeHash(addr Address) [32]byte
	GetStorage(addr Address, slot StorageSlot) uint256.Int
	SetStorage(addr Address, slot StorageSlot, val uint256.Int)
	GetTransientStorage(addr Address, slot StorageSlot) uint256.Int
	SetTransientStorage(addr Address, slot StorageSlot, val uint256.Int)
	BlockHash(number uint64) [32]byte
	EmitLog(addr Address, topics []uint256.Int, data []byte)
	SelfDestruct(addr, beneficiary Address)
}

// StopReason identifies why a frame's dispatch loop ended.
type StopReason int

const (
	StopNone StopReason = iota
	StopStop
	StopReturn
	StopRevert
	StopOutOfGas
	StopInvalidJump
	StopInvalidOpcode
	StopStackOverflow
	StopStackUnderflow
	StopOutOfBounds
	StopCallDepthExceeded
	StopError
)

// Outcome is the externally visible result of running a frame to
// completion.
type Outcome struct {
	Reason       StopReason
	ReturnData   []byte
	GasUsed      uint64
	GasRemaining uint64
	GasRefund    uint64
	Err          error
}

// Frame is one activation of the interpreter: a plan being executed, a
// stack, word-addressable memory, a gas counter, and the mutable cursor
// state dispatch advances. Frames are pooled; call NewFrame/ReleaseFrame
// rather than constructing one directly.
type Frame struct {
	plan   *Plan
	stack  *stack.Stack
	memory *Memory
	rstack *stack.ReturnStack

	gas       int64 // signed so an overdraft is detectable before it underflows
	gasRefund uint64

	pc     int // stream index, not bytecode offset
	calldata []byte

	depth   int
	address Address
	caller  Address
	value   uint256.Int

	host        Host
	accessList  *AccessList
	tracer      Tracer
	cfg         *Config

	returnData []byte
	stopReason StopReason
	stopErr    error
	steps      uint64
}

var framePool = sync.Pool{
	New: func() interface{} { return &Frame{} },
}

// FrameParams bundles the inputs needed to start one execution.
type FrameParams struct {
	Plan       *Plan
	Gas        uint64
	Calldata   []byte
	Address    Address
	Caller     Address
	Value      uint256.Int
	Depth      int
	Host       Host
	AccessList *AccessList
	Tracer     Tracer
	Config     *Config

	// SharedMemory and MemoryCheckpoint let a child call frame append to
	// its parent's backing buffer instead of allocating its own
	// (spec.md §5).
	SharedMemory     []byte
	MemoryCheckpoint int
}

// NewFrame acquires a pooled Frame configured to run p from PC 0.
func NewFrame(params FrameParams) *Frame {
	f := framePool.Get().(*Frame)
	cfg := configOrDefault(params.Config)
	f.plan = params.Plan
	f.stack = stack.New()
	f.stack.SetCapacity(cfg.StackCapacity)
	f.memory = NewMemory(cfg.MemoryLimit)
	if params.SharedMemory != nil {
		f.memory.SetCheckpoint(params.SharedMemory, params.MemoryCheckpoint)
	}
	f.rstack = stack.NewReturnStack()
	f.gas = int64(params.Gas)
	f.gasRefund = 0
	f.pc = 0
	f.calldata = params.Calldata
	f.depth = params.Depth
	f.address = params.Address
	f.caller = params.Caller
	f.value = params.Value
	f.host = params.Host
	f.accessList = params.AccessList
	f.tracer = params.Tracer
	f.cfg = cfg
	f.returnData = nil
	f.stopReason = StopNone
	f.stopErr = nil
	f.steps = 0
	return f
}

// ReleaseFrame returns f's pooled components and the frame itself to
// their pools. Callers must not use f afterward.
func ReleaseFrame(f *Frame) {
	stack.ReturnNormalStack(f.stack)
	stack.ReturnRStack(f.rstack)
	f.memory.Release()
	f.stack = nil
	f.rstack = nil
	f.memory = nil
	f.plan = nil
	f.host = nil
	f.tracer = nil
	framePool.Put(f)
}

// Run dispatches instructions from the frame's current PC until a
// terminal handler sets a stop reason, gas is exhausted, or a block-entry
// check fails. It implements the direct-threaded-style loop spec.md §5
// describes, approximated with a central Go loop over handler function
// values since Go does not guarantee tail-call elimination.
func (f *Frame) Run() Outcome {
	startGas := f.gas
	lastBlock := -1
	// Empty code (an account with no bytecode) produces an empty plan;
	// there is no instruction to dispatch and execution is an immediate
	// STOP rather than an index into an empty blockAt.
	if f.plan.Len() == 0 {
		f.stopReason = StopStop
	}
	for f.stopReason == StopNone {
		block := f.plan.blockAt[f.pc]
		if block != lastBlock {
			if err := f.checkBlock(block); err != nil {
				f.fail(err)
				break
			}
			lastBlock = block
		}

		instr := f.plan.Instruction(f.pc)
		if f.tracer != nil {
			f.tracer.OnStep(f, instr)
		}
		f.steps++

		next, err := instr.Handler(f, instr)
		if err != nil {
			f.fail(err)
			break
		}
		if f.stopReason != StopNone {
			break
		}
		if next != f.pc+1 {
			lastBlock = -1 // a jump re-enters its target block, even the one it left
		}
		f.pc = next
		if f.pc >= f.plan.Len() {
			f.stopReason = StopStop
			break
		}
	}

	used := uint64(startGas - f.gas)
	remaining := uint64(0)
	if f.gas > 0 {
		remaining = uint64(f.gas)
	}
	return Outcome{
		Reason:       f.stopReason,
		ReturnData:   f.returnData,
		GasUsed:      used,
		GasRemaining: remaining,
		GasRefund:    f.gasRefund,
		Err:          f.stopErr,
	}
}

// checkBlock charges the given block's static gas and verifies the stack
// has enough depth and headroom for the whole block in one check. Run
// calls this once per block, on the instruction that enters it, rather
// than per instruction.
func (f *Frame) checkBlock(blockIdx int) error {
	meta := f.plan.blocks[blockIdx]
	if f.gas < int64(meta.GasCost) {
		return evmerrors.ErrOutOfGas
	}
	depth := f.stack.Len()
	if depth < meta.MinStack {
		return evmerrors.ErrStackUnderflow
	}
	if depth+meta.MaxStack > f.stack.Cap() {
		return evmerrors.ErrStackOverflow
	}
	f.gas -= int64(meta.GasCost)
	return nil
}

func (f *Frame) fail(err error) {
	f.stopErr = err
	switch {
	case errIs(err, evmerrors.ErrOutOfGas):
		f.stopReason = StopOutOfGas
	case errIs(err, evmerrors.ErrInvalidJump):
		f.stopReason = StopInvalidJump
	case errIs(err, evmerrors.ErrInvalidOpcode):
		f.stopReason = StopInvalidOpcode
	case errIs(err, evmerrors.ErrStackOverflow):
		f.stopReason = StopStackOverflow
	case errIs(err, evmerrors.ErrStackUnderflow):
		f.stopReason = StopStackUnderflow
	case errIs(err, evmerrors.ErrOutOfBounds), errIs(err, evmerrors.ErrMemoryLimitExceeded):
		f.stopReason = StopOutOfBounds
	case errIs(err, evmerrors.ErrCallDepthExceeded):
		f.stopReason = StopCallDepthExceeded
	default:
		f.stopReason = StopError
	}
}

func errIs(err, target error) bool { return evmerrors.Is(err, target) }

// chargeGas deducts a dynamic gas cost a handler computed beyond the
// block's precomputed static total (memory expansion, hashing,
// access-list warm/cold lookups, exponent byte length). It is the only
// place outside checkBlock that touches the gas counter.
func (f *Frame) chargeGas(cost uint64) error {
	if f.gas < int64(cost) {
		return evmerrors.ErrOutOfGas
	}
	f.gas -= int64(cost)
	return nil
}

// PC returns the frame's current stream index.
func (f *Frame) PC() int { return f.pc }

// Gas returns the gas remaining. It never goes negative: checkBlock and
// chargeGas refuse a deduction larger than what remains.
func (f *Frame) Gas() int64 { return f.gas }

// Depth returns the call depth this frame is executing at.
func (f *Frame) Depth() int { return f.depth }

// StackLen returns the number of items currently on the stack.
func (f *Frame) StackLen() int { return f.stack.Len() }

// StackSnapshot copies the current stack contents, bottom first, for
// tracer output. It allocates and is not meant for the hot path.
func (f *Frame) StackSnapshot() []uint256.Int {
	n := f.stack.Len()
	out := make([]uint256.Int, n)
	for i := 0; i < n; i++ {
		out[i] = *f.stack.Get(i)
	}
	return out
}

// MemSize returns the current memory size in bytes.
func (f *Frame) MemSize() int { return f.memory.Size() }

// Plan returns the plan this frame is executing.
func (f *Frame) Plan() *Plan { return f.plan }

// Stop records a terminal stop reason with no error, used by handlers
// for the clean-exit opcodes (STOP, RETURN, REVERT).
func (f *Frame) Stop(reason StopReason, returnData []byte) {
	f.stopReason = reason
	f.returnData = returnData
}

// RefundGas adds to the frame's gas refund counter (e.g. SSTORE clearing
// a slot back to zero).
func (f *Frame) RefundGas(amount uint64) { f.gasRefund += amount }

// Steps returns how many instructions this frame has dispatched so far.
func (f *Frame) Steps() uint64 { return f.steps }

func configOrDefault(c *Config) *Config {
	if c == nil {
		return DefaultConfig()
	}
	return c
}
