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
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	evmerrors "github.com/n42blockchain/evmcore/pkg/errors"
)

// handlerTable maps every opcode to the function that executes it.
// Opcodes spec.md explicitly scopes out (inter-contract call semantics,
// full hardfork gas schedules) resolve to opUnsupported so dispatch
// always has a defined handler; a host-specific build can replace single
// entries in this table without touching the dispatch loop.
var handlerTable [256]handlerFn

func init() {
	for i := range handlerTable {
		handlerTable[i] = opUnsupported
	}

	handlerTable[STOP] = opStop
	handlerTable[ADD] = opAdd
	handlerTable[MUL] = opMul
	handlerTable[SUB] = opSub
	handlerTable[DIV] = opDiv
	handlerTable[SDIV] = opSDiv
	handlerTable[MOD] = opMod
	handlerTable[SMOD] = opSMod
	handlerTable[ADDMOD] = opAddMod
	handlerTable[MULMOD] = opMulMod
	handlerTable[EXP] = opExp
	handlerTable[SIGNEXTEND] = opSignExtend

	handlerTable[LT] = opLt
	handlerTable[GT] = opGt
	handlerTable[SLT] = opSlt
	handlerTable[SGT] = opSgt
	handlerTable[EQ] = opEq
	handlerTable[ISZERO] = opIsZero
	handlerTable[AND] = opAnd
	handlerTable[OR] = opOr
	handlerTable[XOR] = opXor
	handlerTable[NOT] = opNot
	handlerTable[BYTE] = opByte
	handlerTable[SHL] = opShl
	handlerTable[SHR] = opShr
	handlerTable[SAR] = opSar

	handlerTable[SHA3] = opSha3

	handlerTable[ADDRESS] = opAddress
	handlerTable[CALLER] = opCaller
	handlerTable[CALLVALUE] = opCallValue
	handlerTable[CALLDATALOAD] = opCallDataLoad
	handlerTable[CALLDATASIZE] = opCallDataSize
	handlerTable[CALLDATACOPY] = opCallDataCopy
	handlerTable[CODESIZE] = opCodeSize
	handlerTable[CODECOPY] = opCodeCopy
	handlerTable[RETURNDATASIZE] = opReturnDataSize
	handlerTable[RETURNDATACOPY] = opReturnDataCopy
	handlerTable[GAS] = opGas
	handlerTable[PC] = opPC
	handlerTable[MSIZE] = opMSize

	handlerTable[BALANCE] = opBalance
	handlerTable[EXTCODESIZE] = opExtCodeSize
	handlerTable[EXTCODEHASH] = opExtCodeHash
	handlerTable[BLOCKHASH] = opBlockHash
	handlerTable[SLOAD] = opSLoad
	handlerTable[SSTORE] = opSStore
	handlerTable[TLOAD] = opTLoad
	handlerTable[TSTORE] = opTStore

	handlerTable[POP] = opPop
	handlerTable[MLOAD] = opMLoad
	handlerTable[MSTORE] = opMStore
	handlerTable[MSTORE8] = opMStore8
	handlerTable[MCOPY] = opMCopy

	handlerTable[JUMP] = opJump
	handlerTable[JUMPI] = opJumpi
	handlerTable[JUMPDEST] = opNoop

	handlerTable[PUSH0] = opPush0
	for n := 1; n <= 32; n++ {
		handlerTable[PUSH1+OpCode(n-1)] = opPush
	}
	for n := 1; n <= 16; n++ {
		handlerTable[DUP1+OpCode(n-1)] = makeDup(n)
	}
	for n := 1; n <= 16; n++ {
		handlerTable[SWAP1+OpCode(n-1)] = makeSwap(n)
	}
	for n := 0; n <= 4; n++ {
		handlerTable[LOG0+OpCode(n)] = makeLog(n)
	}

	handlerTable[RETURN] = opReturn
	handlerTable[REVERT] = opRevert
	handlerTable[INVALID] = opInvalid
	handlerTable[SELFDESTRUCT] = opSelfDestruct

	handlerTable[PushAddInline] = opPushAddInline
	handlerTable[PushMulInline] = opPushMulInline
	handlerTable[PushDivInline] = opPushDivInline
	handlerTable[PushJumpInline] = opPushJumpInline
	handlerTable[PushJumpiInline] = opPushJumpiInline
	handlerTable[PushAddPointer] = opPushAddPointer
	handlerTable[PushMulPointer] = opPushMulPointer
	handlerTable[PushDivPointer] = opPushDivPointer
	handlerTable[PushJumpPointer] = opPushJumpPointer
	handlerTable[PushJumpiPointer] = opPushJumpiPointer
}

func opUnsupported(f *Frame, instr *Instruction) (int, error) {
	return 0, evmerrors.ErrInvalidOpcode
}

func opNoop(f *Frame, instr *Instruction) (int, error) { return f.pc + 1, nil }

func opStop(f *Frame, instr *Instruction) (int, error) {
	f.Stop(StopStop, nil)
	return 0, nil
}

func opInvalid(f *Frame, instr *Instruction) (int, error) {
	return 0, evmerrors.ErrInvalidOpcode
}

// --- arithmetic -------------------------------------------------------

func opAdd(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Add(x, y)
	return f.pc + 1, nil
}

func opMul(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Mul(x, y)
	return f.pc + 1, nil
}

func opSub(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Sub(x, y)
	return f.pc + 1, nil
}

func opDiv(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Div(x, y)
	return f.pc + 1, nil
}

func opSDiv(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.SDiv(x, y)
	return f.pc + 1, nil
}

func opMod(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Mod(x, y)
	return f.pc + 1, nil
}

func opSMod(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.SMod(x, y)
	return f.pc + 1, nil
}

func opAddMod(f *Frame, instr *Instruction) (int, error) {
	x, y, z := f.stack.Pop(), f.stack.Pop(), f.stack.Peek()
	z.AddMod(x, y, z)
	return f.pc + 1, nil
}

func opMulMod(f *Frame, instr *Instruction) (int, error) {
	x, y, z := f.stack.Pop(), f.stack.Pop(), f.stack.Peek()
	z.MulMod(x, y, z)
	return f.pc + 1, nil
}

func opExp(f *Frame, instr *Instruction) (int, error) {
	base, exp := f.stack.Pop(), f.stack.Peek()
	if err := f.chargeGas(expGasCost(exp)); err != nil {
		return 0, err
	}
	exp.Exp(base, exp)
	return f.pc + 1, nil
}

// expGasCost charges 50 gas per byte of the exponent in addition to the
// opcode's static base cost, matching the EIP-160 gas schedule.
func expGasCost(exp *uint256.Int) uint64 {
	bits := exp.BitLen()
	if bits == 0 {
		return 0
	}
	bytes := (bits + 7) / 8
	return uint64(bytes) * 50
}

func opSignExtend(f *Frame, instr *Instruction) (int, error) {
	back, val := f.stack.Pop(), f.stack.Peek()
	val.ExtendSign(val, back)
	return f.pc + 1, nil
}

// --- comparison and bitwise --------------------------------------------

func opLt(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return f.pc + 1, nil
}

func opGt(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return f.pc + 1, nil
}

func opSlt(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return f.pc + 1, nil
}

func opSgt(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return f.pc + 1, nil
}

func opEq(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return f.pc + 1, nil
}

func opIsZero(f *Frame, instr *Instruction) (int, error) {
	x := f.stack.Peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return f.pc + 1, nil
}

func opAnd(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.And(x, y)
	return f.pc + 1, nil
}

func opOr(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Or(x, y)
	return f.pc + 1, nil
}

func opXor(f *Frame, instr *Instruction) (int, error) {
	x, y := f.stack.Pop(), f.stack.Peek()
	y.Xor(x, y)
	return f.pc + 1, nil
}

func opNot(f *Frame, instr *Instruction) (int, error) {
	x := f.stack.Peek()
	x.Not(x)
	return f.pc + 1, nil
}

func opByte(f *Frame, instr *Instruction) (int, error) {
	pos, val := f.stack.Pop(), f.stack.Peek()
	val.Byte(pos)
	return f.pc + 1, nil
}

func opShl(f *Frame, instr *Instruction) (int, error) {
	shift, val := f.stack.Pop(), f.stack.Peek()
	val.Lsh(val, uint(shift.Uint64()))
	return f.pc + 1, nil
}

func opShr(f *Frame, instr *Instruction) (int, error) {
	shift, val := f.stack.Pop(), f.stack.Peek()
	val.Rsh(val, uint(shift.Uint64()))
	return f.pc + 1, nil
}

func opSar(f *Frame, instr *Instruction) (int, error) {
	shift, val := f.stack.Pop(), f.stack.Peek()
	val.SRsh(val, uint(shift.Uint64()))
	return f.pc + 1, nil
}

// --- hashing ------------------------------------------------------------

func opSha3(f *Frame, instr *Instruction) (int, error) {
	offset, length := f.stack.Pop(), f.stack.Peek()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	ln, err := memSize(length)
	if err != nil {
		return 0, err
	}

	data, cost, err := f.memory.GetPtr(off, ln)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost + sha3GasCost(ln)); err != nil {
		return 0, err
	}

	sum := GetHashBuffer()
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	*sum = h.Sum((*sum)[:0])
	length.SetBytes(*sum)
	PutHashBuffer(sum)
	return f.pc + 1, nil
}

func sha3GasCost(length int) uint64 {
	words := wordsFor(length)
	return uint64(words) * 6
}

// --- environment ---------------------------------------------------------

func opAddress(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetBytes(f.address[:])
	return pushUnchecked(f, v)
}

func opCaller(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetBytes(f.caller[:])
	return pushUnchecked(f, v)
}

func opCallValue(f *Frame, instr *Instruction) (int, error) {
	return pushUnchecked(f, f.value)
}

func opCallDataLoad(f *Frame, instr *Instruction) (int, error) {
	offset := f.stack.Peek()
	var buf [32]byte
	// An offset too large to fit an int is necessarily past the end of any
	// real calldata buffer, so it reads as all zero rather than being
	// narrowed (and possibly wrapped negative) via a raw int conversion.
	if off, ok := SafeUint256ToInt(offset); ok {
		for i := 0; i < 32; i++ {
			p := off + i
			if p >= 0 && p < len(f.calldata) {
				buf[i] = f.calldata[p]
			}
		}
	}
	offset.SetBytes(buf[:])
	return f.pc + 1, nil
}

func opCallDataSize(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(uint64(len(f.calldata)))
	return pushUnchecked(f, v)
}

func opCallDataCopy(f *Frame, instr *Instruction) (int, error) {
	destOffset, offset, length := f.stack.Pop(), f.stack.Pop(), f.stack.Pop()
	return copyToMemory(f, destOffset, offset, length, f.calldata)
}

func opCodeSize(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(uint64(f.plan.Bytecode().Len()))
	return pushUnchecked(f, v)
}

func opCodeCopy(f *Frame, instr *Instruction) (int, error) {
	destOffset, offset, length := f.stack.Pop(), f.stack.Pop(), f.stack.Pop()
	return copyToMemory(f, destOffset, offset, length, f.plan.Bytecode().Code())
}

func opReturnDataSize(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(uint64(len(f.returnData)))
	return pushUnchecked(f, v)
}

func opReturnDataCopy(f *Frame, instr *Instruction) (int, error) {
	destOffset, offset, length := f.stack.Pop(), f.stack.Pop(), f.stack.Pop()
	// Computed in 256-bit arithmetic, not uint64, so a pair of huge
	// offset/length values cannot wrap around (in either the 256-bit add
	// or a truncating conversion) and slip past this check.
	var end uint256.Int
	if end.AddOverflow(offset, length) || end.Gt(uint256.NewInt(uint64(len(f.returnData)))) {
		return 0, evmerrors.ErrOutOfBounds
	}
	return copyToMemory(f, destOffset, offset, length, f.returnData)
}

func copyToMemory(f *Frame, destOffset, offset, length *uint256.Int, src []byte) (int, error) {
	dst, err := memSize(destOffset)
	if err != nil {
		return 0, err
	}
	ln, err := memSize(length)
	if err != nil {
		return 0, err
	}
	// The source read offset is never the reason to fail: a source offset
	// too large to fit an int is necessarily past the end of src, which
	// reads as all zero, exactly like any other out-of-range offset below.
	off, srcInRange := SafeUint256ToInt(offset)

	cost, err := f.memory.ensure(dst, ln)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost + copyGasCost(ln)); err != nil {
		return 0, err
	}

	buf := GetByteSlice(ln)
	for i := 0; i < ln; i++ {
		p := off + i
		if srcInRange && p >= 0 && p < len(src) {
			buf[i] = src[p]
		} else {
			buf[i] = 0
		}
	}
	_, err = f.memory.Set(dst, buf)
	PutByteSlice(buf)
	if err != nil {
		return 0, err
	}
	return f.pc + 1, nil
}

func copyGasCost(length int) uint64 {
	return uint64(wordsFor(length)) * 3
}

func opGas(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	if f.gas > 0 {
		v.SetUint64(uint64(f.gas))
	}
	return pushUnchecked(f, v)
}

func opPC(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(uint64(instr.PC))
	return pushUnchecked(f, v)
}

func opMSize(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(uint64(f.memory.Size()))
	return pushUnchecked(f, v)
}

// --- state (host-backed) --------------------------------------------------

func opBalance(f *Frame, instr *Instruction) (int, error) {
	addrWord := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	addr := addressFromWord(addrWord)
	if err := f.chargeGas(uint64(f.accessList.TouchAddress(addr))); err != nil {
		return 0, err
	}
	bal := f.host.GetBalance(addr)
	addrWord.Set(&bal)
	return f.pc + 1, nil
}

func opExtCodeSize(f *Frame, instr *Instruction) (int, error) {
	addrWord := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	addr := addressFromWord(addrWord)
	if err := f.chargeGas(uint64(f.accessList.TouchAddress(addr))); err != nil {
		return 0, err
	}
	addrWord.SetUint64(uint64(f.host.GetCodeSize(addr)))
	return f.pc + 1, nil
}

func opExtCodeHash(f *Frame, instr *Instruction) (int, error) {
	addrWord := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	addr := addressFromWord(addrWord)
	if err := f.chargeGas(uint64(f.accessList.TouchAddress(addr))); err != nil {
		return 0, err
	}
	hash := f.host.GetCodeHash(addr)
	addrWord.SetBytes(hash[:])
	return f.pc + 1, nil
}

func opBlockHash(f *Frame, instr *Instruction) (int, error) {
	num := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	hash := f.host.BlockHash(num.Uint64())
	num.SetBytes(hash[:])
	return f.pc + 1, nil
}

func opSLoad(f *Frame, instr *Instruction) (int, error) {
	slotWord := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	slot := StorageSlot(slotWord.Bytes32())
	if err := f.chargeGas(uint64(f.accessList.TouchSlot(f.address, slot))); err != nil {
		return 0, err
	}
	val := f.host.GetStorage(f.address, slot)
	slotWord.Set(&val)
	return f.pc + 1, nil
}

func opSStore(f *Frame, instr *Instruction) (int, error) {
	slotWord, val := f.stack.Pop(), f.stack.Pop()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	slot := StorageSlot(slotWord.Bytes32())
	if err := f.chargeGas(uint64(f.accessList.TouchSlot(f.address, slot))); err != nil {
		return 0, err
	}
	f.host.SetStorage(f.address, slot, *val)
	return f.pc + 1, nil
}

func opTLoad(f *Frame, instr *Instruction) (int, error) {
	slotWord := f.stack.Peek()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	slot := StorageSlot(slotWord.Bytes32())
	val := f.host.GetTransientStorage(f.address, slot)
	slotWord.Set(&val)
	return f.pc + 1, nil
}

func opTStore(f *Frame, instr *Instruction) (int, error) {
	slotWord, val := f.stack.Pop(), f.stack.Pop()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	slot := StorageSlot(slotWord.Bytes32())
	f.host.SetTransientStorage(f.address, slot, *val)
	return f.pc + 1, nil
}

func addressFromWord(w *uint256.Int) Address {
	b := w.Bytes20()
	var a Address
	copy(a[:], b[:])
	return a
}

// --- stack and memory -----------------------------------------------------

func opPop(f *Frame, instr *Instruction) (int, error) {
	f.stack.Pop()
	return f.pc + 1, nil
}

func opPush0(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	f.stack.Push(&v)
	return f.pc + 1, nil
}

func opPush(f *Frame, instr *Instruction) (int, error) {
	f.stack.Push(f.plan.Constant(instr.Arg))
	return f.pc + 1, nil
}

func makeDup(n int) handlerFn {
	return func(f *Frame, instr *Instruction) (int, error) {
		f.stack.Dup(n)
		return f.pc + 1, nil
	}
}

func makeSwap(n int) handlerFn {
	return func(f *Frame, instr *Instruction) (int, error) {
		f.stack.Swap(n)
		return f.pc + 1, nil
	}
}

func opMLoad(f *Frame, instr *Instruction) (int, error) {
	offset := f.stack.Peek()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	data, cost, err := f.memory.GetPtr(off, 32)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost); err != nil {
		return 0, err
	}
	offset.SetBytes(data)
	return f.pc + 1, nil
}

func opMStore(f *Frame, instr *Instruction) (int, error) {
	offset, val := f.stack.Pop(), f.stack.Pop()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	cost, err := f.memory.Set32(off, val.Bytes32())
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost); err != nil {
		return 0, err
	}
	return f.pc + 1, nil
}

func opMStore8(f *Frame, instr *Instruction) (int, error) {
	offset, val := f.stack.Pop(), f.stack.Pop()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	// MSTORE8 only ever stores the low byte; narrowing val this way is not
	// the lossy conversion memSize guards against.
	cost, err := f.memory.SetByte(off, byte(val.Uint64()))
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost); err != nil {
		return 0, err
	}
	return f.pc + 1, nil
}

func opMCopy(f *Frame, instr *Instruction) (int, error) {
	dst, src, length := f.stack.Pop(), f.stack.Pop(), f.stack.Pop()
	ln, err := memSize(length)
	if err != nil {
		return 0, err
	}
	srcOff, err := memSize(src)
	if err != nil {
		return 0, err
	}
	dstOff, err := memSize(dst)
	if err != nil {
		return 0, err
	}
	data, cost1, err := f.memory.GetCopy(srcOff, ln)
	if err != nil {
		return 0, err
	}
	cost2, err := f.memory.Set(dstOff, data)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost1 + cost2 + copyGasCost(ln)); err != nil {
		return 0, err
	}
	return f.pc + 1, nil
}

// --- control flow -----------------------------------------------------

// resolveJump narrows a stack value to an int jump target. A value too
// large to fit an int can never name a valid JUMPDEST, so it fails the
// same way an in-range-but-unmarked destination does.
func resolveJump(f *Frame, v *uint256.Int) (int, bool) {
	n, ok := SafeUint256ToInt(v)
	if !ok {
		return 0, false
	}
	return f.plan.ResolveJump(n)
}

func opJump(f *Frame, instr *Instruction) (int, error) {
	dest := f.stack.Pop()
	idx, ok := resolveJump(f, dest)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}

func opJumpi(f *Frame, instr *Instruction) (int, error) {
	dest, cond := f.stack.Pop(), f.stack.Pop()
	if cond.IsZero() {
		return f.pc + 1, nil
	}
	idx, ok := resolveJump(f, dest)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}

func opReturn(f *Frame, instr *Instruction) (int, error) {
	offset, length := f.stack.Pop(), f.stack.Pop()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	ln, err := memSize(length)
	if err != nil {
		return 0, err
	}
	data, cost, err := f.memory.GetCopy(off, ln)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost); err != nil {
		return 0, err
	}
	f.Stop(StopReturn, data)
	return 0, nil
}

func opRevert(f *Frame, instr *Instruction) (int, error) {
	offset, length := f.stack.Pop(), f.stack.Pop()
	off, err := memSize(offset)
	if err != nil {
		return 0, err
	}
	ln, err := memSize(length)
	if err != nil {
		return 0, err
	}
	data, cost, err := f.memory.GetCopy(off, ln)
	if err != nil {
		return 0, err
	}
	if err := f.chargeGas(cost); err != nil {
		return 0, err
	}
	f.Stop(StopRevert, data)
	return 0, nil
}

func opSelfDestruct(f *Frame, instr *Instruction) (int, error) {
	beneficiary := f.stack.Pop()
	if f.host == nil {
		return 0, evmerrors.ErrNullPointer
	}
	f.host.SelfDestruct(f.address, addressFromWord(beneficiary))
	f.Stop(StopStop, nil)
	return 0, nil
}

func makeLog(topicCount int) handlerFn {
	return func(f *Frame, instr *Instruction) (int, error) {
		offset, length := f.stack.Pop(), f.stack.Pop()
		topics := make([]uint256.Int, topicCount)
		for i := 0; i < topicCount; i++ {
			topics[i] = *f.stack.Pop()
		}
		off, err := memSize(offset)
		if err != nil {
			return 0, err
		}
		ln, err := memSize(length)
		if err != nil {
			return 0, err
		}
		data, cost, err := f.memory.GetCopy(off, ln)
		if err != nil {
			return 0, err
		}
		if err := f.chargeGas(cost + uint64(len(data))*8); err != nil {
			return 0, err
		}
		if f.host == nil {
			return 0, evmerrors.ErrNullPointer
		}
		f.host.EmitLog(f.address, topics, data)
		return f.pc + 1, nil
	}
}

func pushUnchecked(f *Frame, v uint256.Int) (int, error) {
	f.stack.Push(&v)
	return f.pc + 1, nil
}

// memSize safely narrows a uint256 stack value used as a memory offset,
// length, or destination to an int via safemath.go's SafeUint256ToInt,
// failing with ErrOutOfBounds instead of letting a value above the
// platform's int range wrap into a negative index.
func memSize(v *uint256.Int) (int, error) {
	n, ok := SafeUint256ToInt(v)
	if !ok {
		return 0, evmerrors.ErrOutOfBounds
	}
	return n, nil
}

// --- fused instructions -------------------------------------------------

func opPushAddInline(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(instr.Arg)
	top := f.stack.Peek()
	top.Add(top, &v)
	return f.pc + 1, nil
}

func opPushMulInline(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(instr.Arg)
	top := f.stack.Peek()
	top.Mul(top, &v)
	return f.pc + 1, nil
}

func opPushDivInline(f *Frame, instr *Instruction) (int, error) {
	var v uint256.Int
	v.SetUint64(instr.Arg)
	top := f.stack.Peek()
	top.Div(&v, top)
	return f.pc + 1, nil
}

func opPushJumpInline(f *Frame, instr *Instruction) (int, error) {
	n, ok := SafeUint64ToInt(instr.Arg)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	idx, ok := f.plan.ResolveJump(n)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}

func opPushJumpiInline(f *Frame, instr *Instruction) (int, error) {
	cond := f.stack.Pop()
	if cond.IsZero() {
		return f.pc + 1, nil
	}
	n, ok := SafeUint64ToInt(instr.Arg)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	idx, ok := f.plan.ResolveJump(n)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}

func opPushAddPointer(f *Frame, instr *Instruction) (int, error) {
	v := f.plan.Constant(instr.Arg)
	top := f.stack.Peek()
	top.Add(top, v)
	return f.pc + 1, nil
}

func opPushMulPointer(f *Frame, instr *Instruction) (int, error) {
	v := f.plan.Constant(instr.Arg)
	top := f.stack.Peek()
	top.Mul(top, v)
	return f.pc + 1, nil
}

func opPushDivPointer(f *Frame, instr *Instruction) (int, error) {
	v := f.plan.Constant(instr.Arg)
	top := f.stack.Peek()
	top.Div(v, top)
	return f.pc + 1, nil
}

func opPushJumpPointer(f *Frame, instr *Instruction) (int, error) {
	v := f.plan.Constant(instr.Arg)
	idx, ok := resolveJump(f, v)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}

func opPushJumpiPointer(f *Frame, instr *Instruction) (int, error) {
	cond := f.stack.Pop()
	v := f.plan.Constant(instr.Arg)
	if cond.IsZero() {
		return f.pc + 1, nil
	}
	idx, ok := resolveJump(f, v)
	if !ok {
		return 0, evmerrors.ErrInvalidJump
	}
	return idx, nil
}
