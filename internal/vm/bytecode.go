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

import evmerrors "github.com/n42blockchain/evmcore/pkg/errors"

// DefaultMaxBytecodeSize is the default ceiling on bytecode length.
const DefaultMaxBytecodeSize = 24576

// Bytecode is an immutable, analyzed EVM program. IsOpStart and IsJumpdest
// are bitmaps indexed by byte offset, computed once by analyze.
type Bytecode struct {
	code       []byte
	isOpStart  []bool
	isJumpdest []bool
}

// NewBytecode copies code, validates its length against maxSize, and runs
// the analyzer over it.
func NewBytecode(code []byte, maxSize int) (*Bytecode, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxBytecodeSize
	}
	if len(code) > maxSize {
		return nil, evmerrors.ErrBytecodeTooLarge
	}
	cp := make([]byte, len(code))
	copy(cp, code)

	b := &Bytecode{
		code:       cp,
		isOpStart:  make([]bool, len(cp)),
		isJumpdest: make([]bool, len(cp)),
	}
	b.analyze()
	return b, nil
}

// analyze performs the single linear pass described in spec.md §4.1:
// PUSH_n immediates are skipped wholesale (never marked as opcode starts
// or JUMPDESTs, no matter their byte value), every other byte is an
// opcode start, and JUMPDEST bytes that are opcode starts are marked.
func (b *Bytecode) analyze() {
	code := b.code
	for p := 0; p < len(code); {
		op := OpCode(code[p])
		b.isOpStart[p] = true
		if op == JUMPDEST {
			b.isJumpdest[p] = true
		}
		if IsPush(op) {
			p += 1 + PushSize(op)
			continue
		}
		p++
	}
}

// Code returns the underlying byte slice. Callers must not mutate it.
func (b *Bytecode) Code() []byte { return b.code }

// Len returns the bytecode length.
func (b *Bytecode) Len() int { return len(b.code) }

// IsOpStart reports whether byte i begins an opcode (as opposed to being
// PUSH immediate data). Out-of-range offsets report false.
func (b *Bytecode) IsOpStart(i int) bool {
	if i < 0 || i >= len(b.isOpStart) {
		return false
	}
	return b.isOpStart[i]
}

// IsJumpdest reports whether byte i is a valid jump destination: a
// JUMPDEST-valued byte that is also an opcode start.
func (b *Bytecode) IsJumpdest(i int) bool {
	if i < 0 || i >= len(b.isJumpdest) {
		return false
	}
	return b.isJumpdest[i]
}

// ByteAt returns the byte at i, or 0 if i is past the end of the
// bytecode. Truncated trailing PUSH immediates are zero-extended this
// way, matching standard EVM practice (spec.md §9, Open Question 2).
func (b *Bytecode) ByteAt(i int) byte {
	if i < 0 || i >= len(b.code) {
		return 0
	}
	return b.code[i]
}
