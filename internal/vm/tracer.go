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
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Tracer observes a frame's dispatch loop one instruction at a time.
// Implementations must not retain the Instruction pointer past the call,
// nor mutate the frame.
type Tracer interface {
	OnStep(f *Frame, instr *Instruction)
}

// StepEvent is one tracer observation, shaped for JSON emission.
type StepEvent struct {
	PC       int    `json:"pc"`
	Op       string `json:"op"`
	Gas      int64  `json:"gas"`
	Depth    int    `json:"depth"`
	StackLen int    `json:"stackLen"`
	Stack    []string `json:"stack,omitempty"`
	MemSize  int    `json:"memSize"`
	Refund   uint64 `json:"refund"`
}

// JSONTracer writes one JSON object per step to an io.Writer, the way a
// go-ethereum-style struct logger does. It is safe for a single frame's
// use only; construct one per Run.
type JSONTracer struct {
	w           io.Writer
	enc         *json.Encoder
	mu          sync.Mutex
	withStack   bool
}

// NewJSONTracer returns a tracer that writes newline-delimited step
// events to w. When withStack is true, each event includes a hex
// dump of the full stack, which is expensive and meant for debugging
// rather than production tracing.
func NewJSONTracer(w io.Writer, withStack bool) *JSONTracer {
	return &JSONTracer{w: w, enc: json.NewEncoder(w), withStack: withStack}
}

func (t *JSONTracer) OnStep(f *Frame, instr *Instruction) {
	ev := StepEvent{
		PC:       instr.PC,
		Op:       instr.Op.String(),
		Gas:      f.Gas(),
		Depth:    f.Depth(),
		StackLen: f.StackLen(),
		MemSize:  f.MemSize(),
		Refund:   f.gasRefund,
	}
	if t.withStack {
		snap := f.StackSnapshot()
		ev.Stack = make([]string, len(snap))
		for i := range snap {
			ev.Stack[i] = snap[i].Hex()
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.enc.Encode(ev)
}

// DebugTracer adds breakpoints and single-step pausing on top of a
// JSONTracer, identifying itself with a session id so a host process
// driving several concurrent frames can tell traces apart.
type DebugTracer struct {
	*JSONTracer

	SessionID uuid.UUID

	mu          sync.Mutex
	breakpoints map[int]struct{}
	stepMode    bool
	stepCount   uint64
	paused      bool
}

// NewDebugTracer returns a DebugTracer writing to w.
func NewDebugTracer(w io.Writer) *DebugTracer {
	return &DebugTracer{
		JSONTracer:  NewJSONTracer(w, true),
		SessionID:   uuid.New(),
		breakpoints: make(map[int]struct{}),
	}
}

// SetBreakpoint arms a pause the next time PC pc is about to execute.
func (d *DebugTracer) SetBreakpoint(pc int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.breakpoints[pc] = struct{}{}
}

// ClearBreakpoint disarms a previously set breakpoint.
func (d *DebugTracer) ClearBreakpoint(pc int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.breakpoints, pc)
}

// SetStepMode toggles pause-before-every-instruction behavior.
func (d *DebugTracer) SetStepMode(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stepMode = on
}

// Paused reports whether the tracer wants dispatch to halt before the
// next instruction. Callers of Frame.Run with a DebugTracer attached are
// responsible for checking this between steps; the core loop itself does
// not block on it, since blocking a hot interpreter loop on an external
// debugger would defeat the point of pooling frames for throughput.
func (d *DebugTracer) Paused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// Resume clears the pause flag, letting a paused consumer continue.
func (d *DebugTracer) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
}

func (d *DebugTracer) OnStep(f *Frame, instr *Instruction) {
	d.JSONTracer.OnStep(f, instr)

	d.mu.Lock()
	d.stepCount++
	_, atBreakpoint := d.breakpoints[instr.PC]
	if d.stepMode || atBreakpoint {
		d.paused = true
	}
	d.mu.Unlock()
}

// StepCount returns how many instructions this tracer has observed.
func (d *DebugTracer) StepCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepCount
}
