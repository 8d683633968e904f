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

import "github.com/VictoriaMetrics/metrics"

var (
	metricFramesExecuted  = metrics.NewCounter("evmcore_frames_executed_total")
	metricCacheHits       = metrics.NewCounter("evmcore_plan_cache_hits_total")
	metricCacheMisses     = metrics.NewCounter("evmcore_plan_cache_misses_total")
	metricGasUsed         = metrics.NewHistogram("evmcore_gas_used")
	metricStepsPerFrame   = metrics.NewHistogram("evmcore_steps_per_frame")
	metricOutcomeReason   = map[StopReason]*metrics.Counter{}
)

func init() {
	for _, r := range []StopReason{
		StopStop, StopReturn, StopRevert, StopOutOfGas, StopInvalidJump,
		StopInvalidOpcode, StopStackOverflow, StopStackUnderflow,
		StopOutOfBounds, StopCallDepthExceeded, StopError,
	} {
		metricOutcomeReason[r] = metrics.NewCounter("evmcore_outcomes_total{reason=\"" + reasonLabel(r) + "\"}")
	}
}

func reasonLabel(r StopReason) string {
	switch r {
	case StopStop:
		return "stop"
	case StopReturn:
		return "return"
	case StopRevert:
		return "revert"
	case StopOutOfGas:
		return "out_of_gas"
	case StopInvalidJump:
		return "invalid_jump"
	case StopInvalidOpcode:
		return "invalid_opcode"
	case StopStackOverflow:
		return "stack_overflow"
	case StopStackUnderflow:
		return "stack_underflow"
	case StopOutOfBounds:
		return "out_of_bounds"
	case StopCallDepthExceeded:
		return "call_depth_exceeded"
	default:
		return "error"
	}
}

// recordOutcome updates the frame-execution counters after Run returns.
// Called from vm.Execute so ad-hoc Frame.Run callers that don't want the
// metrics overhead can skip it.
func recordOutcome(o Outcome, steps uint64) {
	metricFramesExecuted.Inc()
	metricGasUsed.Update(float64(o.GasUsed))
	metricStepsPerFrame.Update(float64(steps))
	if c, ok := metricOutcomeReason[o.Reason]; ok {
		c.Inc()
	}
}

func recordCacheHit()  { metricCacheHits.Inc() }
func recordCacheMiss() { metricCacheMisses.Inc() }
