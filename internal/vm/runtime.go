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

// sharedCache is used by the package-level Execute convenience function
// when the caller does not maintain its own AnalysisCache across calls.
var sharedCache = NewAnalysisCache(DefaultAnalysisCacheSize)

// ExecParams mirrors FrameParams but takes raw bytecode instead of a
// pre-translated Plan, for callers that just want to run a program once.
type ExecParams struct {
	Code     []byte
	Gas      uint64
	Calldata []byte
	Address  Address
	Caller   Address
	Value    uint256.Int
	Depth    int
	Host     Host
	Tracer   Tracer
	Config   *Config
	Cache    *AnalysisCache
}

// Execute translates code (via the plan cache) and runs it to completion
// in one call. It is the entry point a simple host or CLI reaches for
// when it does not need to manage Plan or AccessList lifetimes itself.
func Execute(p ExecParams) (Outcome, error) {
	cfg := configOrDefault(p.Config)
	c := p.Cache
	if c == nil {
		c = sharedCache
	}

	plan, err := c.GetOrTranslate(p.Code, cfg)
	if err != nil {
		return Outcome{Reason: StopError, Err: err}, err
	}

	f := NewFrame(FrameParams{
		Plan:       plan,
		Gas:        p.Gas,
		Calldata:   p.Calldata,
		Address:    p.Address,
		Caller:     p.Caller,
		Value:      p.Value,
		Depth:      p.Depth,
		Host:       p.Host,
		AccessList: NewAccessList(),
		Tracer:     p.Tracer,
		Config:     cfg,
	})
	defer ReleaseFrame(f)

	outcome := f.Run()
	recordOutcome(outcome, f.Steps())
	return outcome, outcome.Err
}

// PrewarmHandlerTables reads one entry of the opcode and handler lookup
// tables. Both tables are filled by package init(), which Go runs before
// any caller can reach this function, so the call has no further effect.
// Safe to call any number of times.
func PrewarmHandlerTables() {
	_ = opTable[STOP]
	_ = handlerTable[STOP]
}
