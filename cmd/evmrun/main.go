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

// Command evmrun loads hex-encoded bytecode and runs it through one
// interpreter frame, printing the outcome and, optionally, a step trace.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/n42blockchain/evmcore/internal/vm"
	"github.com/n42blockchain/evmcore/params"
)

const usageText = `evmrun [options] <hex-bytecode>

examples:
  evmrun 0x6001600101           run PUSH1 1 PUSH1 1 ADD
  evmrun --gas 21000 --trace 0x6001600101
  evmrun --calldata 0x1234 0x600035`

func main() {
	app := &cli.App{
		Name:      "evmrun",
		Usage:     "run a bytecode program through one interpreter frame",
		UsageText: usageText,
		Version:   params.VersionWithCommit(params.GitCommit),
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "gas", Value: 1_000_000, Usage: "gas limit for the frame"},
			&cli.StringFlag{Name: "calldata", Usage: "hex-encoded calldata"},
			&cli.BoolFlag{Name: "trace", Usage: "print a JSON step trace to stderr"},
			&cli.BoolFlag{Name: "debug", Usage: "attach a debug tracer with stack dumps"},
		},
		Action:    run,
		Copyright: "Copyright 2022-2026 The N42 Authors",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("missing bytecode argument", 1)
	}
	code, err := decodeHex(c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid bytecode: %v", err), 1)
	}
	calldata, err := decodeHex(c.String("calldata"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid calldata: %v", err), 1)
	}

	var tracer vm.Tracer
	if c.Bool("debug") {
		tracer = vm.NewDebugTracer(os.Stderr)
	} else if c.Bool("trace") {
		tracer = vm.NewJSONTracer(os.Stderr, true)
	}

	outcome, _ := vm.Execute(vm.ExecParams{
		Code:     code,
		Gas:      c.Uint64("gas"),
		Calldata: calldata,
		Tracer:   tracer,
	})

	fmt.Printf("reason:        %d\n", outcome.Reason)
	fmt.Printf("gas used:      %d\n", outcome.GasUsed)
	fmt.Printf("gas remaining: %d\n", outcome.GasRemaining)
	fmt.Printf("gas refund:    %d\n", outcome.GasRefund)
	fmt.Printf("return data:   0x%x\n", outcome.ReturnData)
	if outcome.Err != nil {
		fmt.Printf("error:         %v (code %s)\n", outcome.Err, vm.CodeFor(outcome.Err))
		return cli.Exit("", 1)
	}
	return nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}
