// Package main provides the entry point for alusim.
// alusim evaluates ALU operations on fixed-width integers of a
// configurable bit width, functionally or through a pipelined model.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	alu "github.com/sarchlab/alusim/core"
	"github.com/sarchlab/alusim/ops"
	timingcore "github.com/sarchlab/alusim/timing/core"
	"github.com/sarchlab/alusim/timing/latency"
)

var (
	width      = flag.Uint("width", 32, "Operand width in bits (8..4096, multiple of 8)")
	mode       = flag.String("mode", "normal", "Execution mode (normal, saturate, simd8..simd64, vector, extended, float, crypto)")
	operandA   = flag.String("a", "0", "First operand, hex")
	operandB   = flag.String("b", "0", "Second operand, hex")
	shift      = flag.Uint("shift", 0, "Explicit shift amount for shift/rotate operations")
	carryIn    = flag.Bool("carry", false, "Carry input for extended-mode arithmetic")
	depth      = flag.Int("depth", 0, "Pipeline depth (0 = combinational)")
	timing     = flag.Bool("timing", false, "Report per-operation cycle counts instead of evaluating")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: alusim [options] <op>[,<op>...]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *timing {
		os.Exit(runTiming(flag.Arg(0)))
	}
	os.Exit(runEvaluate(flag.Arg(0)))
}

// runEvaluate runs a single operation through the evaluator, optionally
// behind a pipeline of the requested depth.
func runEvaluate(opName string) int {
	op, err := ops.ParseOp(opName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m, err := ops.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	a, err := alu.WordFromHex(*width, *operandA)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing operand a: %v\n", err)
		return 1
	}
	b, err := alu.WordFromHex(*width, *operandB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing operand b: %v\n", err)
		return 1
	}

	evaluator, err := alu.NewEvaluator(*width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var (
		result alu.Result
		flags  alu.FlagSet
		exc    alu.Exception
	)

	if *depth > 0 {
		pipelined, err := timingcore.NewPipelinedCore(evaluator, *depth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for {
			out, ok := pipelined.Tick(true, a, b, op, m, *shift, *carryIn)
			if ok {
				result, flags, exc = out.Result, out.Flags, out.Exc
				break
			}
		}
		if *verbose {
			stats := pipelined.Stats()
			fmt.Printf("Pipeline depth: %d\n", pipelined.Depth())
			fmt.Printf("Ticks: %d\n", stats.Ticks)
		}
	} else {
		result, flags, exc = evaluator.Evaluate(a, b, op, m, *shift, *carryIn)
	}

	printResult(op, m, result, flags, exc)

	if exc.Occurred {
		return 2
	}
	return 0
}

func printResult(op ops.Op, m ops.Mode, result alu.Result, flags alu.FlagSet, exc alu.Exception) {
	fmt.Printf("Operation: %s (%s)\n", op, m)
	fmt.Printf("Result:    %s\n", result.Primary)
	if !result.Secondary.IsZero() || op == ops.OpMUL || op == ops.OpDIV || op == ops.OpSWAP {
		fmt.Printf("Secondary: %s\n", result.Secondary)
	}
	fmt.Printf("Flags:     Z=%t N=%t C=%t V=%t P=%t\n",
		flags.Zero, flags.Negative, flags.Carry, flags.Overflow, flags.Parity)
	if *verbose {
		fmt.Printf("           H=%t A=%t S=%t T=%t\n",
			flags.HalfCarry, flags.AuxCarry, flags.Sign, flags.BitTest)
		if len(flags.LaneZero) > 0 {
			fmt.Printf("           LaneZero=%v\n", flags.LaneZero)
		}
	}
	if exc.Occurred {
		fmt.Printf("Exception: %s\n", exc.Code)
	}
}

// runTiming reports the cycle count of each listed operation and the
// total, using the default or loaded timing configuration.
func runTiming(opList string) int {
	var timingConfig *latency.TimingConfig
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			return 1
		}
	} else {
		timingConfig = latency.DefaultTimingConfig()
	}

	table := latency.NewTableWithConfig(timingConfig)

	m, err := ops.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var total uint64
	names := strings.Split(opList, ",")
	for _, name := range names {
		op, err := ops.ParseOp(strings.TrimSpace(name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		cycles := table.Cycles(op, m)
		total += cycles
		fmt.Printf("  %-8s %3d cycles", op, cycles)
		if table.IsMultiCycle(op, m) {
			fmt.Printf("  (multi-cycle)")
		}
		fmt.Printf("\n")
	}

	fmt.Printf("\nTotal: %d cycles over %d operations\n", total, len(names))
	if len(names) > 0 {
		fmt.Printf("Average: %.2f cycles/op\n", float64(total)/float64(len(names)))
	}
	return 0
}
