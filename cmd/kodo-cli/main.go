// SPDX-License-Identifier: Apache-2.0

// Command kodo-cli is the driver surface described in spec §6: it builds
// a Root (the union of a compilation unit's declarations), feeds it to
// IrGen, runs the pass manager, and prints the resulting IR. The lexer
// and parser that would normally produce the Root are out of this
// module's scope (spec §1), so the driver ships with a small fixture
// library mirroring spec §8's end-to-end scenarios and the caller picks
// one by name, the way a real front end would hand off a parsed file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"kodo/internal/errors"
	"kodo/internal/ir"
	"kodo/internal/pass"
	"kodo/internal/passes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: kodo-cli <fixture>|list")
		fmt.Println("fixtures:")
		for _, f := range fixtures {
			fmt.Printf("  %-12s %s\n", f.name, f.source)
		}
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "list" {
		for _, f := range fixtures {
			fmt.Println(f.name)
		}
		return
	}

	fx := lookupFixture(name)
	if fx == nil {
		color.Red("unknown fixture %q (try \"list\")", name)
		os.Exit(1)
	}

	reporter := errors.NewErrorReporter(fx.name, fx.source)
	root := fx.build()

	program := ir.GenIR(root, reporter)
	if reporter.AbortIfError() {
		color.Red("errors during IR generation, aborting before passes")
		os.Exit(1)
	}

	color.Cyan("-- IR before passes --")
	dumpProgram(program)

	pm := pass.NewPassManager()
	pm.Register(&passes.VarChecker{Reporter: reporter})
	pm.Register(passes.StackPromoter{})
	if err := pm.Run(program); err != nil {
		color.Red("pass pipeline: %s", err)
		os.Exit(1)
	}

	if reporter.HadError() {
		color.Yellow("-- IR after passes (diagnostics were reported above) --")
	} else {
		color.Cyan("-- IR after passes --")
	}
	dumpProgram(program)

	if reporter.AbortIfError() {
		os.Exit(1)
	}
	color.Green("ok")
}

func dumpProgram(program *ir.Program) {
	for _, fn := range program.Functions {
		if fn.Externed {
			continue
		}
		fmt.Print(ir.Dump(fn))
	}
}
