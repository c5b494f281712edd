package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	bferrors "bfrs/internal/errors"
	"bfrs/internal/ir"
	"bfrs/token"
)

// main.go is the CLI driver (SPEC_FULL.md §B.3): read a BF source file,
// build and optimize its IR, print the result. Grounded on the teacher's
// cmd/kanso-cli/main.go — same read-file / parse / print / colorized-
// success-line shape, with the teacher's caret-based reportParseError
// generalized into bferrors.FormatParseError so both the IO and the
// bracket-imbalance failure paths share one reporter.
func main() {
	noPeel := flag.Bool("no-peel", false, "disable the quasi-invariant loop-peeling pass")
	noAffine := flag.Bool("no-affine", false, "disable the affine closed-form rewrite pass")
	noCopyProp := flag.Bool("no-copyprop", false, "disable the copy-propagation pass")
	dumpTokens := flag.Bool("dump-tokens", false, "print the tokenized stream before compiling")
	verbose := flag.Bool("v", false, "print per-pass progress while optimizing")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.bf>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		reportAndExit(bferrors.NewErrorReporter(path, "").FormatError(bferrors.NewInputIOError(path, err)))
	}

	stream, err := token.Parse(path, string(source))
	if err != nil {
		reportAndExit(bferrors.FormatParseError(path, string(source), err))
	}

	if *dumpTokens {
		for _, tok := range stream {
			fmt.Fprintf(os.Stderr, "%s %s\n", tok.Pos, tok.Kind)
		}
	}

	pipeline := ir.NewPipeline()
	pipeline.SetVerbose(*verbose)
	if *noPeel {
		pipeline.Disable("peel")
	}
	if *noAffine {
		pipeline.Disable("closed-form")
	}
	if *noCopyProp {
		pipeline.Disable("copy-propagate")
	}

	program, err := ir.CompileWithPipeline(stream, pipeline)
	if err != nil {
		if cerr, ok := err.(bferrors.CompilerError); ok {
			reportAndExit(bferrors.NewErrorReporter(path, string(source)).FormatError(cerr))
		}
		reportAndExit(err.Error())
	}

	fmt.Print(ir.Print(program))
	color.Green("✅ compiled %s", path)
}

func reportAndExit(rendered string) {
	fmt.Fprint(os.Stderr, rendered)
	os.Exit(1)
}
