// Command chopup reads a WAT module and writes its microtransaction-split
// equivalent to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	chopup "github.com/wippyai/chop-up"
	"github.com/wippyai/chop-up/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("chopup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pretty := fs.Bool("p", false, "pretty-print the parsed module before transforming")
	skipSafe := fs.Bool("skip-safe", false, "elide splits the interpreter can prove are already safe")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: chopup [-p] [-skip-safe] <file.wat>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		fmt.Fprintln(stderr, errors.Usage("expected exactly one input file"))
		return 1
	}
	path := fs.Arg(0)

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	src, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read input", zap.Error(err))
		fmt.Fprintln(stderr, errors.IO("reading "+path, err))
		return 1
	}

	colorEnabled := term.IsTerminal(int(stdout.Fd()))

	if *pretty {
		if err := chopup.PrettyPrint(string(src), stdout, colorEnabled); err != nil {
			logger.Error("pretty-print", zap.Error(err))
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	cfg := chopup.Config{SkipSafeSplits: *skipSafe, Explain: false}
	if err := chopup.TransformLogged(string(src), stdout, cfg, logger); err != nil {
		logger.Error("transform", zap.Error(err))
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}
