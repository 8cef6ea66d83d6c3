// Command stonetool is a thin inspector and extractor built on top of the
// stone package. It is not part of the core engine (see spec §1): it
// exercises the reader path end to end the way moss or boulder would, and
// exists so the library can be driven from a shell instead of only from Go
// or C code.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aerynos/stone/internal/oninterrupt"
)

func funcmain() error {
	flag.Parse()

	type cmd struct {
		fn func(ctx context.Context, args []string) error
	}
	verbs := map[string]cmd{
		"inspect": {cmdinspect},
		"extract": {cmdextract},
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "syntax: stonetool <command> [options]\n")
		fmt.Fprintf(os.Stderr, "commands: inspect, extract\n")
		os.Exit(2)
	}
	verb, rest := args[0], args[1:]

	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", verb)
		fmt.Fprintf(os.Stderr, "syntax: stonetool <command> [options]\n")
		os.Exit(2)
	}

	ctx, cancel := oninterrupt.Context()
	defer cancel()
	return v.fn(ctx, rest)
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
