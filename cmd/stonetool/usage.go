package main

import (
	"flag"
	"fmt"
	"os"
)

// usage builds a FlagSet.Usage for one of stonetool's two subcommands
// (inspect, extract). helpText is printed above the flag list, which lets
// each subcommand describe its own positional arguments before falling
// through to the generated flag defaults.
func usage(fset *flag.FlagSet, helpText string) func() {
	return func() {
		fmt.Fprintln(os.Stderr, helpText)
		fmt.Fprintf(os.Stderr, "Flags for stonetool %s:\n", fset.Name())
		fset.PrintDefaults()
	}
}
