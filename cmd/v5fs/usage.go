package main

import (
	"fmt"
	"io"
)

const usageLine = "Usage: %s -f <diskimage> (-x | -r | -p | -l | -a | -c) [-i | -n] [argument]\n"

func printUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, usageLine, prog)
}

func printHelp(w io.Writer, prog string) {
	fmt.Fprintf(w, usageLine, prog)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -h               show this help message and exit")
	fmt.Fprintln(w, "  -f <diskimage>    disk image file (required)")
	fmt.Fprintln(w, "  -x                extract mode, requires -i or -n")
	fmt.Fprintln(w, "  -r <path>         resolve a pathname to its i-number")
	fmt.Fprintln(w, "  -p <inum>         reverse-resolve an i-number to its canonical path")
	fmt.Fprintln(w, "  -l                list mode, requires -i or -n")
	fmt.Fprintln(w, "  -a                serialize the full hierarchy from root")
	fmt.Fprintln(w, "  -c                run a consistency check over the image")
	fmt.Fprintln(w, "  -i                interpret the argument as an i-number (only with -x or -l)")
	fmt.Fprintln(w, "  -n                interpret the argument as a pathname (only with -x or -l)")
}
