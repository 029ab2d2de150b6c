// Command v5fs is a read-only inspector for Research Unix fifth-edition
// ("V5") disk images: resolve pathnames, reverse-resolve i-numbers,
// extract file contents, list directory hierarchies, and run a
// consistency check, all against an on-disk image given with -f.
package main

import (
	"os"
)

func main() {
	os.Exit(mainImpl(os.Args, os.Stdout, os.Stderr))
}

func mainImpl(argv []string, out, errOut *os.File) int {
	prog := "v5fs"
	if len(argv) > 0 {
		prog = argv[0]
	}

	opt, err := parseArgs(argv[1:])
	if err != nil {
		if _, ok := err.(*invocationError); ok {
			errOut.WriteString("Error: " + err.Error() + "\n")
		}
		printUsage(errOut, prog)
		return 1
	}
	if opt.help {
		printHelp(errOut, prog)
		return 0
	}

	return run(opt, out, errOut)
}
