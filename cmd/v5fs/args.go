package main

import (
	"strconv"
)

// mode names the single operation exactly one of -x, -r, -p, -l, -a, -c
// selects.
type mode int

const (
	modeNone mode = iota
	modeExtract
	modeResolve
	modeReverse
	modeList
	modeAll
	modeCheck
)

// interp selects how an -x/-l argument is read: as a pathname (-n) or as a
// decimal i-number (-i).
type interp int

const (
	interpNone interp = iota
	interpInode
	interpName
)

type invocationError struct {
	msg string
}

func (e *invocationError) Error() string { return e.msg }

func newInvocationError(msg string) *invocationError { return &invocationError{msg: msg} }

// options is the parsed, validated command line. Parsing mirrors the
// original tool's rules exactly: options may appear in any order, -f takes
// the following argument, and exactly one non-option argument is allowed
// for the modes that take one.
type options struct {
	help      bool
	image     string
	mode      mode
	interp    interp
	nonOptArg string
}

// parseArgs parses argv (excluding the program name). help-only invocation
// is recognized solely when argv[0] is literally "-h", per the external
// interface: -h is only honored as the first argument.
func parseArgs(argv []string) (*options, error) {
	if len(argv) > 0 && argv[0] == "-h" {
		return &options{help: true}, nil
	}

	var opt options
	var fSeen, xSeen, rSeen, pSeen, lSeen, aSeen, cSeen bool
	var iSeen, nSeen bool

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-f":
			if fSeen {
				return nil, newInvocationError("-f specified more than once")
			}
			if i+1 >= len(argv) {
				return nil, newInvocationError("-f requires a disk image argument")
			}
			i++
			fSeen = true
			opt.image = argv[i]
		case "-x":
			if xSeen {
				return nil, newInvocationError("-x specified more than once")
			}
			xSeen = true
		case "-r":
			if rSeen {
				return nil, newInvocationError("-r specified more than once")
			}
			rSeen = true
		case "-p":
			if pSeen {
				return nil, newInvocationError("-p specified more than once")
			}
			pSeen = true
		case "-l":
			if lSeen {
				return nil, newInvocationError("-l specified more than once")
			}
			lSeen = true
		case "-a":
			if aSeen {
				return nil, newInvocationError("-a specified more than once")
			}
			aSeen = true
		case "-c":
			if cSeen {
				return nil, newInvocationError("-c specified more than once")
			}
			cSeen = true
		case "-i":
			if iSeen {
				return nil, newInvocationError("-i specified more than once")
			}
			iSeen = true
		case "-n":
			if nSeen {
				return nil, newInvocationError("-n specified more than once")
			}
			nSeen = true
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return nil, newInvocationError("unknown option: " + arg)
			}
			// non-option argument, collected below
		}
	}

	if !fSeen {
		return nil, newInvocationError("-f <diskimage> is required")
	}

	modeCount := boolCount(xSeen, rSeen, pSeen, lSeen, aSeen, cSeen)
	if modeCount != 1 {
		return nil, newInvocationError("exactly one of -x, -r, -p, -l, -a, -c must be specified")
	}
	switch {
	case xSeen:
		opt.mode = modeExtract
	case rSeen:
		opt.mode = modeResolve
	case pSeen:
		opt.mode = modeReverse
	case lSeen:
		opt.mode = modeList
	case aSeen:
		opt.mode = modeAll
	case cSeen:
		opt.mode = modeCheck
	}

	if opt.mode == modeExtract || opt.mode == modeList {
		if iSeen == nSeen {
			return nil, newInvocationError("exactly one of -i or -n is required with -x or -l")
		}
	} else if iSeen || nSeen {
		return nil, newInvocationError("-i and -n are only allowed with -x or -l")
	}
	if iSeen {
		opt.interp = interpInode
	} else if nSeen {
		opt.interp = interpName
	}

	nonOpt, err := collectNonOptArg(argv)
	if err != nil {
		return nil, err
	}
	opt.nonOptArg = nonOpt

	switch opt.mode {
	case modeResolve:
		if nonOpt == "" || nonOpt[0] != '/' {
			return nil, newInvocationError("-r requires an absolute pathname argument")
		}
	case modeReverse:
		if _, err := strconv.ParseUint(nonOpt, 10, 32); err != nil {
			return nil, newInvocationError("-p requires a positive i-number argument")
		}
	case modeExtract:
		if nonOpt == "" {
			return nil, newInvocationError("-x requires an argument")
		}
	case modeAll, modeCheck:
		if nonOpt != "" {
			return nil, newInvocationError(argModeName(opt.mode) + " takes no argument")
		}
	}

	return &opt, nil
}

// collectNonOptArg returns the single non-option argument in argv, skipping
// the value that follows -f. More than one non-option argument is an
// invocation error.
func collectNonOptArg(argv []string) (string, error) {
	var found string
	count := 0
	for i := 0; i < len(argv); i++ {
		if argv[i] == "-f" {
			i++ // skip the image path
			continue
		}
		if len(argv[i]) > 0 && argv[i][0] == '-' {
			continue
		}
		count++
		if found == "" {
			found = argv[i]
		}
	}
	if count > 1 {
		return "", newInvocationError("too many arguments")
	}
	return found, nil
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func argModeName(m mode) string {
	switch m {
	case modeAll:
		return "-a"
	case modeCheck:
		return "-c"
	}
	return "?"
}
