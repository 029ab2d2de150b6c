package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	times "gopkg.in/djherbis/times.v1"

	"github.com/tillberg/v5fs/diskimage"
	"github.com/tillberg/v5fs/filesystem/v5fs"
	"github.com/tillberg/v5fs/util"
	"github.com/tillberg/v5fs/util/timestamp"
)

// run executes one parsed invocation, writing to out/errOut and returning
// the process exit code. Every log line carries a run_id field so that
// concurrent invocations against the same image (e.g. under a test harness)
// can be told apart in a shared log stream.
func run(opt *options, out, errOut io.Writer) int {
	log := newLogger(errOut)
	runID := uuid.New().String()
	log = log.WithField("run_id", runID)

	img, err := diskimage.Open(opt.image)
	if err != nil {
		log.WithError(err).Error("unable to open disk image")
		fmt.Fprintf(errOut, "Error: unable to open disk image %q: %v\n", opt.image, err)
		return 1
	}
	defer img.Close()

	fs, err := v5fs.Read(img, log)
	if err != nil {
		log.WithError(err).Error("unable to decode filesystem")
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	switch opt.mode {
	case modeResolve:
		return runResolve(fs, opt, out, errOut)
	case modeReverse:
		return runReverse(fs, opt, out, errOut)
	case modeExtract:
		return runExtract(fs, opt, out, errOut)
	case modeList:
		return runList(fs, opt, out, errOut)
	case modeAll:
		return runAll(fs, out, errOut)
	case modeCheck:
		return runCheck(fs, opt, log, out, errOut)
	default:
		return 1
	}
}

func newLogger(errOut io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(errOut)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	logger.SetLevel(logrus.WarnLevel)
	if os.Getenv("V5FS_LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(logger)
}

func runResolve(fs *v5fs.FileSystem, opt *options, out, errOut io.Writer) int {
	inum, err := fs.Resolve(opt.nonOptArg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "%d\n", inum)
	return 0
}

func runReverse(fs *v5fs.FileSystem, opt *options, out, errOut io.Writer) int {
	inum64, _ := strconv.ParseUint(opt.nonOptArg, 10, 32)
	inum := uint32(inum64)
	if inum < 1 || inum > fs.InodeCount() {
		fmt.Fprintln(errOut, "Error: i-number out of range")
		return 1
	}
	info, err := fs.Stat(inum)
	if err != nil || !info.IsDir {
		fmt.Fprintln(errOut, "Error: i-number does not name an allocated directory")
		return 1
	}
	path, err := fs.ReversePath(inum)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "%s\n", path)
	return 0
}

func runExtract(fs *v5fs.FileSystem, opt *options, out, errOut io.Writer) int {
	inum, ok := resolveArgument(fs, opt, errOut)
	if !ok {
		return 1
	}
	info, err := fs.Stat(inum)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	if info.IsDir {
		fmt.Fprintln(errOut, "Error: -x target is a directory")
		return 1
	}
	if err := fs.Extract(inum, out); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runList(fs *v5fs.FileSystem, opt *options, out, errOut io.Writer) int {
	inum, ok := resolveArgument(fs, opt, errOut)
	if !ok {
		return 1
	}
	info, err := fs.Stat(inum)
	if err != nil || !info.IsDir {
		fmt.Fprintln(errOut, "Error: -l target is not a directory")
		return 1
	}
	if err := fs.List(inum, out); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runAll(fs *v5fs.FileSystem, out, errOut io.Writer) int {
	if err := fs.List(1, out); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runCheck runs the consistency checker and, when V5FS_LOG_LEVEL=debug,
// hex-dumps the first offending sector of any cross-link finding so a
// human can see what two inodes are actually fighting over.
func runCheck(fs *v5fs.FileSystem, opt *options, log *logrus.Entry, out, errOut io.Writer) int {
	if imageStat, err := times.Stat(opt.image); err == nil && imageStat.HasChangeTime() {
		fmt.Fprintf(out, "# image %s, last changed %s\n", opt.image, imageStat.ChangeTime().Format("2006-01-02T15:04:05Z07:00"))
	}
	fmt.Fprintf(out, "# check run at %s\n", timestamp.GetTime().Format("2006-01-02T15:04:05Z07:00"))

	report, err := fs.Check(out)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	for _, cl := range report.CrossLinks {
		fmt.Fprintf(out, "CROSS-LINK sector %d inodes %v\n", cl.Sector, cl.Inodes)
		log.WithField("sector", cl.Sector).Debug("cross-linked sector")
		if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
			if data, err := fs.ReadSector(cl.Sector); err == nil {
				fmt.Fprint(errOut, util.DumpByteSlice(data[:], 16, true, true, false, nil))
			}
		}
	}
	for _, di := range report.DirectoryIssues {
		fmt.Fprintf(out, "DIRECTORY-ISSUE inode %d: %s\n", di.Inode, di.Problem)
	}

	if len(report.BadBlocks) > 0 || len(report.CrossLinks) > 0 || len(report.DirectoryIssues) > 0 {
		return 1
	}
	return 0
}

func resolveArgument(fs *v5fs.FileSystem, opt *options, errOut io.Writer) (uint32, bool) {
	if opt.interp == interpInode {
		n, err := strconv.ParseUint(opt.nonOptArg, 10, 32)
		if err != nil || n == 0 {
			fmt.Fprintln(errOut, "Error: invalid i-number argument")
			return 0, false
		}
		inum := uint32(n)
		if inum > fs.InodeCount() {
			fmt.Fprintln(errOut, "Error: i-number out of range")
			return 0, false
		}
		return inum, true
	}
	inum, err := fs.Resolve(opt.nonOptArg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 0, false
	}
	return inum, true
}
