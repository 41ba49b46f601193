package maincmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/label"
	"github.com/mna/ippcode23/lang/machine"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/xmlprog"
	"github.com/mna/mainer"
)

// exitMissingArgs is ipperr.MissingArgs (10), the code for a CLI flag
// error: it fires before any engine stage runs (before even lang/xmlprog
// sees a byte of input), purely from CLI flag state.
const exitMissingArgs = ipperr.MissingArgs

// run executes the load-link-execute pipeline against the configured
// source/input streams and returns the process exit code.
func (c *Cmd) run(stdio mainer.Stdio) int {
	if c.Source == "" && c.Input == "" {
		fmt.Fprintln(stdio.Stderr, "at least one of --source/--input must be given (both cannot read from stdin)")
		return exitMissingArgs
	}

	source, closeSource, err := openOrStdin(c.Source, stdio.Stdin)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", c.Source, err)
		return ipperr.FileOpenFailure
	}
	defer closeSource()

	input, closeInput, err := openOrStdin(c.Input, stdio.Stdin)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", c.Input, err)
		return ipperr.FileOpenFailure
	}
	defer closeInput()

	code, err := Interpret(source, input, stdio.Stdout, stdio.Stderr, c.MaxSteps)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
	}
	return code
}

// openOrStdin opens path, or returns fallback (and a no-op closer) when
// path is empty: both --source and --input fall back to stdin when
// omitted.
func openOrStdin(path string, fallback io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if fi, err := f.Stat(); err == nil && fi.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("is a directory")
	}
	return f, func() { f.Close() }, nil
}

// Interpret loads, links and runs one IPPcode23 program. It is kept free
// of any mainer/flag dependency, mirroring the exported *Files-style
// helpers pattern (an entry point golden-file tests can drive directly
// without going through Cmd.Main).
func Interpret(source, input io.Reader, stdout, stderr io.Writer, maxSteps int64) (int, error) {
	raw, err := xmlprog.Load(source)
	if err != nil {
		return ipperr.CodeOf(err), err
	}

	prog, err := program.Build(raw)
	if err != nil {
		return ipperr.CodeOf(err), err
	}

	labels, err := label.Build(prog)
	if err != nil {
		return ipperr.CodeOf(err), err
	}

	eng := machine.New(prog, labels)
	eng.Stdout = stdout
	eng.Stderr = stderr
	eng.Stdin = input
	eng.MaxSteps = maxSteps

	code, err := eng.Run()
	if err != nil {
		return code, err
	}
	return code, nil
}
