// Package maincmd implements the CLI surface: the `--source`/`-s` and
// `--input`/`-i` flags, the stdin fallback for either, and the
// missing-args/file-open exit codes (10/11). Everything beyond flag
// handling and stream wiring is delegated to lang/xmlprog, lang/program,
// lang/label and lang/machine.
package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
)

const binName = "ippcode23"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [--source=PATH] [--input=PATH]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [--source=PATH] [--input=PATH]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter for the IPPcode23 three-address pseudo-assembly language,
delivered as an XML document.

Valid flag options are:
       -s --source=PATH          The XML program to interpret. If omitted,
                                 the program is read from standard input.
       -i --input=PATH           The input stream consumed by READ
                                 instructions. If omitted, standard input
                                 is used. At least one of --source/--input
                                 must be given, since both cannot read from
                                 standard input at once.
       --max-steps=N             Abort the run after N executed
                                 instructions (0, the default, means no
                                 limit). A safety net against runaway
                                 programs, not part of the IPPcode23
                                 language itself.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the interpreter's single command: there is only one mode of
// operation (interpret the given source against the given input), so
// there is a single Main entry point and no subcommand table.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Source   string `flag:"s,source"`
	Input    string `flag:"i,input"`
	MaxSteps int64  `flag:"max-steps"`
	Help     bool   `flag:"h,help"`
	Version  bool   `flag:"v,version"`

	args  []string
	flags map[string]bool
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

// Validate rejects stray positional arguments; Main reports any parse or
// validation failure with exit code 10. The source/input-both-omitted rule
// is not enforced here: run checks it itself (also exit code 10), so it
// applies when run is called without going through Main.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 0 {
		return fmt.Errorf("unexpected argument: %s", c.args[0])
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: "IPPCODE23_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(exitMissingArgs)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	return mainer.ExitCode(c.run(stdio))
}
