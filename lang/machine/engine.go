// Package machine implements the execution engine: the fetch-decode-execute
// loop, the frame/stack model threaded through every handler, and the
// static opcode dispatch table.
package machine

import (
	"bufio"
	"io"
	"os"

	"github.com/mna/ippcode23/lang/frame"
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/label"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

// Engine owns the program counter, the three stacks, the three variable
// frames and the label table, and carries the standard I/O streams used by
// WRITE/READ/DPRINT/BREAK. There is exactly one Engine value per run and no
// module-scoped state.
type Engine struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps is the maximum number of instructions the engine will
	// execute before aborting the run with an internal error. A value <= 0
	// means no limit; guards against a runaway program (an unconditional
	// JUMP loop) hanging the process indefinitely.
	MaxSteps int64

	prog   *program.Program
	labels label.Table

	pc     int
	data   frame.DataStack
	calls  frame.CallStack
	frames frame.FrameStack
	tf     *frame.Frame
	gf     *frame.Frame

	in *bufio.Reader
}

// New builds an Engine ready to execute prog, with labels already resolved
// by the pre-pass (lang/label.Build). If Stdout/Stderr/Stdin are left zero,
// the standard process streams are used.
func New(prog *program.Program, labels label.Table) *Engine {
	return &Engine{
		prog:   prog,
		labels: labels,
		gf:     frame.New(16),
	}
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

func (e *Engine) stdin() *bufio.Reader {
	if e.in == nil {
		if e.Stdin != nil {
			e.in = bufio.NewReader(e.Stdin)
		} else {
			e.in = bufio.NewReader(os.Stdin)
		}
	}
	return e.in
}

// handlerFunc executes one instruction. halt reports whether the engine
// must stop (an EXIT instruction ran to completion); code is only
// meaningful when halt is true. err is non-nil for any fatal condition,
// already carrying its ipperr exit code.
//
// A handler is solely responsible for advancing pc: either by calling
// e.advance(instr) for a straight-line opcode, or by assigning e.pc
// directly for a jump.
type handlerFunc func(e *Engine, instr program.Instruction) (halt bool, code int, err error)

func (e *Engine) advance(instr program.Instruction) {
	e.pc = instr.Address + 1
}

// Run executes the program to completion: while pc < len(instructions),
// fetch and execute. It returns the process
// exit code and, for any termination other than a successful EXIT or
// falling off the end of the program, the error that produced that code.
func (e *Engine) Run() (int, error) {
	var steps int64
	for e.pc < len(e.prog.Instructions) {
		if e.MaxSteps > 0 {
			steps++
			if steps > e.MaxSteps {
				err := ipperr.At(ipperr.InternalError, e.pc+1, "step budget of %d instructions exceeded", e.MaxSteps)
				return ipperr.InternalError, err
			}
		}
		instr := e.prog.Instructions[e.pc]
		h, ok := dispatch[instr.Opcode]
		if !ok {
			err := ipperr.At(ipperr.InternalError, instr.Address+1, "no handler registered for opcode %s", instr.Opcode)
			return ipperr.InternalError, err
		}
		halt, code, err := h(e, instr)
		if err != nil {
			return ipperr.CodeOf(err), err
		}
		if halt {
			return code, nil
		}
	}
	return ipperr.Success, nil
}

// frameFor resolves the named frame role (GF/LF/TF) to its live Frame. LF
// is undefined (fatal 55) when frame_stack is empty; TF is undefined
// (fatal 55) from start-of-program, or from a PUSHFRAME, until the next
// CREATEFRAME or POPFRAME.
func (e *Engine) frameFor(role string, addr int) (*frame.Frame, error) {
	switch role {
	case "GF":
		return e.gf, nil
	case "LF":
		f := e.frames.Top()
		if f == nil {
			return nil, ipperr.At(ipperr.MissingFrame, addr, "no local frame (frame stack empty)")
		}
		return f, nil
	case "TF":
		if e.tf == nil {
			return nil, ipperr.At(ipperr.MissingFrame, addr, "no temporary frame")
		}
		return e.tf, nil
	default:
		return nil, ipperr.At(ipperr.InternalError, addr, "unknown frame role %q", role)
	}
}

// lookupSlot resolves a VarRef operand to its slot. It fails with 55 if the
// operand's frame role is unavailable, or 54 if name is not declared in
// that frame (see DESIGN.md for the undeclared-variable policy decision).
func (e *Engine) lookupSlot(frameRole, name string, addr int) (*frame.Slot, error) {
	f, err := e.frameFor(frameRole, addr)
	if err != nil {
		return nil, err
	}
	slot := f.Lookup(name)
	if slot == nil {
		return nil, ipperr.At(ipperr.UndeclaredVariable, addr, "variable %s@%s is not declared", frameRole, name)
	}
	return slot, nil
}

// readDefined resolves a VarRef operand and requires it to hold a defined
// value (fatal 56 if the slot is still Undef). Used for every opcode whose
// operand contract is "symb", except TYPE which tolerates Undef.
func (e *Engine) readDefined(frameRole, name string, addr int) (value.Value, error) {
	slot, err := e.lookupSlot(frameRole, name, addr)
	if err != nil {
		return nil, err
	}
	if slot.V == value.Undef {
		return nil, ipperr.At(ipperr.MissingValue, addr, "variable %s@%s is not defined", frameRole, name)
	}
	return slot.V, nil
}
