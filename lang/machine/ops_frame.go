package machine

import (
	"fmt"
	"io"

	"github.com/mna/ippcode23/lang/frame"
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func opCreateframe(e *Engine, instr program.Instruction) (bool, int, error) {
	e.tf = frame.New(8)
	e.advance(instr)
	return false, 0, nil
}

func opPushframe(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	if e.tf == nil {
		return false, 0, ipperr.At(ipperr.MissingFrame, addr, "PUSHFRAME: no temporary frame to push")
	}
	e.frames.Push(e.tf)
	e.tf = nil
	e.advance(instr)
	return false, 0, nil
}

func opPopframe(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	f, ok := e.frames.Pop()
	if !ok {
		return false, 0, ipperr.At(ipperr.MissingFrame, addr, "POPFRAME: frame stack is empty")
	}
	e.tf = f
	e.advance(instr)
	return false, 0, nil
}

// opBreak dumps pc and every live frame's variables to stderr and continues
// execution. Variable names are copied into a
// plain map and sorted (maps.Keys + slices.Sort) purely for deterministic
// diagnostic output; Frame itself makes no ordering guarantee.
func opBreak(e *Engine, instr program.Instruction) (bool, int, error) {
	w := e.stderr()
	fmt.Fprintf(w, "-- BREAK at instruction %d (pc=%d) --\n", instr.Address+1, e.pc)
	dumpFrame(w, "GF", e.gf)
	if lf := e.frames.Top(); lf != nil {
		dumpFrame(w, "LF", lf)
	} else {
		fmt.Fprintln(w, "LF: <none>")
	}
	if e.tf != nil {
		dumpFrame(w, "TF", e.tf)
	} else {
		fmt.Fprintln(w, "TF: <none>")
	}
	fmt.Fprintf(w, "call stack depth: %d\n", e.calls.Depth())
	e.advance(instr)
	return false, 0, nil
}

func dumpFrame(w io.Writer, label string, f *frame.Frame) {
	snapshot := make(map[string]string, len(f.Names()))
	for _, name := range f.Names() {
		slot := f.Lookup(name)
		snapshot[name] = fmt.Sprintf("%s(%s)", slot.V.Type(), slot.V.String())
	}
	names := maps.Keys(snapshot)
	slices.Sort(names)
	fmt.Fprintf(w, "%s:\n", label)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %s\n", name, snapshot[name])
	}
}
