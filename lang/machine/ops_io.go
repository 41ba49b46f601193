package machine

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func opWrite(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	v, err := e.evalSymb(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	fmt.Fprint(e.stdout(), v.String())
	e.advance(instr)
	return false, 0, nil
}

func opDprint(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	v, err := e.evalSymb(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	fmt.Fprint(e.stderr(), v.String())
	e.advance(instr)
	return false, 0, nil
}

// opExit implements EXIT: the operand must be an Int in [0,49] (53 for the
// wrong type, 57 for an in-range-type-but-out-of-range value), and
// terminates the run with that exit code.
func opExit(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	v, err := e.evalSymb(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	n, ok := v.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "EXIT: operand is %s, not int", v.Type())
	}
	if n < 0 || n > 49 {
		return false, 0, ipperr.At(ipperr.BadOperandValue, addr, "EXIT: code %d out of range [0,49]", n)
	}
	return true, int(n), nil
}

// opRead implements READ: a line from the chosen input stream, converted
// according to the requested type. EOF and conversion
// failure both yield Nil rather than a fatal error; see DESIGN.md for the
// whitespace-only-line policy decision.
func opRead(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	typ := instr.Operands[1].Name

	line, rerr := e.stdin().ReadString('\n')
	if rerr != nil && rerr != io.EOF {
		dst.V = value.Nil
		e.advance(instr)
		return false, 0, nil
	}
	if rerr == io.EOF && line == "" {
		dst.V = value.Nil
		e.advance(instr)
		return false, 0, nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	switch typ {
	case "int":
		n, perr := strconv.ParseInt(line, 10, 64)
		if perr != nil {
			dst.V = value.Nil
		} else {
			dst.V = value.Int(n)
		}
	case "bool":
		dst.V = value.Bool(strings.EqualFold(line, "true"))
	case "string":
		dst.V = value.Str(line)
	default:
		return false, 0, ipperr.At(ipperr.InternalError, addr, "READ: unknown requested type %q", typ)
	}
	e.advance(instr)
	return false, 0, nil
}
