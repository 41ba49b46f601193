package machine

import (
	"unicode/utf8"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func opMove(e *Engine, instr program.Instruction) (bool, int, error) {
	dst, err := e.destSlot(instr.Operands[0], instr.Address+1)
	if err != nil {
		return false, 0, err
	}
	v, err := e.evalSymb(instr.Operands[1], instr.Address+1)
	if err != nil {
		return false, 0, err
	}
	dst.V = v
	e.advance(instr)
	return false, 0, nil
}

func opNot(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	v, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "NOT: operand is %s, not bool", v.Type())
	}
	dst.V = value.Bool(!b)
	e.advance(instr)
	return false, 0, nil
}

func opInt2Char(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	v, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	n, ok := v.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "INT2CHAR: operand is %s, not int", v.Type())
	}
	// Range-check on the int64 itself before narrowing to rune (int32): a
	// value outside Unicode's range could otherwise wrap into a
	// spuriously valid small code point.
	if n < 0 || n > utf8.MaxRune {
		return false, 0, ipperr.At(ipperr.StringError, addr, "INT2CHAR: %d is not a valid code point", n)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return false, 0, ipperr.At(ipperr.StringError, addr, "INT2CHAR: %d is not a valid code point", n)
	}
	dst.V = value.Str(r)
	e.advance(instr)
	return false, 0, nil
}

func opStrlen(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	v, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	s, ok := v.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "STRLEN: operand is %s, not string", v.Type())
	}
	dst.V = value.Int(s.Len())
	e.advance(instr)
	return false, 0, nil
}

// opType implements TYPE: an undeclared source variable is still fatal 54,
// but a declared-yet-Undef source yields the empty string rather than
// failing.
func opType(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	v, err := e.evalSymbTolerant(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	dst.V = value.Str(v.Type())
	e.advance(instr)
	return false, 0, nil
}

func opDefvar(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	op := instr.Operands[0]
	f, err := e.frameFor(op.Frame, addr)
	if err != nil {
		return false, 0, err
	}
	if !f.Declare(op.Name) {
		return false, 0, ipperr.At(ipperr.SemanticError, addr, "variable %s@%s is already declared", op.Frame, op.Name)
	}
	e.advance(instr)
	return false, 0, nil
}

func opPushs(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	v, err := e.evalSymb(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	e.data.Push(v)
	e.advance(instr)
	return false, 0, nil
}

func opPops(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	v, ok := e.data.Pop()
	if !ok {
		return false, 0, ipperr.At(ipperr.MissingValue, addr, "POPS: data stack is empty")
	}
	dst.V = v
	e.advance(instr)
	return false, 0, nil
}
