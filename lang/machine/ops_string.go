package machine

import (
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func opStri2int(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	sv, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	iv, err := e.evalSymb(instr.Operands[2], addr)
	if err != nil {
		return false, 0, err
	}
	s, ok := sv.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "STRI2INT: first operand is %s, not string", sv.Type())
	}
	idx, ok := iv.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "STRI2INT: second operand is %s, not int", iv.Type())
	}
	r, ok := s.Rune(int(idx))
	if !ok {
		return false, 0, ipperr.At(ipperr.StringError, addr, "STRI2INT: index %d out of range", idx)
	}
	dst.V = value.Int(r)
	e.advance(instr)
	return false, 0, nil
}

func opConcat(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	xv, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	yv, err := e.evalSymb(instr.Operands[2], addr)
	if err != nil {
		return false, 0, err
	}
	x, ok := xv.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "CONCAT: first operand is %s, not string", xv.Type())
	}
	y, ok := yv.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "CONCAT: second operand is %s, not string", yv.Type())
	}
	dst.V = x + y
	e.advance(instr)
	return false, 0, nil
}

func opGetchar(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	sv, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	iv, err := e.evalSymb(instr.Operands[2], addr)
	if err != nil {
		return false, 0, err
	}
	s, ok := sv.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "GETCHAR: first operand is %s, not string", sv.Type())
	}
	idx, ok := iv.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "GETCHAR: second operand is %s, not int", iv.Type())
	}
	r, ok := s.Rune(int(idx))
	if !ok {
		return false, 0, ipperr.At(ipperr.StringError, addr, "GETCHAR: index %d out of range", idx)
	}
	dst.V = value.Str(r)
	e.advance(instr)
	return false, 0, nil
}

func opSetchar(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	dst, err := e.destSlot(instr.Operands[0], addr)
	if err != nil {
		return false, 0, err
	}
	// An Undef destination (never assigned) falls into this same branch as
	// any other wrong-type destination, reported as 53 rather than the
	// general unassigned-read 56: SETCHAR reads and rewrites its
	// destination's existing string in place, so a destination with no
	// string to rewrite is a type error at this site, not a missing-value
	// one.
	cur, ok := dst.V.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "SETCHAR: destination is %s, not string", dst.V.Type())
	}
	iv, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	rv, err := e.evalSymb(instr.Operands[2], addr)
	if err != nil {
		return false, 0, err
	}
	idx, ok := iv.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "SETCHAR: second operand is %s, not int", iv.Type())
	}
	repl, ok := rv.(value.Str)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "SETCHAR: third operand is %s, not string", rv.Type())
	}
	if int(idx) < 0 || int(idx) >= cur.Len() {
		return false, 0, ipperr.At(ipperr.StringError, addr, "SETCHAR: index %d out of range", idx)
	}
	if repl.Len() == 0 {
		return false, 0, ipperr.At(ipperr.StringError, addr, "SETCHAR: replacement string is empty")
	}
	dst.V = cur.WithRuneAt(int(idx), repl)
	e.advance(instr)
	return false, 0, nil
}
