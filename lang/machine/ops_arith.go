package machine

import (
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func binaryOp(e *Engine, instr program.Instruction, apply func(x, y value.Int) (value.Value, error)) (bool, int, error) {
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
	x, ok := xv.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "expected int, got %s", xv.Type())
	}
	y, ok := yv.(value.Int)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "expected int, got %s", yv.Type())
	}
	result, err := apply(x, y)
	if err != nil {
		return false, 0, err
	}
	dst.V = result
	e.advance(instr)
	return false, 0, nil
}

func opAdd(e *Engine, instr program.Instruction) (bool, int, error) {
	return binaryOp(e, instr, func(x, y value.Int) (value.Value, error) { return x + y, nil })
}

func opSub(e *Engine, instr program.Instruction) (bool, int, error) {
	return binaryOp(e, instr, func(x, y value.Int) (value.Value, error) { return x - y, nil })
}

func opMul(e *Engine, instr program.Instruction) (bool, int, error) {
	return binaryOp(e, instr, func(x, y value.Int) (value.Value, error) { return x * y, nil })
}

func opIdiv(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	return binaryOp(e, instr, func(x, y value.Int) (value.Value, error) {
		if y == 0 {
			return nil, ipperr.At(ipperr.BadOperandValue, addr, "IDIV: division by zero")
		}
		return x / y, nil
	})
}

func logicOp(e *Engine, instr program.Instruction, apply func(x, y value.Bool) value.Bool) (bool, int, error) {
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
	x, ok := xv.(value.Bool)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "expected bool, got %s", xv.Type())
	}
	y, ok := yv.(value.Bool)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "expected bool, got %s", yv.Type())
	}
	dst.V = apply(x, y)
	e.advance(instr)
	return false, 0, nil
}

func opAnd(e *Engine, instr program.Instruction) (bool, int, error) {
	return logicOp(e, instr, func(x, y value.Bool) value.Bool { return x && y })
}

func opOr(e *Engine, instr program.Instruction) (bool, int, error) {
	return logicOp(e, instr, func(x, y value.Bool) value.Bool { return x || y })
}

// orderedCompare implements LT/GT: both operands must share a concrete,
// non-Nil, Ordered-implementing type.
func orderedCompare(e *Engine, instr program.Instruction, wantLess bool) (bool, int, error) {
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
	if xv.Type() != yv.Type() || xv.Type() == "nil" {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "cannot compare %s with %s", xv.Type(), yv.Type())
	}
	xo, ok := xv.(value.Ordered)
	if !ok {
		return false, 0, ipperr.At(ipperr.TypeMismatch, addr, "%s is not an orderable type", xv.Type())
	}
	cmp := xo.Cmp(yv)
	result := cmp > 0
	if wantLess {
		result = cmp < 0
	}
	dst.V = value.Bool(result)
	e.advance(instr)
	return false, 0, nil
}

func opLt(e *Engine, instr program.Instruction) (bool, int, error) {
	return orderedCompare(e, instr, true)
}

func opGt(e *Engine, instr program.Instruction) (bool, int, error) {
	return orderedCompare(e, instr, false)
}

func opEq(e *Engine, instr program.Instruction) (bool, int, error) {
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
	eq, err := valuesEqual(xv, yv, addr)
	if err != nil {
		return false, 0, err
	}
	dst.V = value.Bool(eq)
	e.advance(instr)
	return false, 0, nil
}

// valuesEqual implements the nil-tolerant EQ rule shared by EQ,
// JUMPIFEQ and JUMPIFNEQ: operands must share a concrete type, or at least
// one must be Nil; Nil == Nil is true, Nil vs. anything else is false.
func valuesEqual(x, y value.Value, addr int) (bool, error) {
	if x.Type() == "nil" || y.Type() == "nil" {
		return x.Type() == y.Type(), nil
	}
	if x.Type() != y.Type() {
		return false, ipperr.At(ipperr.TypeMismatch, addr, "cannot compare %s with %s", x.Type(), y.Type())
	}
	xo, ok := x.(value.Ordered)
	if !ok {
		return false, ipperr.At(ipperr.TypeMismatch, addr, "%s is not comparable", x.Type())
	}
	return xo.Cmp(y) == 0, nil
}
