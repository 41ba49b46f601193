package machine

import (
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
)

// jumpTo resolves a label operand to its address, failing 52 if the name
// was never recorded by the pre-pass (lang/label.Build already rejected
// duplicates; this only rejects "never defined").
func (e *Engine) jumpTo(name string, addr int) (int, error) {
	target, ok := e.labels[name]
	if !ok {
		return 0, ipperr.At(ipperr.SemanticError, addr, "label %q is undefined", name)
	}
	return target, nil
}

// opLabel is a no-op at runtime: the pre-pass already recorded its address,
// and execution simply falls through to the next instruction.
func opLabel(e *Engine, instr program.Instruction) (bool, int, error) {
	e.advance(instr)
	return false, 0, nil
}

func opJump(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	target, err := e.jumpTo(instr.Operands[0].Name, addr)
	if err != nil {
		return false, 0, err
	}
	e.pc = target
	return false, 0, nil
}

func opCall(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	target, err := e.jumpTo(instr.Operands[0].Name, addr)
	if err != nil {
		return false, 0, err
	}
	e.calls.Push(instr.Address + 1)
	e.pc = target
	return false, 0, nil
}

func opReturn(e *Engine, instr program.Instruction) (bool, int, error) {
	addr := instr.Address + 1
	ret, ok := e.calls.Pop()
	if !ok {
		return false, 0, ipperr.At(ipperr.MissingValue, addr, "RETURN: call stack is empty")
	}
	e.pc = ret
	return false, 0, nil
}

func condJump(e *Engine, instr program.Instruction, wantEqual bool) (bool, int, error) {
	addr := instr.Address + 1
	x, err := e.evalSymb(instr.Operands[1], addr)
	if err != nil {
		return false, 0, err
	}
	y, err := e.evalSymb(instr.Operands[2], addr)
	if err != nil {
		return false, 0, err
	}
	eq, err := valuesEqual(x, y, addr)
	if err != nil {
		return false, 0, err
	}
	if eq == wantEqual {
		target, err := e.jumpTo(instr.Operands[0].Name, addr)
		if err != nil {
			return false, 0, err
		}
		e.pc = target
		return false, 0, nil
	}
	e.advance(instr)
	return false, 0, nil
}

func opJumpifeq(e *Engine, instr program.Instruction) (bool, int, error) {
	return condJump(e, instr, true)
}

func opJumpifneq(e *Engine, instr program.Instruction) (bool, int, error) {
	return condJump(e, instr, false)
}
