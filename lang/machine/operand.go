package machine

import (
	"github.com/mna/ippcode23/lang/decode"
	"github.com/mna/ippcode23/lang/frame"
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/value"
)

// evalSymb evaluates a "symb" operand (constant or variable reference) to
// its Value, failing 56 if it names a variable whose slot is still Undef.
func (e *Engine) evalSymb(op decode.Operand, addr int) (value.Value, error) {
	switch op.Kind {
	case decode.KindConst:
		return op.Const, nil
	case decode.KindVarRef:
		return e.readDefined(op.Frame, op.Name, addr)
	default:
		return nil, ipperr.At(ipperr.InternalError, addr, "operand %s is not a symb", op)
	}
}

// evalSymbTolerant evaluates a "symb" operand like evalSymb, but allows a
// variable operand to be Undef, returning value.Undef rather than failing.
// Used only by TYPE: undeclared is still 54, declared-but-unassigned
// yields "".
func (e *Engine) evalSymbTolerant(op decode.Operand, addr int) (value.Value, error) {
	switch op.Kind {
	case decode.KindConst:
		return op.Const, nil
	case decode.KindVarRef:
		slot, err := e.lookupSlot(op.Frame, op.Name, addr)
		if err != nil {
			return nil, err
		}
		return slot.V, nil
	default:
		return nil, ipperr.At(ipperr.InternalError, addr, "operand %s is not a symb", op)
	}
}

// destSlot resolves a "var" operand (an assignment destination) to its
// slot, without regard to its current value.
func (e *Engine) destSlot(op decode.Operand, addr int) (*frame.Slot, error) {
	return e.lookupSlot(op.Frame, op.Name, addr)
}
