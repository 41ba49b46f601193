package machine

import "github.com/mna/ippcode23/lang/opcode"

// dispatch is the static opcode → handler table, built once rather than
// switched on at every fetch-decode-execute cycle.
var dispatch = map[opcode.Opcode]handlerFunc{
	opcode.MOVE:     opMove,
	opcode.NOT:      opNot,
	opcode.INT2CHAR: opInt2Char,
	opcode.STRLEN:   opStrlen,
	opcode.TYPE:     opType,

	opcode.CREATEFRAME: opCreateframe,
	opcode.PUSHFRAME:   opPushframe,
	opcode.POPFRAME:    opPopframe,
	opcode.RETURN:      opReturn,
	opcode.BREAK:       opBreak,

	opcode.DEFVAR: opDefvar,
	opcode.POPS:   opPops,

	opcode.CALL:  opCall,
	opcode.LABEL: opLabel,
	opcode.JUMP:  opJump,

	opcode.PUSHS:  opPushs,
	opcode.WRITE:  opWrite,
	opcode.EXIT:   opExit,
	opcode.DPRINT: opDprint,

	opcode.ADD:      opAdd,
	opcode.SUB:      opSub,
	opcode.MUL:      opMul,
	opcode.IDIV:     opIdiv,
	opcode.LT:       opLt,
	opcode.GT:       opGt,
	opcode.EQ:       opEq,
	opcode.AND:      opAnd,
	opcode.OR:       opOr,
	opcode.STRI2INT: opStri2int,
	opcode.CONCAT:   opConcat,
	opcode.GETCHAR:  opGetchar,
	opcode.SETCHAR:  opSetchar,

	opcode.READ: opRead,

	opcode.JUMPIFEQ:  opJumpifeq,
	opcode.JUMPIFNEQ: opJumpifneq,
}
