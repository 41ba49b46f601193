package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/label"
	"github.com/mna/ippcode23/lang/machine"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/xmlprog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run builds and executes the XML document doc against input, returning its
// stdout, stderr and exit code. It exercises the same lang/xmlprog →
// lang/program → lang/label → lang/machine pipeline internal/maincmd.Interpret
// drives, without depending on the maincmd package.
func run(t *testing.T, doc, input string) (stdout, stderr string, code int) {
	t.Helper()

	raw, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)

	prog, err := program.Build(raw)
	require.NoError(t, err)

	labels, err := label.Build(prog)
	require.NoError(t, err)

	var outBuf, errBuf bytes.Buffer
	eng := machine.New(prog, labels)
	eng.Stdout = &outBuf
	eng.Stderr = &errBuf
	eng.Stdin = strings.NewReader(input)

	c, _ := eng.Run()
	return outBuf.String(), errBuf.String(), c
}

func instr(order int, opcode string, args string) string {
	return `<instruction order="` + itoa(order) + `" opcode="` + opcode + `">` + args + `</instruction>`
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func program23(body string) string {
	return `<program language="IPPcode23">` + body + `</program>`
}

func arg(n int, typ, text string) string {
	return `<arg` + itoa(n) + ` type="` + typ + `">` + text + `</arg` + itoa(n) + `>`
}

// TestHelloWorld runs the canonical hello-world program.
func TestHelloWorld(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@s")) +
			instr(2, "MOVE", arg(1, "var", "GF@s")+arg(2, "string", "Hello")) +
			instr(3, "WRITE", arg(1, "var", "GF@s")) +
			instr(4, "EXIT", arg(1, "int", "0")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "Hello", stdout)
	assert.Equal(t, 0, code)
}

// TestArithmeticAndIdiv exercises integer division.
func TestArithmeticAndIdiv(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@a")) +
			instr(2, "MOVE", arg(1, "var", "GF@a")+arg(2, "int", "10")) +
			instr(3, "DEFVAR", arg(1, "var", "GF@b")) +
			instr(4, "MOVE", arg(1, "var", "GF@b")+arg(2, "int", "3")) +
			instr(5, "DEFVAR", arg(1, "var", "GF@q")) +
			instr(6, "IDIV", arg(1, "var", "GF@q")+arg(2, "var", "GF@a")+arg(3, "var", "GF@b")) +
			instr(7, "WRITE", arg(1, "var", "GF@q")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "3", stdout)
	assert.Equal(t, 0, code)
}

func TestIdivByZero(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@a")) +
			instr(2, "MOVE", arg(1, "var", "GF@a")+arg(2, "int", "10")) +
			instr(3, "DEFVAR", arg(1, "var", "GF@b")) +
			instr(4, "MOVE", arg(1, "var", "GF@b")+arg(2, "int", "0")) +
			instr(5, "DEFVAR", arg(1, "var", "GF@q")) +
			instr(6, "IDIV", arg(1, "var", "GF@q")+arg(2, "var", "GF@a")+arg(3, "var", "GF@b")),
	)
	_, _, code := run(t, doc, "")
	assert.Equal(t, ipperr.BadOperandValue, code)
}

// TestFrameLifecycle exercises CREATEFRAME/PUSHFRAME/POPFRAME.
func TestFrameLifecycle(t *testing.T) {
	doc := program23(
		instr(1, "CREATEFRAME", "") +
			instr(2, "DEFVAR", arg(1, "var", "TF@x")) +
			instr(3, "MOVE", arg(1, "var", "TF@x")+arg(2, "int", "7")) +
			instr(4, "PUSHFRAME", "") +
			instr(5, "WRITE", arg(1, "var", "LF@x")) +
			instr(6, "POPFRAME", "") +
			instr(7, "WRITE", arg(1, "var", "TF@x")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "77", stdout)
	assert.Equal(t, 0, code)
}

// TestCallReturn exercises CALL/RETURN and the data stack round trip.
func TestCallReturn(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@r")) +
			instr(2, "JUMP", arg(1, "label", "main")) +
			instr(3, "LABEL", arg(1, "label", "f")) +
			instr(4, "PUSHS", arg(1, "int", "1")) +
			instr(5, "RETURN", "") +
			instr(6, "LABEL", arg(1, "label", "main")) +
			instr(7, "CALL", arg(1, "label", "f")) +
			instr(8, "POPS", arg(1, "var", "GF@r")) +
			instr(9, "WRITE", arg(1, "var", "GF@r")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "1", stdout)
	assert.Equal(t, 0, code)
}

// TestLabelMissing jumps to a label that was never defined.
func TestLabelMissing(t *testing.T) {
	doc := program23(instr(1, "JUMP", arg(1, "label", "nope")))
	_, _, code := run(t, doc, "")
	assert.Equal(t, ipperr.SemanticError, code)
}

// TestTypeCoercionForbidden adds an int to a string and expects a type
// mismatch rather than an implicit coercion.
func TestTypeCoercionForbidden(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@a")) +
			instr(2, "MOVE", arg(1, "var", "GF@a")+arg(2, "int", "1")) +
			instr(3, "DEFVAR", arg(1, "var", "GF@b")) +
			instr(4, "MOVE", arg(1, "var", "GF@b")+arg(2, "string", "x")) +
			instr(5, "ADD", arg(1, "var", "GF@a")+arg(2, "var", "GF@a")+arg(3, "var", "GF@b")),
	)
	_, _, code := run(t, doc, "")
	assert.Equal(t, ipperr.TypeMismatch, code)
}

func TestReadEOFYieldsNil(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@x")) +
			instr(2, "READ", arg(1, "var", "GF@x")+arg(2, "type", "int")) +
			instr(3, "WRITE", arg(1, "var", "GF@x")) +
			instr(4, "DEFVAR", arg(1, "var", "GF@t")) +
			instr(5, "TYPE", arg(1, "var", "GF@t")+arg(2, "var", "GF@x")) +
			instr(6, "WRITE", arg(1, "var", "GF@t")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "nil", stdout)
	assert.Equal(t, 0, code)
}

func TestReadParsesLineByType(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@x")) +
			instr(2, "READ", arg(1, "var", "GF@x")+arg(2, "type", "int")) +
			instr(3, "WRITE", arg(1, "var", "GF@x")),
	)
	stdout, _, code := run(t, doc, "42\n")
	assert.Equal(t, "42", stdout)
	assert.Equal(t, 0, code)
}

func TestUndeclaredVariableAccess(t *testing.T) {
	doc := program23(instr(1, "WRITE", arg(1, "var", "GF@nope")))
	_, _, code := run(t, doc, "")
	assert.Equal(t, ipperr.UndeclaredVariable, code)
}

func TestDataStackRoundTrip(t *testing.T) {
	// PUSHS v; POPS x should leave x equal to v.
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@x")) +
			instr(2, "PUSHS", arg(1, "string", "round-trip")) +
			instr(3, "POPS", arg(1, "var", "GF@x")) +
			instr(4, "WRITE", arg(1, "var", "GF@x")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "round-trip", stdout)
	assert.Equal(t, 0, code)
}

func TestExitOutOfRange(t *testing.T) {
	doc := program23(instr(1, "EXIT", arg(1, "int", "50")))
	_, _, code := run(t, doc, "")
	assert.Equal(t, ipperr.BadOperandValue, code)
}

func TestBreakWritesToStderr(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@x")) +
			instr(2, "MOVE", arg(1, "var", "GF@x")+arg(2, "int", "1")) +
			instr(3, "BREAK", ""),
	)
	_, stderr, code := run(t, doc, "")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "BREAK")
	assert.Contains(t, stderr, "GF")
}

func TestMaxStepsAborts(t *testing.T) {
	doc := program23(
		instr(1, "LABEL", arg(1, "label", "loop")) +
			instr(2, "JUMP", arg(1, "label", "loop")),
	)
	raw, err := xmlprog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	prog, err := program.Build(raw)
	require.NoError(t, err)
	labels, err := label.Build(prog)
	require.NoError(t, err)

	eng := machine.New(prog, labels)
	eng.MaxSteps = 100
	var outBuf, errBuf bytes.Buffer
	eng.Stdout, eng.Stderr = &outBuf, &errBuf

	code, err := eng.Run()
	assert.Error(t, err)
	assert.Equal(t, ipperr.InternalError, code)
}

// TestDefvarMoveType declares a variable, assigns it, and reads its dynamic
// type back, covering the DEFVAR → MOVE → TYPE sequence end to end.
func TestDefvarMoveType(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@x")) +
			instr(2, "MOVE", arg(1, "var", "GF@x")+arg(2, "bool", "true")) +
			instr(3, "DEFVAR", arg(1, "var", "GF@t")) +
			instr(4, "TYPE", arg(1, "var", "GF@t")+arg(2, "var", "GF@x")) +
			instr(5, "WRITE", arg(1, "var", "GF@t")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "bool", stdout)
	assert.Equal(t, 0, code)
}

// TestEqReflexiveAndTransitive checks that EQ treats a value as equal to
// itself, and that two separately-derived equal values compare equal too.
func TestEqReflexiveAndTransitive(t *testing.T) {
	doc := program23(
		instr(1, "DEFVAR", arg(1, "var", "GF@a")) +
			instr(2, "MOVE", arg(1, "var", "GF@a")+arg(2, "int", "5")) +
			instr(3, "DEFVAR", arg(1, "var", "GF@b")) +
			instr(4, "MOVE", arg(1, "var", "GF@b")+arg(2, "int", "2")) +
			instr(5, "DEFVAR", arg(1, "var", "GF@c")) +
			instr(6, "MOVE", arg(1, "var", "GF@c")+arg(2, "int", "3")) +
			instr(7, "ADD", arg(1, "var", "GF@b")+arg(2, "var", "GF@b")+arg(3, "var", "GF@c")) +
			// b is now 5, same as a: reflexivity (a==a) and transitivity (a==5, b==5 => a==b)
			instr(8, "DEFVAR", arg(1, "var", "GF@r1")) +
			instr(9, "EQ", arg(1, "var", "GF@r1")+arg(2, "var", "GF@a")+arg(3, "var", "GF@a")) +
			instr(10, "DEFVAR", arg(1, "var", "GF@r2")) +
			instr(11, "EQ", arg(1, "var", "GF@r2")+arg(2, "var", "GF@a")+arg(3, "var", "GF@b")) +
			instr(12, "WRITE", arg(1, "var", "GF@r1")) +
			instr(13, "WRITE", arg(1, "var", "GF@r2")),
	)
	stdout, _, code := run(t, doc, "")
	assert.Equal(t, "truetrue", stdout)
	assert.Equal(t, 0, code)
}
