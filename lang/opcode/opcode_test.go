package opcode

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for op := MOVE; op < opcodeMax; op++ {
		name := op.String()
		got, ok := Parse(name)
		if !ok {
			t.Errorf("Parse(%q) failed for opcode %d", name, op)
			continue
		}
		if got != op {
			t.Errorf("Parse(%q) = %d, want %d", name, got, op)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, ok := Parse("NOTANOPCODE"); ok {
		t.Error("Parse should reject an unknown mnemonic")
	}
}

func TestShapeEveryOpcode(t *testing.T) {
	for op := MOVE; op < opcodeMax; op++ {
		if _, ok := Shape(op); !ok {
			t.Errorf("Shape(%d) missing for opcode %s", op, op)
		}
	}
	if _, ok := Shape(opcodeMax); ok {
		t.Error("Shape(opcodeMax) should report not-found")
	}
}

func TestShapeArities(t *testing.T) {
	cases := map[Opcode]int{
		MOVE:        2,
		CREATEFRAME: 0,
		DEFVAR:      1,
		CALL:        1,
		ADD:         3,
		READ:        2,
		JUMPIFEQ:    3,
	}
	for op, want := range cases {
		shape, _ := Shape(op)
		if len(shape) != want {
			t.Errorf("Shape(%s) has arity %d, want %d", op, len(shape), want)
		}
	}
}
