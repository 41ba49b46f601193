package label_test

import (
	"testing"

	"github.com/mna/ippcode23/lang/decode"
	"github.com/mna/ippcode23/lang/label"
	"github.com/mna/ippcode23/lang/opcode"
	"github.com/mna/ippcode23/lang/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelInstr(addr int, name string) program.Instruction {
	return program.Instruction{
		Address:  addr,
		Opcode:   opcode.LABEL,
		Operands: []decode.Operand{{Kind: decode.KindLabelRef, Name: name}},
	}
}

func TestBuildCollectsLabels(t *testing.T) {
	prog := &program.Program{Instructions: []program.Instruction{
		{Address: 0, Opcode: opcode.JUMP, Operands: []decode.Operand{{Kind: decode.KindLabelRef, Name: "main"}}},
		labelInstr(1, "skip"),
		labelInstr(2, "main"),
	}}

	table, err := label.Build(prog)
	require.NoError(t, err)
	assert.Equal(t, label.Table{"skip": 1, "main": 2}, table)
}

func TestBuildRejectsDuplicateLabel(t *testing.T) {
	prog := &program.Program{Instructions: []program.Instruction{
		labelInstr(0, "loop"),
		labelInstr(1, "loop"),
	}}

	_, err := label.Build(prog)
	assert.Error(t, err)
}

// TestBuildIdempotent verifies that re-running the pre-pass on the same
// program yields an identical label table.
func TestBuildIdempotent(t *testing.T) {
	prog := &program.Program{Instructions: []program.Instruction{
		labelInstr(0, "a"),
		labelInstr(1, "b"),
	}}

	t1, err := label.Build(prog)
	require.NoError(t, err)
	t2, err := label.Build(prog)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}
