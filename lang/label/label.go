// Package label implements the label pre-pass: every LABEL in the program
// is collected into an address table before the first instruction executes,
// so CALL/JUMP never resolve a label lazily mid-run. Collect all bindings
// first, detect conflicts, only then let anything reference them; a single
// flat namespace since IPPcode23 labels have no scoping.
package label

import (
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/opcode"
	"github.com/mna/ippcode23/lang/program"
)

// Table maps a label name to the address of its LABEL instruction.
type Table map[string]int

// Build scans every instruction in prog for LABEL and returns the resulting
// table. A label name reused by a second LABEL instruction is a semantic
// error (52), detected here rather than at JUMP/CALL time since the whole
// table is built up front.
func Build(prog *program.Program) (Table, error) {
	table := make(Table)
	for _, instr := range prog.Instructions {
		if instr.Opcode != opcode.LABEL {
			continue
		}
		name := instr.Operands[0].Name
		if _, dup := table[name]; dup {
			return nil, ipperr.At(ipperr.SemanticError, instr.Address+1, "label %q redefined", name)
		}
		table[name] = instr.Address
	}
	return table, nil
}
