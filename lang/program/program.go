// Package program builds the linked, address-resolved form of a loaded
// document, sitting between lang/xmlprog (structural validation) and
// lang/label (the two-phase label pass) in the load pipeline.
package program

import (
	"github.com/mna/ippcode23/lang/decode"
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/opcode"
	"github.com/mna/ippcode23/lang/xmlprog"
	"golang.org/x/exp/slices"
)

// Instruction is one fully decoded instruction, addressed by its position in
// the sorted program rather than by its source order attribute.
type Instruction struct {
	Address  int
	Opcode   opcode.Opcode
	Operands []decode.Operand
	Order    int // retained for diagnostics only
}

// Program is the complete, address-linked instruction sequence ready for
// execution. Label resolution (lang/label) is a separate pass over this
// type, not folded into Build, keeping the pipeline two stages.
type Program struct {
	Instructions []Instruction
}

// Build sorts raw's instructions by their order attribute, rejects a
// repeated order value as a structural error, decodes every operand via
// lang/decode, and assigns each instruction its 0-based address.
func Build(raw *xmlprog.RawProgram) (*Program, error) {
	sorted := make([]xmlprog.RawInstruction, len(raw.Instructions))
	copy(sorted, raw.Instructions)
	slices.SortFunc(sorted, func(a, b xmlprog.RawInstruction) int {
		return a.Order - b.Order
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Order == sorted[i-1].Order {
			return nil, ipperr.New(ipperr.XMLStructureError, "duplicate instruction order %d", sorted[i].Order)
		}
	}

	prog := &Program{Instructions: make([]Instruction, len(sorted))}
	for addr, ri := range sorted {
		op, ok := opcode.Parse(ri.Opcode)
		if !ok {
			return nil, ipperr.New(ipperr.XMLStructureError, "order %d: unknown opcode %q", ri.Order, ri.Opcode)
		}

		operands := make([]decode.Operand, len(ri.Args))
		for i, raw := range ri.Args {
			o, err := decode.Decode(raw, ri.Order)
			if err != nil {
				return nil, err
			}
			operands[i] = o
		}

		prog.Instructions[addr] = Instruction{
			Address:  addr,
			Opcode:   op,
			Operands: operands,
			Order:    ri.Order,
		}
	}
	return prog, nil
}
