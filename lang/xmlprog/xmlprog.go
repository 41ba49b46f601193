// Package xmlprog loads the IPPcode23 XML document into a RawProgram and
// applies the structural/lexical validation that sits outside the
// execution engine proper but must still exist for a runnable interpreter.
// See DESIGN.md for why this is the one package in the module that reaches
// for the standard library's encoding/xml rather than a third-party
// dependency.
package xmlprog

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/opcode"
)

// RawArg is a single decoded (but not yet interpreted) instruction operand.
type RawArg struct {
	Type string // one of: var, int, string, bool, nil, label, type
	Text string
}

// RawInstruction is one validated <instruction> element. Its order
// attribute has already been parsed to an int during validation (a
// malformed order is itself a structural error); operand texts are still
// raw.
type RawInstruction struct {
	Order  int
	Opcode string // normalized to upper case
	Args   []RawArg
}

// RawProgram is the full decoded-and-validated instruction list, still in
// source (XML document) order; lang/program.Build sorts it by Order.
type RawProgram struct {
	Instructions []RawInstruction
}

// xmlArg mirrors one <argN> element as encoding/xml sees it: an arbitrary
// tag name (arg1/arg2/arg3), a type attribute, and character data.
type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type xmlInstruction struct {
	Order  string   `xml:"order,attr"`
	Opcode string   `xml:"opcode,attr"`
	Args   []xmlArg `xml:",any"`
}

type xmlProgram struct {
	// XMLName deliberately carries no explicit tag name: encoding/xml
	// enforces an explicit XMLName tag against the root element and fails
	// the whole Decode (a parse error, 31) on mismatch, but a wrong root
	// tag should be a structural error (32) instead, so the check is done
	// by hand in validate() below.
	XMLName      xml.Name
	Language     string           `xml:"language,attr"`
	Instructions []xmlInstruction `xml:"instruction"`
}

// Load parses r as the IPPcode23 XML document and validates its structure.
// A parse error maps to ipperr.XMLParseError (31); any structural
// violation maps to ipperr.XMLStructureError (32).
func Load(r io.Reader) (*RawProgram, error) {
	var doc xmlProgram
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, ipperr.New(ipperr.XMLParseError, "invalid XML: %s", err)
	}
	return validate(&doc)
}

func validate(doc *xmlProgram) (*RawProgram, error) {
	if doc.XMLName.Local != "program" {
		return nil, ipperr.New(ipperr.XMLStructureError, "root element is not <program>")
	}
	if doc.Language != "IPPcode23" {
		return nil, ipperr.New(ipperr.XMLStructureError, "missing or invalid language attribute")
	}

	// Note: order uniqueness is NOT checked here. lang/program.Build sorts
	// by order immediately afterward and is the natural place to notice an
	// adjacent duplicate; this validator only checks that each order
	// attribute is syntactically a non-negative integer.
	out := &RawProgram{Instructions: make([]RawInstruction, 0, len(doc.Instructions))}
	for _, xi := range doc.Instructions {
		ri, err := validateInstruction(xi)
		if err != nil {
			return nil, err
		}
		out.Instructions = append(out.Instructions, ri)
	}
	return out, nil
}

var orderRe = regexp.MustCompile(`^[0-9]+$`)

func validateInstruction(xi xmlInstruction) (RawInstruction, error) {
	if !orderRe.MatchString(xi.Order) {
		return RawInstruction{}, ipperr.New(ipperr.XMLStructureError, "missing or invalid order attribute %q", xi.Order)
	}
	var order int
	if _, err := fmt.Sscanf(xi.Order, "%d", &order); err != nil {
		return RawInstruction{}, ipperr.New(ipperr.XMLStructureError, "invalid order attribute %q", xi.Order)
	}

	normalized := strings.ToUpper(xi.Opcode)
	op, ok := opcode.Parse(normalized)
	if !ok {
		return RawInstruction{}, ipperr.New(ipperr.XMLStructureError, "unknown opcode %q", xi.Opcode)
	}
	shape, _ := opcode.Shape(op)

	if len(xi.Args) != len(shape) {
		return RawInstruction{}, ipperr.New(ipperr.XMLStructureError, "%s: expected %d argument(s), got %d", normalized, len(shape), len(xi.Args))
	}

	args := make([]RawArg, len(xi.Args))
	for i, xa := range xi.Args {
		if xa.XMLName.Local != fmt.Sprintf("arg%d", i+1) {
			return RawInstruction{}, ipperr.New(ipperr.XMLStructureError, "%s: argument %d is not <arg%d>", normalized, i+1, i+1)
		}
		if err := validateArgType(shape[i], xa.Type); err != nil {
			return RawInstruction{}, ipperr.At(ipperr.XMLStructureError, 0, "%s: argument %d: %s", normalized, i+1, err)
		}
		args[i] = RawArg{Type: xa.Type, Text: xa.Text}
	}

	return RawInstruction{Order: order, Opcode: normalized, Args: args}, nil
}

func validateArgType(want opcode.Kind, argType string) error {
	switch want {
	case opcode.KindVar:
		if argType != "var" {
			return fmt.Errorf("expected type=var, got %q", argType)
		}
	case opcode.KindLabel:
		if argType != "label" {
			return fmt.Errorf("expected type=label, got %q", argType)
		}
	case opcode.KindType:
		if argType != "type" {
			return fmt.Errorf("expected type=type, got %q", argType)
		}
	case opcode.KindSymb:
		switch argType {
		case "var", "int", "string", "bool", "nil":
		default:
			return fmt.Errorf("expected type in var|int|string|bool|nil, got %q", argType)
		}
	}
	return nil
}
