// Package decode implements the Operand Decoder: it turns a raw (type,
// text) pair from the XML into a typed Operand, including the integer
// literal grammar and the string escape grammar, both hand-rolled state
// machines rather than ambient parsers.
package decode

import (
	"fmt"
	"regexp"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/value"
	"github.com/mna/ippcode23/lang/xmlprog"
)

// Operand is the decoded form of one instruction argument. Exactly one of
// the accessor-relevant fields is meaningful, selected by Kind; a single
// struct rather than a tagged interface since an Operand has no behavior of
// its own beyond carrying its decoded data.
type Operand struct {
	Kind  Kind
	Frame string      // for Kind == Var: one of "GF", "LF", "TF"
	Name  string      // for Kind == Var (variable name) or Kind == Label/Type
	Const value.Value // for Kind == Const
}

// Kind identifies which Operand variant is populated.
type Kind uint8

const (
	KindVarRef Kind = iota
	KindConst
	KindLabelRef
	KindTypeRef
)

var varRe = regexp.MustCompile(`^(GF|LF|TF)@([a-zA-Z_\-$&%*!?][a-zA-Z0-9_\-$&%*!?]*)$`)

// nameRe matches the IPPcode23 identifier grammar used for label names,
// following original_source/interpret.py's check_label_re where the
// exact character class is otherwise unconstrained.
var nameRe = regexp.MustCompile(`^[a-zA-Z_\-$&%*!?][a-zA-Z0-9_\-$&%*!?]*$`)

// Decode converts one validated raw argument into an Operand. order is the
// instruction's source `order` attribute, used only to make error messages
// locatable before addresses have been assigned (program.Build runs before
// any instruction has a final address).
func Decode(raw xmlprog.RawArg, order int) (Operand, error) {
	switch raw.Type {
	case "var":
		return decodeVar(raw.Text, order)
	case "label":
		if !nameRe.MatchString(raw.Text) {
			return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: invalid label name %q", order, raw.Text)
		}
		return Operand{Kind: KindLabelRef, Name: raw.Text}, nil
	case "type":
		switch raw.Text {
		case "int", "string", "bool":
			return Operand{Kind: KindTypeRef, Name: raw.Text}, nil
		default:
			return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: invalid type name %q", order, raw.Text)
		}
	case "int":
		n, err := decodeInt(raw.Text)
		if err != nil {
			return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: invalid integer literal %q: %s", order, raw.Text, err)
		}
		return Operand{Kind: KindConst, Const: value.Int(n)}, nil
	case "string":
		s, err := decodeString(raw.Text)
		if err != nil {
			return Operand{}, ipperr.New(ipperr.StringError, "order %d: invalid string literal %q: %s", order, raw.Text, err)
		}
		return Operand{Kind: KindConst, Const: value.Str(s)}, nil
	case "bool":
		return Operand{Kind: KindConst, Const: value.Bool(raw.Text == "true")}, nil
	case "nil":
		if raw.Text != "nil" {
			return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: invalid nil literal %q", order, raw.Text)
		}
		return Operand{Kind: KindConst, Const: value.Nil}, nil
	default:
		return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: unknown argument type %q", order, raw.Type)
	}
}

func decodeVar(text string, order int) (Operand, error) {
	m := varRe.FindStringSubmatch(text)
	if m == nil {
		return Operand{}, ipperr.New(ipperr.XMLStructureError, "order %d: invalid variable reference %q", order, text)
	}
	return Operand{Kind: KindVarRef, Frame: m[1], Name: m[2]}, nil
}

// String renders an Operand for diagnostics (BREAK, internal errors).
func (o Operand) String() string {
	switch o.Kind {
	case KindVarRef:
		return fmt.Sprintf("%s@%s", o.Frame, o.Name)
	case KindConst:
		return fmt.Sprintf("%s(%s)", o.Const.Type(), o.Const.String())
	case KindLabelRef:
		return o.Name
	case KindTypeRef:
		return o.Name
	default:
		return "?"
	}
}
