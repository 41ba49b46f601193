package value

// NilType is the type of the Nil value. It is represented as a defined byte
// type, not struct{}, so that Nil can be a typed constant (mirrors the
// teacher's machine.NilType).
type NilType byte

// Nil is the sole NilType value.
const Nil = NilType(0)

var _ Value = Nil

func (NilType) String() string { return "" }
func (NilType) Type() string   { return "nil" }
