// Package value implements the runtime value model of the IPPcode23
// engine: a closed, tagged union of Int, Bool, Str, Nil and Undef.
package value

// Value is the interface implemented by every value a variable slot, the
// data stack, or an operand may hold.
type Value interface {
	// String returns the textual form used by WRITE/DPRINT (not quoted,
	// not escaped back to \ddd form).
	String() string

	// Type returns the type name as produced by the TYPE instruction:
	// "int", "bool", "string", "nil", or "" for Undef.
	Type() string
}

// Ordered is implemented by value types that support LT/GT comparison
// against another value of the same concrete type.
type Ordered interface {
	Value

	// Cmp compares the receiver to y, which is guaranteed by the caller to
	// share the receiver's concrete type. It returns a negative number if
	// the receiver is less than y, a positive number if greater, and zero
	// if equal.
	Cmp(y Value) int
}
