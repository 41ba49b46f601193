// Package frame implements the frame & stack model: the global/local/
// temporary frames (each a name→slot map), and the three LIFO stacks
// (data, call, frame) that the engine threads through instruction
// execution.
package frame

import (
	"github.com/dolthub/swiss"
	"github.com/mna/ippcode23/lang/value"
)

// Slot is a single variable's storage: it starts Undef and is reassigned
// (both type and value change together) by MOVE and the arithmetic/string
// opcodes.
type Slot struct {
	V value.Value
}

// Frame is a name→slot map: keys unique within a frame, insertion order
// irrelevant, exactly the shape github.com/dolthub/swiss is built for.
type Frame struct {
	vars *swiss.Map[string, *Slot]
}

// New returns an empty frame with initial capacity for about size
// variables (a capacity hint, not a hard limit).
func New(size int) *Frame {
	if size < 0 {
		size = 0
	}
	return &Frame{vars: swiss.NewMap[string, *Slot](uint32(size))}
}

// Declare creates a new Undef slot named name. It reports false if name is
// already declared in this frame (DEFVAR on a pre-existing name is fatal
// 52).
func (f *Frame) Declare(name string) bool {
	if f.vars.Has(name) {
		return false
	}
	f.vars.Put(name, &Slot{V: value.Undef})
	return true
}

// Lookup returns the slot named name, or nil if this frame has no such
// variable (fatal 54 at the call site).
func (f *Frame) Lookup(name string) *Slot {
	s, ok := f.vars.Get(name)
	if !ok {
		return nil
	}
	return s
}

// Names returns every variable name declared in this frame, in map
// iteration order (unspecified: insertion order is irrelevant here).
// Callers that need a stable order for diagnostics (BREAK) sort the result
// themselves.
func (f *Frame) Names() []string {
	names := make([]string, 0, f.vars.Count())
	f.vars.Iter(func(k string, _ *Slot) bool {
		names = append(names, k)
		return false
	})
	return names
}
