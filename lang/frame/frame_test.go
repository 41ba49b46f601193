package frame_test

import (
	"testing"

	"github.com/mna/ippcode23/lang/frame"
	"github.com/mna/ippcode23/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDeclareAndLookup(t *testing.T) {
	f := frame.New(4)

	assert.Nil(t, f.Lookup("x"))

	ok := f.Declare("x")
	assert.True(t, ok)

	slot := f.Lookup("x")
	require.NotNil(t, slot)
	assert.Equal(t, value.Undef, slot.V)

	// re-declaring an existing name is rejected (DEFVAR on an existing name
	// is fatal 52 at the call site; Frame just reports false).
	ok = f.Declare("x")
	assert.False(t, ok)
}

func TestFrameSlotMutation(t *testing.T) {
	f := frame.New(1)
	f.Declare("x")
	slot := f.Lookup("x")
	slot.V = value.Int(7)

	// the same slot is returned by a subsequent Lookup, so the mutation is
	// visible without re-declaring.
	assert.Equal(t, value.Int(7), f.Lookup("x").V)
}

func TestFrameNames(t *testing.T) {
	f := frame.New(2)
	f.Declare("a")
	f.Declare("b")
	assert.ElementsMatch(t, []string{"a", "b"}, f.Names())
}

func TestDataStack(t *testing.T) {
	var s frame.DataStack
	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push(value.Int(1))
	s.Push(value.Str("x"))

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, value.Str("x"), v)

	v, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, value.Int(1), v)

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestCallStack(t *testing.T) {
	var s frame.CallStack
	assert.Equal(t, 0, s.Depth())

	s.Push(3)
	s.Push(7)
	assert.Equal(t, 2, s.Depth())

	addr, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, 7, addr)
	assert.Equal(t, 1, s.Depth())
}

func TestFrameStack(t *testing.T) {
	var s frame.FrameStack
	assert.Nil(t, s.Top())

	f1 := frame.New(0)
	f1.Declare("a")
	s.Push(f1)
	assert.Equal(t, f1, s.Top())

	got, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, f1, got)

	_, ok = s.Pop()
	assert.False(t, ok)
}
