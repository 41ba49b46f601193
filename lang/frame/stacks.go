package frame

import "github.com/mna/ippcode23/lang/value"

// DataStack is the LIFO of Values manipulated by PUSHS/POPS. It holds
// values, not slots: popping it never observes a variable's
// identity, only a snapshot of its value at push time.
type DataStack struct {
	vals []value.Value
}

func (s *DataStack) Push(v value.Value) { s.vals = append(s.vals, v) }

// Pop removes and returns the top value. ok is false if the stack is empty
// (fatal 56).
func (s *DataStack) Pop() (value.Value, bool) {
	if len(s.vals) == 0 {
		return nil, false
	}
	n := len(s.vals) - 1
	v := s.vals[n]
	s.vals = s.vals[:n]
	return v, true
}

// CallStack is the LIFO of return addresses manipulated by CALL/RETURN.
type CallStack struct {
	addrs []int
}

func (s *CallStack) Push(addr int) { s.addrs = append(s.addrs, addr) }

// Pop removes and returns the top return address. ok is false if the stack
// is empty (RETURN with an empty call stack is fatal 56).
func (s *CallStack) Pop() (int, bool) {
	if len(s.addrs) == 0 {
		return 0, false
	}
	n := len(s.addrs) - 1
	a := s.addrs[n]
	s.addrs = s.addrs[:n]
	return a, true
}

// Depth reports the current call-stack depth, for diagnostics.
func (s *CallStack) Depth() int { return len(s.addrs) }

// FrameStack is the LIFO of local Frames manipulated by PUSHFRAME/POPFRAME.
type FrameStack struct {
	frames []*Frame
}

func (s *FrameStack) Push(f *Frame) { s.frames = append(s.frames, f) }

// Pop removes and returns the top frame. ok is false if the stack is empty
// (POPFRAME with no pushed frame is fatal 55).
func (s *FrameStack) Pop() (*Frame, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames = s.frames[:n]
	return f, true
}

// Top returns the current local frame (LF = top(frame_stack)), or nil if
// the stack is empty.
func (s *FrameStack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}
