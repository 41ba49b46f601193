package value

import (
	"strings"
	"unicode/utf8"
)

// Str is the type of string values: a Unicode code-point sequence. It is
// stored as a Go string (UTF-8 bytes) but all
// length/index/slice operations in the machine operate on code points, not
// bytes, via the utf8 package.
type Str string

var (
	_ Value   = Str("")
	_ Ordered = Str("")
)

func (s Str) String() string { return string(s) }
func (s Str) Type() string   { return "string" }

// Cmp compares two strings lexicographically over code points. Go's
// strings.Compare already orders by code point for valid UTF-8, since
// UTF-8 byte order matches code-point order.
func (s Str) Cmp(y Value) int {
	other := y.(Str)
	return strings.Compare(string(s), string(other))
}

// Len returns the number of Unicode code points in s (for STRLEN).
func (s Str) Len() int { return utf8.RuneCountInString(string(s)) }

// Rune returns the i-th code point (0-based) of s, along with whether i was
// in range. Used by STRI2INT and GETCHAR.
func (s Str) Rune(i int) (rune, bool) {
	if i < 0 {
		return 0, false
	}
	for idx, r := range string(s) {
		_ = idx
		if i == 0 {
			return r, true
		}
		i--
	}
	return 0, false
}

// WithRuneAt returns a copy of s with the code point at index i replaced by
// the first code point of repl. Used by SETCHAR. The caller must have
// already validated that i is in range and repl is non-empty.
func (s Str) WithRuneAt(i int, repl Str) Str {
	replRune, _ := utf8.DecodeRuneInString(string(repl))

	var b strings.Builder
	idx := 0
	for _, r := range string(s) {
		if idx == i {
			b.WriteRune(replRune)
		} else {
			b.WriteRune(r)
		}
		idx++
	}
	return Str(b.String())
}
