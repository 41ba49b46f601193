package decode

import "testing"

func TestDecodeString(t *testing.T) {
	cases := map[string]string{
		"hello":        "hello",
		`a\032b`:       "a b",
		`\072\065\072`: "HAH",
		`\65`:          `\65`,  // malformed: only 2 digits, backslash kept literally
		`\6a5`:         `\6a5`, // malformed: non-digit among the three
		`\`:            `\`,    // malformed: nothing follows
		``:             "",
	}
	for lit, want := range cases {
		got, err := decodeString(lit)
		if err != nil {
			t.Errorf("decodeString(%q) returned error: %s", lit, err)
			continue
		}
		if got != want {
			t.Errorf("decodeString(%q) = %q, want %q", lit, got, want)
		}
	}
}
