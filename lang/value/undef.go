package value

// UndefType is the type of a declared-but-never-assigned variable slot. It
// is never readable except by TYPE (which reports "") and equality
// comparison with Nil is explicitly disallowed: reading an Undef slot is
// fatal everywhere except TYPE.
type UndefType byte

// Undef is the sole UndefType value.
const Undef = UndefType(0)

var _ Value = Undef

func (UndefType) String() string { return "" }
func (UndefType) Type() string   { return "" }
