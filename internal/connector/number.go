package connector

import "strconv"

type numberKind uint8

const (
	kindNone numberKind = iota
	kindInt
	kindFloat
)

// Number is an integer or a floating point value. It selects between the
// integer and float variants of increment commands. The zero Number is
// neither and is rejected as an invalid argument.
type Number struct {
	kind numberKind
	i    int64
	f    float64
}

// Int returns an integral Number.
func Int(v int64) Number { return Number{kind: kindInt, i: v} }

// Float returns a floating point Number.
func Float(v float64) Number { return Number{kind: kindFloat, f: v} }

func (n Number) IsInt() bool   { return n.kind == kindInt }
func (n Number) IsFloat() bool { return n.kind == kindFloat }

// Valid reports whether n was built with Int or Float.
func (n Number) Valid() bool { return n.kind != kindNone }

// IsZero reports whether n holds a numeric zero.
func (n Number) IsZero() bool {
	switch n.kind {
	case kindInt:
		return n.i == 0
	case kindFloat:
		return n.f == 0
	default:
		return true
	}
}

// Int64 returns the value as an integer, truncating floats.
func (n Number) Int64() int64 {
	if n.kind == kindFloat {
		return int64(n.f)
	}

	return n.i
}

// Float64 returns the value as a float.
func (n Number) Float64() float64 {
	if n.kind == kindInt {
		return float64(n.i)
	}

	return n.f
}

func (n Number) String() string {
	switch n.kind {
	case kindInt:
		return strconv.FormatInt(n.i, 10)
	case kindFloat:
		return strconv.FormatFloat(n.f, 'f', -1, 64)
	default:
		return "<invalid>"
	}
}
