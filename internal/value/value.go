// Package value defines the closed set of property and socket values a
// material description can carry.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a property or socket default. The set of implementations is closed:
// Scalar, Vector, Enum, Bool and TextureRef.
type Value interface {
	isValue()
	String() string
}

// Scalar is a single number.
type Scalar float64

// Vector is a fixed-length numeric tuple such as a color or a direction.
type Vector []float64

// Enum is a symbolic name understood by the host, e.g. "Opaque" or "Linear".
type Enum string

// Bool is a flag.
type Bool bool

// TextureRef names a texture that must already exist in the resource cache.
// The reference is resolved at build time, never materialized on demand.
type TextureRef struct {
	Path string
}

func (Scalar) isValue()     {}
func (Vector) isValue()     {}
func (Enum) isValue()       {}
func (Bool) isValue()       {}
func (TextureRef) isValue() {}

func (s Scalar) String() string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e Enum) String() string { return string(e) }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (r TextureRef) String() string { return fmt.Sprintf("texture(%q)", r.Path) }

// KindOf returns a short name for the variant of v, used in error messages.
func KindOf(v Value) string {
	switch v.(type) {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Enum:
		return "enum"
	case Bool:
		return "bool"
	case TextureRef:
		return "texture"
	case nil:
		return "nil"
	default:
		panic(fmt.Sprintf("value: unknown variant %T", v))
	}
}

// Equal reports whether a and b hold the same variant and contents.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Vector:
		bv, ok := b.(Vector)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
