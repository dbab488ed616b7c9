package materialize

import (
	"fmt"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/resource"
	"github.com/specialistvlad/shadermat/internal/value"
)

// inputSocketNames maps descriptor socket names onto the host's current names.
var inputSocketNames = map[string]string{
	"Specular": "Specular IOR Level",
	"Emission": "Emission Color",
}

// ResolveInputSocket returns the host name for a descriptor input socket.
// Names without a mapping pass through unchanged.
func ResolveInputSocket(name string) string {
	if renamed, ok := inputSocketNames[name]; ok {
		return renamed
	}
	return name
}

// ResolveValue turns a descriptor value into a host value. A TextureRef is
// looked up under the key of its path plus ext and must already exist; every
// other variant passes through as a literal.
func ResolveValue(cache *resource.Cache, v value.Value, ext string) (host.Value, error) {
	switch tv := v.(type) {
	case value.TextureRef:
		key := cache.Key(tv.Path + ext)
		img, ok := cache.Image(key)
		if !ok {
			return host.Value{}, &MissingReferenceError{Kind: "image", Ref: tv.Path, Key: key}
		}
		return host.ImageValue(img), nil
	case value.Scalar, value.Vector, value.Enum, value.Bool:
		return host.Literal(tv), nil
	default:
		// The caller knows the property name and wraps this error with it.
		return host.Value{}, &InvalidPropertyError{Err: fmt.Errorf("%w: unsupported value %T", host.ErrTypeMismatch, v)}
	}
}
