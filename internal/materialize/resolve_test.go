package materialize

import (
	"errors"
	"testing"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/specialistvlad/shadermat/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInputSocket(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"Specular":   "Specular IOR Level",
		"Emission":   "Emission Color",
		"Roughness":  "Roughness",
		"Base Color": "Base Color",
		"":           "",
	}

	for input, want := range testCases {
		assert.Equal(t, want, ResolveInputSocket(input), "input %q", input)
	}
}

func TestResolveValue_TextureRef(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cache, _ := newTestCache()
	ref := value.TextureRef{Path: "metal/plate01"}

	// --- Act & Assert: before the texture exists ---
	_, err := ResolveValue(cache, ref, ".png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReference)
	var missing *MissingReferenceError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "metal/plate01", missing.Ref)
	assert.Equal(t, cache.Key("metal/plate01.png"), missing.Key)

	// --- Act & Assert: after materializing ---
	img, err := MaterializeTexture(testContext(), cache, pngTexture(t, "metal/plate01", 1, 1))
	require.NoError(t, err)

	resolved, err := ResolveValue(cache, ref, ".png")
	require.NoError(t, err)
	assert.Same(t, img.(*memhost.Image), resolved.Image.(*memhost.Image))
	assert.Nil(t, resolved.Literal)

	// The extension is part of the key.
	_, err = ResolveValue(cache, ref, ".tga")
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestResolveValue_Literals(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache()
	literals := []value.Value{
		value.Scalar(0.5),
		value.Vector{1, 0, 0, 1},
		value.Enum("Opaque"),
		value.Bool(true),
	}

	for _, v := range literals {
		got, err := ResolveValue(cache, v, ".png")
		require.NoError(t, err)
		assert.Equal(t, host.Literal(v), got)
	}
}

func TestResolveValue_Nil(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache()
	_, err := ResolveValue(cache, nil, ".png")
	assert.ErrorIs(t, err, ErrInvalidProperty)
	assert.ErrorIs(t, err, host.ErrTypeMismatch)
	var propErr *InvalidPropertyError
	assert.True(t, errors.As(err, &propErr), "nil values report the typed error")
}
