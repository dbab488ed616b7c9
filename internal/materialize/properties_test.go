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

func TestApplyProperties_Material(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cache, reg := newTestCache()
	m, err := reg.NewMaterial("mat")
	require.NoError(t, err)

	// --- Act ---
	err = ApplyProperties(cache, m, map[string]value.Value{
		"blend_mode":           value.Enum("Clip"),
		"alpha_threshold":      value.Scalar(0.5),
		"use_backface_culling": value.Bool(true),
	}, ".png")

	// --- Assert ---
	require.NoError(t, err)
	props := m.(*memhost.Material).Properties()
	assert.Equal(t, value.Enum("Clip"), props["blend_mode"].Literal)
	assert.Equal(t, value.Scalar(0.5), props["alpha_threshold"].Literal)
	assert.Equal(t, value.Bool(true), props["use_backface_culling"].Literal)
}

func TestApplyProperties_Node(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	img, err := MaterializeTexture(testContext(), cache, pngTexture(t, "wood/floor", 1, 1))
	require.NoError(t, err)
	m, err := reg.NewMaterial("mat")
	require.NoError(t, err)
	n, err := m.NodeTree().NewNode("ImageTexture")
	require.NoError(t, err)

	err = ApplyProperties(cache, n, map[string]value.Value{
		"image":         value.TextureRef{Path: "wood/floor"},
		"interpolation": value.Enum("Closest"),
	}, ".png")

	require.NoError(t, err)
	got, ok := n.(*memhost.Node).Property("image")
	require.True(t, ok)
	assert.Same(t, img.(*memhost.Image), got.Image.(*memhost.Image))
}

func TestApplyProperties_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		props        map[string]value.Value
		wantSentinel error
		wantProperty string
	}{
		{
			name:         "unknown property",
			props:        map[string]value.Value{"sparkle": value.Scalar(1)},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "sparkle",
		},
		{
			name:         "type mismatch",
			props:        map[string]value.Value{"roughness": value.Enum("rough")},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "roughness",
		},
		{
			name:         "missing texture keeps its own kind",
			props:        map[string]value.Value{"diffuse_color": value.TextureRef{Path: "nope"}},
			wantSentinel: ErrMissingReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache, reg := newTestCache()
			m, err := reg.NewMaterial("mat")
			require.NoError(t, err)

			err = ApplyProperties(cache, m, tc.props, ".png")

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantSentinel)
			if tc.wantProperty != "" {
				var propErr *InvalidPropertyError
				require.True(t, errors.As(err, &propErr))
				assert.Equal(t, tc.wantProperty, propErr.Property)
				assert.Equal(t, "mat", propErr.Target)
			}
		})
	}
}

func TestApplyProperties_StopsAtFirstFailureInKeyOrder(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	m, err := reg.NewMaterial("mat")
	require.NoError(t, err)

	err = ApplyProperties(cache, m, map[string]value.Value{
		"alpha_threshold": value.Scalar(0.1),
		"bogus":           value.Scalar(1),
		"roughness":       value.Scalar(0.9),
	}, ".png")

	require.ErrorIs(t, err, ErrInvalidProperty)
	props := m.(*memhost.Material).Properties()
	assert.Contains(t, props, "alpha_threshold")
	assert.NotContains(t, props, "roughness")
	assert.ErrorIs(t, err, host.ErrUnknownProperty)
}
