package materialize

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/memhost"
	"github.com/specialistvlad/shadermat/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, reg *memhost.Registry) host.NodeTree {
	t.Helper()
	m, err := reg.NewMaterial("graph-test")
	require.NoError(t, err)
	return m.NodeTree()
}

func TestBuildGraph_TopologicalLists(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		nodes []descriptor.NodeDescriptor
	}{
		{
			name:  "single node",
			nodes: []descriptor.NodeDescriptor{{Kind: "Principled"}},
		},
		{
			name: "chain",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "Invert", SocketLinks: map[string]descriptor.SocketLink{"Color": {NodeIndex: 0, Socket: "Color"}}},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Base Color": {NodeIndex: 1, Socket: "Color"}}},
			},
		},
		{
			name: "fan in",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "VertexColor"},
				{Kind: "Mix", SocketLinks: map[string]descriptor.SocketLink{
					"Color1": {NodeIndex: 0, Socket: "Color"},
					"Color2": {NodeIndex: 1, Socket: "Color"},
					"Fac":    {NodeIndex: 0, Socket: "Alpha"},
				}},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{
					"Base Color": {NodeIndex: 2, Socket: "Color"},
					"Alpha":      {NodeIndex: 1, Socket: "Alpha"},
				}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			cache, reg := newTestCache()
			tree := newTree(t, reg)

			// --- Act ---
			g, err := BuildGraph(testContext(), cache, tree, tc.nodes, ".png")

			// --- Assert ---
			require.NoError(t, err)
			require.Equal(t, len(tc.nodes), g.Len())
			last, ok := g.Node(g.Len() - 1)
			require.True(t, ok)
			assert.Same(t, last.(*memhost.Node), g.Final().(*memhost.Node))
			assert.Equal(t, tc.nodes[len(tc.nodes)-1].Kind, g.Final().Kind())
			for i, n := range g.Nodes() {
				assert.Equal(t, tc.nodes[i].Kind, n.Kind())
			}
		})
	}
}

func TestBuildGraph_InvalidIndex(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		nodes     []descriptor.NodeDescriptor
		wantIndex int
	}{
		{
			name: "self link",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Alpha": {NodeIndex: 0, Socket: "BSDF"}}},
			},
			wantIndex: 0,
		},
		{
			name: "forward link",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Alpha": {NodeIndex: 2, Socket: "Alpha"}}},
				{Kind: "VertexColor"},
			},
			wantIndex: 1,
		},
		{
			name: "out of range",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Alpha": {NodeIndex: 99, Socket: "Alpha"}}},
			},
			wantIndex: 1,
		},
		{
			name: "negative",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Alpha": {NodeIndex: -1, Socket: "Alpha"}}},
			},
			wantIndex: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache, reg := newTestCache()

			g, err := BuildGraph(testContext(), cache, newTree(t, reg), tc.nodes, ".png")

			assert.Nil(t, g)
			require.ErrorIs(t, err, ErrGraphConsistency)
			var graphErr *GraphConsistencyError
			require.True(t, errors.As(err, &graphErr))
			assert.Equal(t, tc.wantIndex, graphErr.NodeIndex)
		})
	}
}

func TestBuildGraph_Empty(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()

	_, err := BuildGraph(testContext(), cache, newTree(t, reg), nil, ".png")

	require.ErrorIs(t, err, ErrGraphConsistency)
	assert.Contains(t, err.Error(), "empty")
}

func TestBuildGraph_AppliesNodeDescriptor(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cache, reg := newTestCache()
	img, err := MaterializeTexture(testContext(), cache, pngTexture(t, "metal/plate01", 2, 2))
	require.NoError(t, err)
	m, err := reg.NewMaterial("mat")
	require.NoError(t, err)

	nodes := []descriptor.NodeDescriptor{
		{
			Kind:       "ImageTexture",
			Position:   mgl32.Vec2{-300, 40},
			Properties: map[string]value.Value{"image": value.TextureRef{Path: "metal/plate01"}},
		},
		{
			Kind: "Principled",
			SocketDefaults: map[string]value.Value{
				"Specular":  value.Scalar(0.2),
				"Emission":  value.Vector{0, 0, 0, 1},
				"Roughness": value.Scalar(0.7),
			},
			SocketLinks: map[string]descriptor.SocketLink{"Base Color": {NodeIndex: 0, Socket: "Color"}},
		},
	}

	// --- Act ---
	g, err := BuildGraph(testContext(), cache, m.NodeTree(), nodes, ".png")

	// --- Assert ---
	require.NoError(t, err)
	tex := g.Nodes()[0].(*memhost.Node)
	bsdf := g.Final().(*memhost.Node)

	assert.Equal(t, mgl32.Vec2{-300, 40}, tex.Location())
	imgProp, ok := tex.Property("image")
	require.True(t, ok)
	assert.Same(t, img.(*memhost.Image), imgProp.Image.(*memhost.Image))

	defaults := bsdf.Defaults()
	assert.Equal(t, value.Scalar(0.2), defaults["Specular IOR Level"].Literal)
	assert.Equal(t, value.Vector{0, 0, 0, 1}, defaults["Emission Color"].Literal)
	assert.Equal(t, value.Scalar(0.7), defaults["Roughness"].Literal)

	link, ok := m.(*memhost.Material).Tree().LinkInto(bsdf, "Base Color")
	require.True(t, ok)
	assert.Same(t, tex, link.From)
	assert.Equal(t, "Color", link.FromSocket)
}

func TestBuildGraph_RenamesLinkedInputs(t *testing.T) {
	t.Parallel()

	cache, reg := newTestCache()
	m, err := reg.NewMaterial("mat")
	require.NoError(t, err)

	nodes := []descriptor.NodeDescriptor{
		{Kind: "VertexColor"},
		{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Emission": {NodeIndex: 0, Socket: "Color"}}},
	}
	g, err := BuildGraph(testContext(), cache, m.NodeTree(), nodes, ".png")
	require.NoError(t, err)

	_, ok := m.(*memhost.Material).Tree().LinkInto(g.Final().(*memhost.Node), "Emission Color")
	assert.True(t, ok)
}

func TestBuildGraph_NodeErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		nodes        []descriptor.NodeDescriptor
		wantSentinel error
		wantProperty string
	}{
		{
			name:         "unknown kind",
			nodes:        []descriptor.NodeDescriptor{{Kind: "Teapot"}},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "kind",
		},
		{
			name: "unknown output socket",
			nodes: []descriptor.NodeDescriptor{
				{Kind: "VertexColor"},
				{Kind: "Principled", SocketLinks: map[string]descriptor.SocketLink{"Alpha": {NodeIndex: 0, Socket: "Glow"}}},
			},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "Glow",
		},
		{
			name:         "unknown input socket default",
			nodes:        []descriptor.NodeDescriptor{{Kind: "Principled", SocketDefaults: map[string]value.Value{"Sheen Tint": value.Scalar(1)}}},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "Sheen Tint",
		},
		{
			name:         "mismatched socket default",
			nodes:        []descriptor.NodeDescriptor{{Kind: "Principled", SocketDefaults: map[string]value.Value{"Base Color": value.Scalar(1)}}},
			wantSentinel: ErrInvalidProperty,
			wantProperty: "Base Color",
		},
		{
			name:         "missing texture in socket default",
			nodes:        []descriptor.NodeDescriptor{{Kind: "Principled", SocketDefaults: map[string]value.Value{"Base Color": value.TextureRef{Path: "nope"}}}},
			wantSentinel: ErrMissingReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cache, reg := newTestCache()

			_, err := BuildGraph(testContext(), cache, newTree(t, reg), tc.nodes, ".png")

			require.ErrorIs(t, err, tc.wantSentinel)
			if tc.wantProperty != "" {
				var propErr *InvalidPropertyError
				require.True(t, errors.As(err, &propErr))
				assert.Equal(t, tc.wantProperty, propErr.Property)
			}
		})
	}
}
