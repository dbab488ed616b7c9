package materialize

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/resource"
)

// OutputNodePosition is where the material output node is placed.
var OutputNodePosition = mgl32.Vec2{300, 0}

// MaterializeMaterial builds mat into the host material stored under its
// key, creating the material on first use. Every call clears the node tree
// and rebuilds it, so repeated builds of one descriptor give the same graph.
// The whole build runs under the material key's lock.
func MaterializeMaterial(ctx context.Context, cache *resource.Cache, mat descriptor.MaterialDescriptor) (host.Material, error) {
	ctx, logger := ctxlog.With(ctx, "material", mat.Name)
	key := cache.Key(mat.Name)
	if err := mat.TextureEncoding.Check(); err != nil {
		return nil, &InvalidPropertyError{Target: mat.Name, Property: "texture_format", Err: err}
	}
	ext := mat.TextureEncoding.Extension()

	var result host.Material
	err := cache.WithLock(resource.KindMaterial, key, func() error {
		m, err := lookupOrCreateMaterial(cache, key, mat.Name)
		if err != nil {
			return err
		}

		tree := m.NodeTree()
		tree.Clear()
		out, err := tree.NewNode(host.KindMaterialOutput)
		if err != nil {
			return &ResourceError{Name: mat.Name, Err: err}
		}
		out.SetLocation(OutputNodePosition)

		if err := ApplyProperties(cache, m, mat.Properties, ext); err != nil {
			return err
		}

		g, err := BuildGraph(ctx, cache, tree, mat.Nodes, ext)
		if err != nil {
			return err
		}
		if err := wireOutput(g, tree, out); err != nil {
			return err
		}
		if err := tagColorspaces(cache, mat.TextureColorspaces, ext); err != nil {
			return err
		}

		logger.Debug("Material materialized.", "key", key, "nodes", g.Len())
		result = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", mat.Name, err)
	}
	return result, nil
}

func lookupOrCreateMaterial(cache *resource.Cache, key, name string) (host.Material, error) {
	if m, ok := cache.Material(key); ok {
		return m, nil
	}
	m, err := cache.Registry().NewMaterial(key)
	if err != nil {
		return nil, &ResourceError{Name: name, Err: err}
	}
	m.SetTag(host.TagPathID, name)
	return m, nil
}

// wireOutput connects the BSDF output of the graph's final node to the
// surface input of the material output node.
func wireOutput(g *Graph, tree host.NodeTree, out host.Node) error {
	final := g.Final()
	bsdf, ok := final.Output(host.OutputBSDF)
	if !ok {
		return &GraphConsistencyError{
			NodeIndex: g.Len() - 1,
			Reason:    fmt.Sprintf("final node %s has no %s output", final.Kind(), host.OutputBSDF),
		}
	}
	surface, ok := out.Input(host.InputSurface)
	if !ok {
		return &InvalidPropertyError{Target: out.Name(), Property: host.InputSurface, Err: host.ErrUnknownSocket}
	}
	if err := tree.Link(bsdf, surface); err != nil {
		return &InvalidPropertyError{Target: out.Name(), Property: host.InputSurface, Err: err}
	}
	return nil
}

func tagColorspaces(cache *resource.Cache, colorspaces map[string]string, ext string) error {
	for _, texture := range descriptor.SortedKeys(colorspaces) {
		key := cache.Key(texture + ext)
		img, ok := cache.Image(key)
		if !ok {
			return &MissingReferenceError{Kind: "image", Ref: texture, Key: key}
		}
		if err := img.SetColorspace(colorspaces[texture]); err != nil {
			return &InvalidPropertyError{Target: img.Name(), Property: "colorspace", Err: err}
		}
	}
	return nil
}
