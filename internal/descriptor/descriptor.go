// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the host-independent descriptions of textures and
// materials that the materialize package turns into host objects.
//
// Why index-based links?
//
// A material's nodes are stored as an ordered list and every link names its
// source by position in that list. A builder can then create nodes in a
// single forward pass: when node i is created, every node it reads from
// (index < i) already exists. The order is the topological order, so no
// graph sort is needed and a cycle cannot even be expressed.
package descriptor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/shadermat/internal/value"
)

// ErrInvalidDescriptor is wrapped by every validation failure.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// TextureDescriptor is an image to upload into the host. Data holds the
// encoded file bytes; Width and Height must agree with them.
type TextureDescriptor struct {
	Name     string
	Width    int
	Height   int
	Encoding Encoding
	Data     []byte
}

// MaterialDescriptor is a complete shader graph. The last entry of Nodes is
// the final shader node whose BSDF output feeds the material output.
type MaterialDescriptor struct {
	Name string
	// TextureEncoding picks the extension used to find the material's
	// textures in the cache.
	TextureEncoding    Encoding
	Properties         map[string]value.Value
	Nodes              []NodeDescriptor
	TextureColorspaces map[string]string
}

// NodeDescriptor is one shader node.
type NodeDescriptor struct {
	Kind           string
	Position       mgl32.Vec2
	Properties     map[string]value.Value
	SocketDefaults map[string]value.Value
	// SocketLinks maps an input socket of this node to an output socket of
	// an earlier node.
	SocketLinks map[string]SocketLink
}

// SocketLink points at output Socket of the node at NodeIndex.
type SocketLink struct {
	NodeIndex int
	Socket    string
}

// Validate checks the texture can be uploaded at all.
func (t *TextureDescriptor) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: texture name is empty", ErrInvalidDescriptor)
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("%w: texture %q has invalid size %dx%d", ErrInvalidDescriptor, t.Name, t.Width, t.Height)
	}
	if len(t.Data) == 0 {
		return fmt.Errorf("%w: texture %q has no data", ErrInvalidDescriptor, t.Name)
	}
	if err := t.Encoding.Check(); err != nil {
		return fmt.Errorf("%w: texture %q: %w", ErrInvalidDescriptor, t.Name, err)
	}
	return nil
}

// Validate checks the structural rules of the node list: at least one node,
// a kind on every node, and every link pointing strictly backwards. The
// texture encoding must also be known.
func (m *MaterialDescriptor) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: material name is empty", ErrInvalidDescriptor)
	}
	if len(m.Nodes) == 0 {
		return fmt.Errorf("%w: material %q has no nodes", ErrInvalidDescriptor, m.Name)
	}
	if err := m.TextureEncoding.Check(); err != nil {
		return fmt.Errorf("%w: material %q: %w", ErrInvalidDescriptor, m.Name, err)
	}

	var errs []error
	for i, n := range m.Nodes {
		if n.Kind == "" {
			errs = append(errs, fmt.Errorf("node %d has no kind", i))
		}
		for _, input := range SortedKeys(n.SocketLinks) {
			link := n.SocketLinks[input]
			if link.NodeIndex < 0 || link.NodeIndex >= i {
				errs = append(errs, fmt.Errorf("node %d input %q links to node %d, which is not an earlier node", i, input, link.NodeIndex))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: material %q: %w", ErrInvalidDescriptor, m.Name, errors.Join(errs...))
	}
	return nil
}

// TextureNames returns every texture path referenced by node properties and
// socket defaults, sorted and without duplicates.
func (m *MaterialDescriptor) TextureNames() []string {
	seen := make(map[string]struct{})
	collect := func(values map[string]value.Value) {
		for _, v := range values {
			if ref, ok := v.(value.TextureRef); ok {
				seen[ref.Path] = struct{}{}
			}
		}
	}
	collect(m.Properties)
	for _, n := range m.Nodes {
		collect(n.Properties)
		collect(n.SocketDefaults)
	}
	return SortedKeys(seen)
}

// SortedKeys returns the keys of m in ascending order. Maps are always
// walked through it so builds do not depend on map iteration order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
