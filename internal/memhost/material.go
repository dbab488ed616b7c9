package memhost

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/value"
)

// Material is an in-memory host.Material.
type Material struct {
	name string

	mu    sync.RWMutex
	props map[string]host.Value
	tags  map[string]string
	tree  *NodeTree
}

var _ host.Material = (*Material)(nil)

func newMaterial(name string) *Material {
	m := &Material{
		name:  name,
		props: make(map[string]host.Value),
		tags:  make(map[string]string),
	}
	m.tree = &NodeTree{material: m}
	return m
}

func (m *Material) Name() string { return m.name }

func (m *Material) Set(property string, v host.Value) error {
	s, ok := materialProperties[property]
	if !ok {
		return fmt.Errorf("%w: material has no property %q", host.ErrUnknownProperty, property)
	}
	if err := s.accept(property, v); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[property] = cloneValue(v)
	return nil
}

// Property returns the value last set for property.
func (m *Material) Property(property string) (host.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.props[property]
	return v, ok
}

// Properties returns a copy of every property set on the material.
func (m *Material) Properties() map[string]host.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.props)
}

func (m *Material) SetTag(key, val string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[key] = val
}

func (m *Material) Tag(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.tags[key]
	return v, ok
}

func (m *Material) NodeTree() host.NodeTree { return m.tree }

// Tree returns the concrete node tree.
func (m *Material) Tree() *NodeTree { return m.tree }

func cloneValue(v host.Value) host.Value {
	if vec, ok := v.Literal.(value.Vector); ok {
		v.Literal = slices.Clone(vec)
	}
	return v
}
