package memhost

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/shadermat/internal/host"
)

// NodeTree is an in-memory host.NodeTree. It shares its material's lock.
type NodeTree struct {
	material *Material

	// gen changes on Clear so nodes from an earlier build can be told apart.
	gen    int
	nodes  []*Node
	links  []Link
	counts map[string]int
}

var _ host.NodeTree = (*NodeTree)(nil)

// Link connects output FromSocket of From to input ToSocket of To.
type Link struct {
	From       *Node
	FromSocket string
	To         *Node
	ToSocket   string
}

func (t *NodeTree) Clear() {
	t.material.mu.Lock()
	defer t.material.mu.Unlock()
	t.gen++
	t.nodes = nil
	t.links = nil
	t.counts = nil
}

func (t *NodeTree) NewNode(kind string) (host.Node, error) {
	schema, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", host.ErrUnknownKind, kind)
	}

	t.material.mu.Lock()
	defer t.material.mu.Unlock()
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	name := kind
	if n := t.counts[kind]; n > 0 {
		name = fmt.Sprintf("%s.%03d", kind, n)
	}
	t.counts[kind]++

	node := &Node{
		tree:     t,
		gen:      t.gen,
		kind:     kind,
		name:     name,
		schema:   schema,
		props:    make(map[string]host.Value),
		defaults: make(map[string]host.Value),
	}
	t.nodes = append(t.nodes, node)
	return node, nil
}

// Link connects from to to. An input holds at most one link; linking an
// input again replaces the earlier link.
func (t *NodeTree) Link(from host.OutputSocket, to host.InputSocket) error {
	out, ok := from.(*outputSocket)
	if !ok {
		return fmt.Errorf("%w: output %q does not belong to this host", host.ErrUnknownSocket, from.Name())
	}
	in, ok := to.(*inputSocket)
	if !ok {
		return fmt.Errorf("%w: input %q does not belong to this host", host.ErrUnknownSocket, to.Name())
	}

	t.material.mu.Lock()
	defer t.material.mu.Unlock()
	for _, n := range []*Node{out.node, in.node} {
		if n.tree != t || n.gen != t.gen {
			return fmt.Errorf("%w: node %q is not part of this tree", host.ErrUnknownSocket, n.name)
		}
	}
	if out.node == in.node {
		return fmt.Errorf("%w: node %q cannot feed itself", host.ErrTypeMismatch, in.node.name)
	}

	t.links = slices.DeleteFunc(t.links, func(l Link) bool {
		return l.To == in.node && l.ToSocket == in.name
	})
	t.links = append(t.links, Link{From: out.node, FromSocket: out.name, To: in.node, ToSocket: in.name})
	return nil
}

func (t *NodeTree) Nodes() []host.Node {
	t.material.mu.RLock()
	defer t.material.mu.RUnlock()
	out := make([]host.Node, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n
	}
	return out
}

// All returns the concrete nodes in creation order.
func (t *NodeTree) All() []*Node {
	t.material.mu.RLock()
	defer t.material.mu.RUnlock()
	return slices.Clone(t.nodes)
}

// Links returns the links in creation order.
func (t *NodeTree) Links() []Link {
	t.material.mu.RLock()
	defer t.material.mu.RUnlock()
	return slices.Clone(t.links)
}

// LinkInto returns the link feeding input of n, if any.
func (t *NodeTree) LinkInto(n *Node, input string) (Link, bool) {
	t.material.mu.RLock()
	defer t.material.mu.RUnlock()
	for _, l := range t.links {
		if l.To == n && l.ToSocket == input {
			return l, true
		}
	}
	return Link{}, false
}

// Node is an in-memory host.Node.
type Node struct {
	tree   *NodeTree
	gen    int
	kind   string
	name   string
	schema kindSchema

	location mgl32.Vec2
	props    map[string]host.Value
	defaults map[string]host.Value
}

var _ host.Node = (*Node)(nil)

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() string { return n.kind }

func (n *Node) SetLocation(pos mgl32.Vec2) {
	n.tree.material.mu.Lock()
	defer n.tree.material.mu.Unlock()
	n.location = pos
}

func (n *Node) Location() mgl32.Vec2 {
	n.tree.material.mu.RLock()
	defer n.tree.material.mu.RUnlock()
	return n.location
}

func (n *Node) Set(property string, v host.Value) error {
	s, ok := n.schema.properties[property]
	if !ok {
		return fmt.Errorf("%w: %s has no property %q", host.ErrUnknownProperty, n.kind, property)
	}
	if err := s.accept(property, v); err != nil {
		return err
	}
	n.tree.material.mu.Lock()
	defer n.tree.material.mu.Unlock()
	n.props[property] = cloneValue(v)
	return nil
}

// Property returns the value last set for property.
func (n *Node) Property(property string) (host.Value, bool) {
	n.tree.material.mu.RLock()
	defer n.tree.material.mu.RUnlock()
	v, ok := n.props[property]
	return v, ok
}

// Properties returns a copy of every property set on the node.
func (n *Node) Properties() map[string]host.Value {
	n.tree.material.mu.RLock()
	defer n.tree.material.mu.RUnlock()
	return maps.Clone(n.props)
}

// Default returns the default value of input, if one was set.
func (n *Node) Default(input string) (host.Value, bool) {
	n.tree.material.mu.RLock()
	defer n.tree.material.mu.RUnlock()
	v, ok := n.defaults[input]
	return v, ok
}

// Defaults returns a copy of every input default set on the node.
func (n *Node) Defaults() map[string]host.Value {
	n.tree.material.mu.RLock()
	defer n.tree.material.mu.RUnlock()
	return maps.Clone(n.defaults)
}

func (n *Node) Input(name string) (host.InputSocket, bool) {
	s, ok := n.schema.inputs[name]
	if !ok {
		return nil, false
	}
	return &inputSocket{node: n, name: name, slot: s}, true
}

func (n *Node) Output(name string) (host.OutputSocket, bool) {
	if !slices.Contains(n.schema.outputs, name) {
		return nil, false
	}
	return &outputSocket{node: n, name: name}, true
}

type inputSocket struct {
	node *Node
	name string
	slot slot
}

func (s *inputSocket) Name() string { return s.name }

func (s *inputSocket) SetDefault(v host.Value) error {
	if err := s.slot.accept(s.name, v); err != nil {
		return err
	}
	s.node.tree.material.mu.Lock()
	defer s.node.tree.material.mu.Unlock()
	s.node.defaults[s.name] = cloneValue(v)
	return nil
}

type outputSocket struct {
	node *Node
	name string
}

func (s *outputSocket) Name() string { return s.name }
