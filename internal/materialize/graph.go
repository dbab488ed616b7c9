package materialize

import (
	"context"
	"fmt"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/resource"
)

// Graph holds the nodes of one build in creation order.
type Graph struct {
	nodes []host.Node
}

// Len returns the number of built nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the built node at index i.
func (g *Graph) Node(i int) (host.Node, bool) {
	if i < 0 || i >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns a copy of the built nodes.
func (g *Graph) Nodes() []host.Node {
	return append([]host.Node(nil), g.nodes...)
}

// Final returns the last built node, the graph's shader node.
func (g *Graph) Final() host.Node {
	return g.nodes[len(g.nodes)-1]
}

// BuildGraph creates nodes in tree in a single forward pass. A link may only
// name a node that was built before the node holding it.
func BuildGraph(ctx context.Context, cache *resource.Cache, tree host.NodeTree, nodes []descriptor.NodeDescriptor, ext string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	if len(nodes) == 0 {
		return nil, &GraphConsistencyError{NodeIndex: -1, Reason: "node list is empty"}
	}

	g := &Graph{nodes: make([]host.Node, 0, len(nodes))}
	for i, nd := range nodes {
		n, err := tree.NewNode(nd.Kind)
		if err != nil {
			return nil, &InvalidPropertyError{Target: fmt.Sprintf("node %d", i), Property: "kind", Err: err}
		}
		n.SetLocation(nd.Position)

		if err := ApplyProperties(cache, n, nd.Properties, ext); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if err := applySocketDefaults(cache, n, nd, ext); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if err := applySocketLinks(g, tree, n, i, nd); err != nil {
			return nil, err
		}

		g.nodes = append(g.nodes, n)
		logger.Debug("Built shader node.", "index", i, "kind", nd.Kind, "name", n.Name())
	}
	return g, nil
}

func applySocketDefaults(cache *resource.Cache, n host.Node, nd descriptor.NodeDescriptor, ext string) error {
	for _, socket := range descriptor.SortedKeys(nd.SocketDefaults) {
		name := ResolveInputSocket(socket)
		hv, err := ResolveValue(cache, nd.SocketDefaults[socket], ext)
		if err != nil {
			return fmt.Errorf("input %q of %s: %w", name, n.Name(), err)
		}
		in, ok := n.Input(name)
		if !ok {
			return &InvalidPropertyError{Target: n.Name(), Property: name, Err: host.ErrUnknownSocket}
		}
		if err := in.SetDefault(hv); err != nil {
			return &InvalidPropertyError{Target: n.Name(), Property: name, Err: err}
		}
	}
	return nil
}

// applySocketLinks wires the inputs of n, the node at index, to nodes
// already in g.
func applySocketLinks(g *Graph, tree host.NodeTree, n host.Node, index int, nd descriptor.NodeDescriptor) error {
	for _, socket := range descriptor.SortedKeys(nd.SocketLinks) {
		link := nd.SocketLinks[socket]
		src, ok := g.Node(link.NodeIndex)
		if !ok {
			return &GraphConsistencyError{
				NodeIndex: index,
				Reason:    fmt.Sprintf("input %q links to node %d, but only %d earlier nodes exist", socket, link.NodeIndex, g.Len()),
			}
		}

		out, ok := src.Output(link.Socket)
		if !ok {
			return &InvalidPropertyError{Target: src.Name(), Property: link.Socket, Err: host.ErrUnknownSocket}
		}
		name := ResolveInputSocket(socket)
		in, ok := n.Input(name)
		if !ok {
			return &InvalidPropertyError{Target: n.Name(), Property: name, Err: host.ErrUnknownSocket}
		}
		if err := tree.Link(out, in); err != nil {
			return &InvalidPropertyError{Target: n.Name(), Property: name, Err: err}
		}
	}
	return nil
}
