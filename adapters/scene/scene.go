// Package scene provides an in-memory SceneGraph implementation.
//
// The real host engine supplies its own scene graph; this adapter backs the
// host simulator and tests.
package scene

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/modrig/modrig/domain/module"
)

// Node is one node in the in-memory graph.
type Node struct {
	ID     module.NodeID
	Name   string
	Parent module.NodeID
	Active bool
}

// Graph is an in-memory scene graph.
type Graph struct {
	mu    sync.RWMutex
	nodes map[module.NodeID]*Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[module.NodeID]*Node)}
}

// CreateNode creates a node. An empty parent means a root node.
func (g *Graph) CreateNode(ctx context.Context, name string, parent module.NodeID, active bool) (module.NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if parent != "" {
		if _, ok := g.nodes[parent]; !ok {
			return "", fmt.Errorf("parent node %q not found", parent)
		}
	}

	id := module.NodeID(uuid.NewString())
	g.nodes[id] = &Node{ID: id, Name: name, Parent: parent, Active: active}
	return id, nil
}

// SetActive toggles a node's active state.
func (g *Graph) SetActive(ctx context.Context, id module.NodeID, active bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %q not found", id)
	}
	node.Active = active
	return nil
}

// DestroyNode removes a node and its children.
func (g *Graph) DestroyNode(ctx context.Context, id module.NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("node %q not found", id)
	}
	g.destroyLocked(id)
	return nil
}

func (g *Graph) destroyLocked(id module.NodeID) {
	delete(g.nodes, id)
	for childID, child := range g.nodes {
		if child.Parent == id {
			g.destroyLocked(childID)
		}
	}
}

// Get returns a copy of a node.
func (g *Graph) Get(id module.NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Children returns copies of the direct children of a node.
func (g *Graph) Children(id module.NodeID) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Node
	for _, node := range g.nodes {
		if node.Parent == id {
			out = append(out, *node)
		}
	}
	return out
}
