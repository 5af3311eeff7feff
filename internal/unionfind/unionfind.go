// Package unionfind partitions a bipartite edge set into connected
// components so each component can be resolved independently.
package unionfind

import (
	"fmt"
	"iter"
)

// Side tags which input list a node index belongs to.
type Side uint8

const (
	// Left nodes index the first input list.
	Left Side = iota
	// Right nodes index the second input list.
	Right
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// Node is a tagged index: left and right indices live in disjoint spaces
// and are only connected through edges.
type Node struct {
	Side  Side
	Index int
}

// LeftNode returns the node for index i of the first list.
func LeftNode(i int) Node { return Node{Side: Left, Index: i} }

// RightNode returns the node for index j of the second list.
func RightNode(j int) Node { return Node{Side: Right, Index: j} }

// Component is one connected component split back into its indices.
type Component struct {
	Left  []int
	Right []int
}

// Size returns the number of indices in the component.
func (c Component) Size() int {
	return len(c.Left) + len(c.Right)
}

// Graph is a union-find forest over left and right nodes.
// It is not safe for concurrent use.
type Graph struct {
	parent map[Node]Node
	order  []Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{parent: make(map[Node]Node)}
}

// AddEdge connects left index i with right index j.
func (g *Graph) AddEdge(i, j int) {
	g.Union(LeftNode(i), RightNode(j))
}

// Len returns the number of nodes that appeared in at least one edge.
func (g *Graph) Len() int {
	return len(g.order)
}

// Find returns the representative of n's set, compressing the path so
// every visited node points directly at the root. A node that never
// appeared in a Union is its own representative and is not recorded.
func (g *Graph) Find(n Node) Node {
	root, ok := g.parent[n]
	if !ok {
		return n
	}
	for root != g.parent[root] {
		root = g.parent[root]
	}
	for n != root {
		next := g.parent[n]
		g.parent[n] = root
		n = next
	}
	return root
}

// Union merges the sets containing a and b, recording both nodes. The root
// of a's set is attached under the root of b's set.
func (g *Graph) Union(a, b Node) {
	g.add(a)
	g.add(b)
	ra, rb := g.Find(a), g.Find(b)
	if ra != rb {
		g.parent[ra] = rb
	}
}

func (g *Graph) add(n Node) {
	if _, ok := g.parent[n]; !ok {
		g.parent[n] = n
		g.order = append(g.order, n)
	}
}

// Components yields every connected component. Components and the indices
// inside them follow the order in which nodes were first added, which is
// deterministic but not sorted.
func (g *Graph) Components() iter.Seq[Component] {
	return func(yield func(Component) bool) {
		index := make(map[Node]int)
		var groups []Component

		for _, n := range g.order {
			root := g.Find(n)
			k, ok := index[root]
			if !ok {
				k = len(groups)
				index[root] = k
				groups = append(groups, Component{})
			}
			switch n.Side {
			case Left:
				groups[k].Left = append(groups[k].Left, n.Index)
			case Right:
				groups[k].Right = append(groups[k].Right, n.Index)
			}
		}

		for _, c := range groups {
			if !yield(c) {
				return
			}
		}
	}
}
