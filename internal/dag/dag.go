// Package dag holds the reference graph between cubes and views: an edge runs
// from a cube to every cube its deferred properties take as a parameter.
//
// Schemas may reference each other in both directions, so the graph tolerates
// cycles. Traversals visit every node at most once and never fail.
package dag

import (
	"fmt"
	"sort"
)

// Node is one cube or view in the graph.
type Node struct {
	// ID is the cube name.
	ID string
	// File is the schema file or symbol manifest that declared the cube.
	File string
}

// Graph is a directed graph of cube references.
type Graph struct {
	nodes     map[string]*Node
	uses      map[string][]string // cube -> cubes it references
	usedBy    map[string][]string // cube -> cubes referencing it
	edgeCount int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		uses:   make(map[string][]string),
		usedBy: make(map[string][]string),
	}
}

// AddNode adds a cube. Adding an existing cube updates its file.
func (g *Graph) AddNode(id, file string) {
	if n, ok := g.nodes[id]; ok {
		n.File = file
		return
	}
	g.nodes[id] = &Node{ID: id, File: file}
}

// AddEdge records that from references to. Self references and duplicate edges
// are ignored.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("cube %q does not exist", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("cube %q does not exist", to)
	}
	if from == to || contains(g.uses[from], to) {
		return nil
	}
	g.uses[from] = append(g.uses[from], to)
	g.usedBy[to] = append(g.usedBy[to], from)
	g.edgeCount++
	return nil
}

// Node returns the cube with the given name.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every cube sorted by name.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// NodeCount returns the number of cubes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of references.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Uses returns the cubes id references directly, sorted.
func (g *Graph) Uses(id string) []string { return sorted(g.uses[id]) }

// UsedBy returns the cubes referencing id directly, sorted.
func (g *Graph) UsedBy(id string) []string { return sorted(g.usedBy[id]) }

// Upstream returns every cube id depends on, directly or transitively, sorted.
// id itself is included only when it sits on a reference cycle.
func (g *Graph) Upstream(id string) []string {
	return g.reach([]string{id}, g.uses)
}

// Affected returns every cube that depends on any of the changed cubes, directly
// or transitively, sorted. Changed cubes are included only when they depend on
// another changed cube or sit on a cycle.
func (g *Graph) Affected(changed []string) []string {
	return g.reach(changed, g.usedBy)
}

// Roots returns the cubes that reference no other cube, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.uses[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns the cubes no other cube references, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.usedBy[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Order returns the cubes with every cube placed after the cubes it uses, ties
// broken by name. Cubes on a cycle cannot be ordered and are appended at the
// end by name.
func (g *Graph) Order() []string {
	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for id := range g.nodes {
		pending[id] = len(g.uses[id])
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		delete(pending, id)
		for _, dep := range g.usedBy[id] {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	rest := make([]string, 0, len(pending))
	for id := range pending {
		rest = append(rest, id)
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// Subgraph returns the graph induced by ids. Unknown ids are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			sub.AddNode(id, n.File)
		}
	}
	for id := range sub.nodes {
		for _, to := range g.uses[id] {
			if _, ok := sub.nodes[to]; ok {
				_ = sub.AddEdge(id, to)
			}
		}
	}
	return sub
}

func (g *Graph) reach(start []string, next map[string][]string) []string {
	visited := make(map[string]bool)
	queue := make([]string, 0, len(start))
	for _, id := range start {
		queue = append(queue, next[id]...)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		queue = append(queue, next[id]...)
	}

	out := make([]string, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sorted(ids []string) []string {
	out := append([]string{}, ids...)
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
