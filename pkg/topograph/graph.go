package topograph

import (
	"fmt"
	"strings"
)

// NodeType classifies a graph node, per spec.md §3.
type NodeType int

const (
	NodeNode NodeType = iota
	NodeGate
	NodeGateVisited
	NodeReplacedT
	NodeReplaced
)

// Edge is one adjacency-list entry: the destination node's index plus the
// attribute string copied onto this endpoint, per spec.md §3.
type Edge struct {
	Dst        int
	Attributes *string
}

// Node is one graph vertex. Index is its position in Graph.Nodes, which
// never changes once assigned — replacement and compaction retire nodes
// in place (NodeReplaced/NodeGateVisited) rather than reusing indices, so
// every Edge.Dst stays valid for the node's whole lifetime.
type Node struct {
	Index      int
	Name       string
	Type       NodeType
	Attributes *string
	Adj        []Edge
}

// Graph is the adjacency-list undirected graph produced by elaboration,
// per spec.md §3. Insertion order defines stable indices.
type Graph struct {
	Nodes []Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode allocates a new node with the given full name and returns its
// index. Duplicate names are allowed; FindNode returns the lowest
// non-replaced match.
func (g *Graph) AddNode(name string, typ NodeType, attrs *string) int {
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Index: idx, Name: name, Type: typ, Attributes: attrs})
	return idx
}

// FindNode returns the index of the lowest-indexed node with the given
// name whose type is not Replaced/ReplacedT, or -1 if none match.
func (g *Graph) FindNode(name string) int {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name && g.Nodes[i].Type != NodeReplaced && g.Nodes[i].Type != NodeReplacedT {
			return i
		}
	}
	return -1
}

// AreAdjacent reports whether a and b already share an edge.
func (g *Graph) AreAdjacent(a, b int) bool {
	if a < 0 || a >= len(g.Nodes) {
		return false
	}
	for _, e := range g.Nodes[a].Adj {
		if e.Dst == b {
			return true
		}
	}
	return false
}

// AddEdge inserts an undirected edge between a and b, copying attrs into
// both endpoints' adjacency slots. Fails with ErrConn if a == b or either
// index is out of range. A pre-existing edge between a and b is a no-op
// success, per spec.md §4.3.
func (g *Graph) AddEdge(a, b int, attrs *string) error {
	if a < 0 || b < 0 || a >= len(g.Nodes) || b >= len(g.Nodes) {
		return newErr(ErrConn, "invalid node index %d or %d", a, b)
	}
	if a == b {
		return newErr(ErrConn, "self-loop on node %d (%s)", a, g.Nodes[a].Name)
	}
	if g.AreAdjacent(a, b) {
		return nil
	}
	g.Nodes[a].Adj = append(g.Nodes[a].Adj, Edge{Dst: b, Attributes: attrs})
	g.Nodes[b].Adj = append(g.Nodes[b].Adj, Edge{Dst: a, Attributes: attrs})
	return nil
}

// AddEdgeByName resolves a and b by name and adds an edge between them.
func (g *Graph) AddEdgeByName(nameA, nameB string, attrs *string) error {
	a := g.FindNode(nameA)
	b := g.FindNode(nameB)
	if a < 0 || b < 0 {
		return newErr(ErrConn, "%s %s", nameA, nameB)
	}
	return g.AddEdge(a, b, attrs)
}

// Serialize emits the graph as DOT text, per spec.md §4.3/§6.2. When
// includeGates is false, gate-typed nodes and edges incident to them are
// skipped; every undirected edge is emitted exactly once, at its
// lower-indexed endpoint.
func (g *Graph) Serialize(includeGates bool) string {
	var b strings.Builder
	b.WriteString("graph g {\n")
	for i, n := range g.Nodes {
		if n.Type != NodeNode && !includeGates {
			continue
		}
		fmt.Fprintf(&b, "n%d [label=\"%s\"", i, n.Name)
		if n.Attributes != nil {
			fmt.Fprintf(&b, ", %s", *n.Attributes)
		}
		b.WriteString("];\n")
	}
	for i, n := range g.Nodes {
		if n.Type != NodeNode && !includeGates {
			continue
		}
		for _, e := range n.Adj {
			if i > e.Dst {
				continue
			}
			if !includeGates && g.Nodes[e.Dst].Type != NodeNode {
				continue
			}
			fmt.Fprintf(&b, "n%d -- n%d", i, e.Dst)
			if e.Attributes != nil {
				fmt.Fprintf(&b, " [%s]", *e.Attributes)
			}
			b.WriteString(";\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}
