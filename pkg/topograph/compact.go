package topograph

// compactChain walks a gate chain starting at the gate node 'start',
// having arrived from 'prev'. It marks every gate it passes through as
// GateVisited (including a dangling terminal gate), per spec.md §4.7.
// It returns the index of the node-type vertex the chain terminates at
// (if any) and the last non-nil attribute string seen along the way.
func compactChain(g *Graph, prev, start int) (end int, found bool, attrs *string, err error) {
	cur := start
	for {
		node := &g.Nodes[cur]
		if len(node.Adj) > 2 {
			return 0, false, nil, newErr(ErrBadGate, "%s", node.Name)
		}
		node.Type = NodeGateVisited

		next := -1
		var edgeAttrs *string
		for _, e := range node.Adj {
			if e.Dst != prev {
				next = e.Dst
				edgeAttrs = e.Attributes
				break
			}
		}
		if edgeAttrs != nil {
			attrs = edgeAttrs
		}
		if next == -1 {
			// open end: only neighbor was where we came from.
			return 0, false, attrs, nil
		}
		if g.Nodes[next].Type == NodeNode {
			return next, true, attrs, nil
		}
		prev, cur = cur, next
	}
}

// Compact rewrites gate-chains into direct node-to-node edges and removes
// intermediate gates, per spec.md §4.7. It returns a new graph. The input
// graph is modified in place: walked gates are marked GateVisited and the
// direct node-to-node edges are added to it as well.
func Compact(g *Graph) (*Graph, error) {
	for i := range g.Nodes {
		if g.Nodes[i].Type != NodeNode {
			continue
		}
		// Snapshot: AddEdge below appends to g.Nodes[i].Adj, and we must
		// not re-walk the newly added direct edges in this same pass.
		adj := append([]Edge(nil), g.Nodes[i].Adj...)
		for _, e := range adj {
			if g.Nodes[e.Dst].Type != NodeGate {
				continue
			}
			end, found, attrs, err := compactChain(g, i, e.Dst)
			if err != nil {
				return nil, err
			}
			if found && !g.AreAdjacent(end, i) {
				if err := g.AddEdge(end, i, attrs); err != nil {
					return nil, err
				}
			}
		}
	}

	newG := NewGraph()
	index := make(map[int]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.Type == NodeGateVisited || n.Type == NodeReplacedT || n.Type == NodeReplaced {
			continue
		}
		// An unvisited gate with no edges was never reached by any chain
		// walk; it's dropped same as a visited one. A Node-type vertex
		// survives regardless of its edge count — spec.md §8 scenario 1
		// elaborates a single zero-gate module to a lone surviving node.
		if n.Type == NodeGate && len(n.Adj) == 0 {
			continue
		}
		index[i] = newG.AddNode(n.Name, n.Type, n.Attributes)
	}
	for i, n := range g.Nodes {
		if _, kept := index[i]; !kept {
			continue
		}
		for _, e := range n.Adj {
			if i >= e.Dst {
				continue
			}
			dstIdx, ok := index[e.Dst]
			if !ok {
				continue
			}
			if err := newG.AddEdge(index[i], dstIdx, e.Attributes); err != nil {
				return nil, err
			}
		}
	}
	return newG, nil
}
