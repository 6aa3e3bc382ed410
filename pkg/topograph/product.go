package topograph

import "fmt"

// realizeProductSubmodule elaborates both operands of a product submodule
// into fresh, independent graphs, compacts each, computes the requested
// graph product, and splices the result into the current scope, per
// spec.md §4.5.
func (ctx *elabCtx) realizeProductSubmodule(sm *SubmoduleRef) error {
	a, err := ctx.elaborateOperand(sm.A)
	if err != nil {
		return err
	}
	b, err := ctx.elaborateOperand(sm.B)
	if err != nil {
		return err
	}

	var prod *Graph
	switch sm.ProductOf {
	case ProductCartesian:
		prod = cartesianProduct(a, b)
	case ProductTensor:
		prod = tensorProduct(a, b)
	case ProductLexicographical:
		prod = lexicographicalProduct(a, b)
	case ProductStrong:
		prod = strongProduct(a, b)
	case ProductRoot:
		prod, err = rootProduct(a, b, sm.Root)
		if err != nil {
			return err
		}
	default:
		return newErr(ErrUnsupportedProduct, "%s", sm.ProductOf)
	}

	ctx.spliceGraph(prod)
	return nil
}

// elaborateOperand realizes one product operand into its own graph under a
// fresh, empty NameStack, sharing the parent's ParamStack, then compacts it.
func (ctx *elabCtx) elaborateOperand(ref *SubmoduleRef) (*Graph, error) {
	operand := &elabCtx{def: ctx.def, g: NewGraph(), s: NewNameStack(""), p: ctx.p}
	if err := operand.realizeSubmodule(ref); err != nil {
		return nil, err
	}
	return Compact(operand.g)
}

// spliceGraph copies src's nodes (qualified under the current scope) and
// internal edges into ctx.g.
func (ctx *elabCtx) spliceGraph(src *Graph) {
	index := make([]int, len(src.Nodes))
	for i, n := range src.Nodes {
		index[i] = ctx.g.AddNode(ctx.s.Full()+"."+n.Name, n.Type, n.Attributes)
	}
	for i, n := range src.Nodes {
		for _, e := range n.Adj {
			if i < e.Dst {
				ctx.g.AddEdge(index[i], index[e.Dst], e.Attributes)
			}
		}
	}
}

func vertexName(a, b string) string {
	return fmt.Sprintf("(%s,%s)", a, b)
}

// mergeAttrs concatenates a and b as "a.attrs, b.attrs", per spec.md §4.5.
// Either may be absent; if both are absent the result is nil.
func mergeAttrs(a, b *string) *string {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		merged := *a + ", " + *b
		return &merged
	}
}

// cartesianProduct builds the box product A □ B: (u1,v)~(u2,v) whenever
// u1~u2 in A, and (u,v1)~(u,v2) whenever v1~v2 in B.
func cartesianProduct(a, b *Graph) *Graph {
	prod := NewGraph()
	idx := gridIndex(prod, a, b)

	for i := range a.Nodes {
		for j := range b.Nodes {
			for _, e := range a.Nodes[i].Adj {
				if i < e.Dst {
					prod.AddEdge(idx[i][j], idx[e.Dst][j], e.Attributes)
				}
			}
			for _, e := range b.Nodes[j].Adj {
				if j < e.Dst {
					prod.AddEdge(idx[i][j], idx[i][e.Dst], e.Attributes)
				}
			}
		}
	}
	return prod
}

// tensorProduct builds the categorical product A × B: (u1,v1)~(u2,v2) iff
// u1~u2 in A AND v1~v2 in B.
func tensorProduct(a, b *Graph) *Graph {
	prod := NewGraph()
	idx := gridIndex(prod, a, b)

	for i, na := range a.Nodes {
		for _, ea := range na.Adj {
			if i >= ea.Dst {
				continue
			}
			for j, nb := range b.Nodes {
				for _, eb := range nb.Adj {
					if j >= eb.Dst {
						continue
					}
					prod.AddEdge(idx[i][j], idx[ea.Dst][eb.Dst], mergeAttrs(ea.Attributes, eb.Attributes))
					prod.AddEdge(idx[i][eb.Dst], idx[ea.Dst][j], mergeAttrs(ea.Attributes, eb.Attributes))
				}
			}
		}
	}
	return prod
}

// lexicographicalProduct builds A[B]: (u1,v1)~(u2,v2) iff u1~u2 in A, or
// u1 == u2 and v1~v2 in B.
func lexicographicalProduct(a, b *Graph) *Graph {
	prod := NewGraph()
	idx := gridIndex(prod, a, b)

	for i, na := range a.Nodes {
		for _, e := range na.Adj {
			if i >= e.Dst {
				continue
			}
			for j := range b.Nodes {
				for j2 := range b.Nodes {
					prod.AddEdge(idx[i][j], idx[e.Dst][j2], e.Attributes)
				}
			}
		}
	}
	for i := range a.Nodes {
		for j, nb := range b.Nodes {
			for _, e := range nb.Adj {
				if j < e.Dst {
					prod.AddEdge(idx[i][j], idx[i][e.Dst], e.Attributes)
				}
			}
		}
	}
	return prod
}

// strongProduct builds A ⊠ B as the union of the Cartesian and tensor
// product edge sets.
func strongProduct(a, b *Graph) *Graph {
	prod := cartesianProduct(a, b)
	tensor := tensorProduct(a, b)
	for i, n := range tensor.Nodes {
		for _, e := range n.Adj {
			if i < e.Dst {
				prod.AddEdge(i, e.Dst, e.Attributes)
			}
		}
	}
	return prod
}

// rootProduct attaches a copy of b to every vertex of a, identifying b's
// node named root with that vertex of a, per spec.md §4.5.
func rootProduct(a, b *Graph, root string) (*Graph, error) {
	rootIdx := b.FindNode(root)
	if rootIdx < 0 {
		return nil, newErr(ErrRoot, "%s", root)
	}

	prod := NewGraph()
	aIdx := make([]int, len(a.Nodes))
	for i, n := range a.Nodes {
		aIdx[i] = prod.AddNode(n.Name, n.Type, n.Attributes)
	}
	for i, n := range a.Nodes {
		for _, e := range n.Adj {
			if i < e.Dst {
				prod.AddEdge(aIdx[i], aIdx[e.Dst], e.Attributes)
			}
		}
	}

	copyIdx := make([][]int, len(a.Nodes))
	for i, na := range a.Nodes {
		copyIdx[i] = make([]int, len(b.Nodes))
		for j, nb := range b.Nodes {
			if j == rootIdx {
				copyIdx[i][j] = aIdx[i]
				continue
			}
			copyIdx[i][j] = prod.AddNode(vertexName(na.Name, nb.Name), nb.Type, nb.Attributes)
		}
	}
	for i := range a.Nodes {
		for j, nb := range b.Nodes {
			for _, e := range nb.Adj {
				if j < e.Dst {
					prod.AddEdge(copyIdx[i][j], copyIdx[i][e.Dst], e.Attributes)
				}
			}
		}
	}
	return prod, nil
}

// gridIndex allocates |a|x|b| product vertices named "(u,v)" into prod and
// returns their index grid.
func gridIndex(prod, a, b *Graph) [][]int {
	idx := make([][]int, len(a.Nodes))
	for i, na := range a.Nodes {
		idx[i] = make([]int, len(b.Nodes))
		for j, nb := range b.Nodes {
			idx[i][j] = prod.AddNode(vertexName(na.Name, nb.Name), NodeNode, mergeAttrs(na.Attributes, nb.Attributes))
		}
	}
	return idx
}
