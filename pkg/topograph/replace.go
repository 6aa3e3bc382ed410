package topograph

import "strings"

// doReplace marks every Node-typed vertex under the current scope matching
// rep's regex as retired, realizes the replacement submodule exactly once
// in the current scope, then rewires each retired node's external edges
// onto whichever new node landed at that retired node's exact name, per
// spec.md §4.6.
func (ctx *elabCtx) doReplace(rep *Replace) error {
	re, err := compileScopedRegex(ctx.s.Full(), rep.Regex)
	if err != nil {
		return wrapErr(ErrRegex, err, "%s", rep.Regex)
	}

	prefix := ctx.s.Full() + "."
	for i := range ctx.g.Nodes {
		n := &ctx.g.Nodes[i]
		if n.Type == NodeNode && strings.HasPrefix(n.Name, prefix) && re.MatchString(n.Name) {
			n.Type = NodeReplacedT
		}
	}

	if err := ctx.realizeSubmodule(rep.Submodule); err != nil {
		return err
	}

	for i := range ctx.g.Nodes {
		if ctx.g.Nodes[i].Type != NodeReplacedT {
			continue
		}
		if err := ctx.rewireReplaced(i); err != nil {
			return err
		}
	}
	return nil
}

// rewireReplaced resolves the new node landing at old's exact name (if
// any), retargets old's external edges onto it, and retires old.
func (ctx *elabCtx) rewireReplaced(old int) error {
	oldName := ctx.g.Nodes[old].Name
	newIdx := ctx.g.FindNode(oldName)
	external := append([]Edge(nil), ctx.g.Nodes[old].Adj...)

	if newIdx < 0 {
		ctx.g.Nodes[old].Type = NodeReplaced
		ctx.g.Nodes[old].Adj = nil
		return nil
	}

	for _, e := range external {
		if e.Dst == old {
			continue
		}
		// Drop the neighbor's stale back-reference to old before rewiring
		// it onto the new node, so Compact never walks into a retired node.
		ctx.g.Nodes[e.Dst].Adj = removeEdgeTo(ctx.g.Nodes[e.Dst].Adj, old)
		if ctx.g.AreAdjacent(newIdx, e.Dst) {
			continue
		}
		if err := ctx.g.AddEdge(newIdx, e.Dst, e.Attributes); err != nil {
			return err
		}
	}

	ctx.g.Nodes[old].Type = NodeReplaced
	ctx.g.Nodes[old].Adj = nil
	return nil
}

// removeEdgeTo returns adj with every entry pointing at dst removed.
func removeEdgeTo(adj []Edge, dst int) []Edge {
	out := adj[:0]
	for _, e := range adj {
		if e.Dst != dst {
			out = append(out, e)
		}
	}
	return out
}
