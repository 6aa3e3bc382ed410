package topograph

import (
	"fmt"
	"strings"
)

// realizeConnection wires one connection entry, dispatching on its kind,
// per spec.md §4.4.
func (ctx *elabCtx) realizeConnection(c *Connection) error {
	switch c.Kind {
	case ConnLoop:
		return ctx.realizeLoopConnection(c)
	case ConnConditional:
		return ctx.realizeConditionalConnection(c)
	case ConnAllMatch:
		return ctx.realizeAllMatchConnection(c)
	default:
		return ctx.realizePlainConnection(c)
	}
}

func (ctx *elabCtx) realizePlainConnection(c *Connection) error {
	a, err := ctx.resolveEndpoint(c.From)
	if err != nil {
		return err
	}
	b, err := ctx.resolveEndpoint(c.To)
	if err != nil {
		return err
	}
	return ctx.g.AddEdge(a, b, c.Attributes)
}

func (ctx *elabCtx) realizeLoopConnection(c *Connection) error {
	start, err := ctx.p.EvalInt(c.Start)
	if err != nil {
		return wrapErr(ErrEval, err, "loop start")
	}
	end, err := ctx.p.EvalInt(c.End)
	if err != nil {
		return wrapErr(ErrEval, err, "loop end")
	}
	if start > end {
		return newErr(ErrLoop, "start %d > end %d", start, end)
	}
	for j := start; j < end; j++ {
		ctx.p.EnterLiteral(c.Var, j)
		err := ctx.realizeConnection(c.Body)
		ctx.p.Leave()
		if err != nil {
			return err
		}
	}
	return nil
}

func (ctx *elabCtx) realizeConditionalConnection(c *Connection) error {
	val, err := ctx.p.Eval(c.Condition)
	if err != nil {
		return wrapErr(ErrEval, err, "connection condition")
	}
	if val != 0 {
		return ctx.realizeConnection(c.Then)
	}
	if c.Else != nil {
		return ctx.realizeConnection(c.Else)
	}
	return nil
}

// realizeAllMatchConnection wires every pair of the current scope's
// already-instantiated nodes whose full name matches the regex into a
// clique, per spec.md §4.4's all-match connection kind.
func (ctx *elabCtx) realizeAllMatchConnection(c *Connection) error {
	re, err := compileScopedRegex(ctx.s.Full(), c.Regex)
	if err != nil {
		return wrapErr(ErrRegex, err, "%s", c.Regex)
	}
	prefix := ctx.s.Full() + "."
	var matches []int
	for i, n := range ctx.g.Nodes {
		if n.Type == NodeNode && strings.HasPrefix(n.Name, prefix) && re.MatchString(n.Name) {
			matches = append(matches, i)
		}
	}
	for i := 0; i < len(matches); i++ {
		for j := i + 1; j < len(matches); j++ {
			a, err := ctx.autoGateFor(matches[i])
			if err != nil {
				return err
			}
			b, err := ctx.autoGateFor(matches[j])
			if err != nil {
				return err
			}
			if err := ctx.g.AddEdge(a, b, c.Attributes); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveEndpoint evaluates pattern's bracket expressions, qualifies it
// under the current scope, and resolves it to a node. A match on a
// Node-typed vertex is routed through a fresh auto-gate so every edge in
// the uncompacted graph always terminates at a gate, per spec.md §4.4.
func (ctx *elabCtx) resolveEndpoint(pattern string) (int, error) {
	name, err := ctx.p.EvalName(pattern)
	if err != nil {
		return -1, err
	}
	full := ctx.s.Full() + "." + name
	idx := ctx.g.FindNode(full)
	if idx < 0 {
		return -1, newErr(ErrConn, "%s", full)
	}
	return ctx.autoGateFor(idx)
}

func (ctx *elabCtx) autoGateFor(idx int) (int, error) {
	if ctx.g.Nodes[idx].Type != NodeNode {
		return idx, nil
	}
	return ctx.addAutoGate(idx)
}

// addAutoGate allocates the next free "<node>._auto[k]" gate on node and
// wires it, so a plain node-to-node wire still runs through a gate hop
// that Compact later collapses away.
func (ctx *elabCtx) addAutoGate(node int) (int, error) {
	base := ctx.g.Nodes[node].Name
	k := 0
	for {
		name := fmt.Sprintf("%s._auto[%d]", base, k)
		if ctx.g.FindNode(name) < 0 {
			gidx := ctx.g.AddNode(name, NodeGate, nil)
			if err := ctx.g.AddEdge(node, gidx, nil); err != nil {
				return -1, err
			}
			return gidx, nil
		}
		k++
	}
}
