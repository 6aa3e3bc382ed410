package topograph

import (
	"github.com/asalnikov/topologies/internal/log"
)

// elabCtx carries the three pieces of state threaded through the recursive
// descent: the graph being built, the current name scope, and the current
// parameter bindings. Product operands get their own Graph/NameStack but
// share the parent's ParamStack, per spec.md §4.5.
type elabCtx struct {
	def *NetworkDefinition
	g   *Graph
	s   *NameStack
	p   *ParamStack
}

func findModule(def *NetworkDefinition, name string) *Module {
	for i := range def.Modules {
		if def.Modules[i].Name == name {
			return &def.Modules[i]
		}
	}
	return nil
}

// Elaborate walks a NetworkDefinition's root module and produces the
// uncompacted graph, per spec.md §4.4. Callers that want the final output
// topology still need to run Compact on the result.
func Elaborate(def *NetworkDefinition) (*Graph, error) {
	if def.Network == nil {
		return nil, newErr(ErrNoNetwork, "definition has no \"network\" entry")
	}
	root := findModule(def, def.Network.Module)
	if root == nil {
		return nil, newErr(ErrNoModule, "%s", def.Network.Module)
	}

	ctx := &elabCtx{def: def, g: NewGraph(), s: NewNameStack("network"), p: NewParamStack()}
	for _, rp := range def.Network.Params {
		if err := ctx.p.Enter(rp); err != nil {
			return nil, err
		}
	}
	defer func() {
		for range def.Network.Params {
			ctx.p.Leave()
		}
	}()

	log.DEBUG("elaborating root module %s as %s", root.Name, ctx.s.Full())
	if err := ctx.expandModule(root); err != nil {
		return nil, err
	}
	return ctx.g, nil
}

// expandModule instantiates mod at the current scope: a simple module
// becomes one node plus its gates, wired to it; a compound module becomes
// its boundary gates (as unconnected waypoints) plus the recursive
// expansion of its submodules, connections and replacements, per
// spec.md §4.4.
func (ctx *elabCtx) expandModule(mod *Module) error {
	for _, rp := range mod.Params {
		if err := ctx.p.Enter(rp); err != nil {
			return wrapErr(ErrEval, err, "module %s param %s", mod.Name, rp.Name)
		}
	}
	defer func() {
		for range mod.Params {
			ctx.p.Leave()
		}
	}()

	switch mod.Kind {
	case ModuleSimple:
		nodeIdx := ctx.g.AddNode(ctx.s.Full(), NodeNode, mod.Attributes)
		for _, gate := range mod.Gates {
			if err := ctx.addOwnedGate(nodeIdx, gate); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, gate := range mod.Gates {
			if err := ctx.addWaypointGate(gate); err != nil {
				return err
			}
		}
		for i := range mod.Submodules {
			if err := ctx.realizeSubmodule(&mod.Submodules[i]); err != nil {
				return err
			}
		}
		for i := range mod.Connections {
			if err := ctx.realizeConnection(&mod.Connections[i]); err != nil {
				return err
			}
		}
		for i := range mod.Replace {
			if err := ctx.doReplace(&mod.Replace[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// addOwnedGate adds gate's node(s) under the current scope and wires each
// to owner, for a simple module's own gate list.
func (ctx *elabCtx) addOwnedGate(owner int, gate Gate) error {
	size, err := ctx.p.EvalInt(gate.Size)
	if err != nil {
		return wrapErr(ErrEval, err, "gate %s size", gate.Name)
	}
	if size <= 0 {
		gidx := ctx.g.AddNode(ctx.s.Qualify(gate.Name, -1), NodeGate, nil)
		return ctx.g.AddEdge(owner, gidx, nil)
	}
	for j := 0; j < size; j++ {
		gidx := ctx.g.AddNode(ctx.s.Qualify(gate.Name, j), NodeGate, nil)
		if err := ctx.g.AddEdge(owner, gidx, nil); err != nil {
			return err
		}
	}
	return nil
}

// addWaypointGate adds gate's node(s) under the current scope without any
// edge, for a compound module's boundary gates.
func (ctx *elabCtx) addWaypointGate(gate Gate) error {
	size, err := ctx.p.EvalInt(gate.Size)
	if err != nil {
		return wrapErr(ErrEval, err, "gate %s size", gate.Name)
	}
	if size <= 0 {
		ctx.g.AddNode(ctx.s.Qualify(gate.Name, -1), NodeGate, nil)
		return nil
	}
	for j := 0; j < size; j++ {
		ctx.g.AddNode(ctx.s.Qualify(gate.Name, j), NodeGate, nil)
	}
	return nil
}
