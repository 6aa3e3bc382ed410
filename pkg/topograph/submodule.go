package topograph

import "github.com/asalnikov/topologies/internal/log"

// realizeSubmodule instantiates one submodule reference under the current
// scope, dispatching on its kind, per spec.md §4.4/§4.5.
func (ctx *elabCtx) realizeSubmodule(sm *SubmoduleRef) error {
	switch sm.Kind {
	case SubmConditional:
		return ctx.realizeConditionalSubmodule(sm)
	case SubmProduct:
		return ctx.realizeProductSubmodule(sm)
	default:
		return ctx.realizePlainSubmodule(sm)
	}
}

func (ctx *elabCtx) realizePlainSubmodule(sm *SubmoduleRef) error {
	for _, rp := range sm.Params {
		if err := ctx.p.Enter(rp); err != nil {
			return wrapErr(ErrEval, err, "submodule %s param %s", sm.Name, rp.Name)
		}
	}
	defer func() {
		for range sm.Params {
			ctx.p.Leave()
		}
	}()

	size := 0
	if sm.Size != nil {
		var err error
		size, err = ctx.p.EvalInt(*sm.Size)
		if err != nil {
			return wrapErr(ErrEval, err, "submodule %s size", sm.Name)
		}
	}

	if size <= 0 {
		return ctx.enterAndExpand(sm.Name, -1, sm.Module)
	}
	for j := 0; j < size; j++ {
		ctx.p.EnterLiteral("index", j)
		err := ctx.enterAndExpand(sm.Name, j, sm.Module)
		ctx.p.Leave()
		if err != nil {
			return err
		}
	}
	return nil
}

func (ctx *elabCtx) realizeConditionalSubmodule(sm *SubmoduleRef) error {
	val, err := ctx.p.Eval(sm.Condition)
	if err != nil {
		return wrapErr(ErrEval, err, "submodule condition")
	}
	if val != 0 {
		return ctx.realizeSubmodule(sm.Then)
	}
	if sm.Else != nil {
		return ctx.realizeSubmodule(sm.Else)
	}
	return nil
}

// enterAndExpand pushes (name, index) onto the current scope, looks up
// module and expands it there, then pops the scope.
func (ctx *elabCtx) enterAndExpand(name string, index int, module string) error {
	mod := findModule(ctx.def, module)
	if mod == nil {
		return newErr(ErrNoModule, "%s", module)
	}
	ctx.s.Enter(name, index)
	log.TRACE("entering %s", ctx.s.Full())
	err := ctx.expandModule(mod)
	ctx.s.Leave()
	return err
}
