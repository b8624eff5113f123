package eval

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/interner"
)

// evalFieldAccess implements spec.md §4.8's member-access dispatch: an
// array or str gets a BoundNativeMethod for its builtin members, a
// module value resolves one of its exports, and an instance goes
// through memberOf's field-shadows-method lookup.
func (e *Evaluator) evalFieldAccess(n *ast.FieldAccess) (Flow, *RuntimeError) {
	tf, rerr := e.evalExpr(n.Target)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(tf) {
		return tf, nil
	}

	name := e.Ctx.Interner.Resolve(n.Name)
	switch t := tf.Value.(type) {
	case *ArrayValue:
		switch name {
		case "len":
			return ok(&BoundNativeMethod{Receiver: t, Name: "len", Fn: nativeArrayLen}), nil
		case "push":
			return ok(&BoundNativeMethod{Receiver: t, Name: "push", Fn: nativeArrayPush}), nil
		}
	case StrValue:
		if name == "len" {
			return ok(&BoundNativeMethod{Receiver: t, Name: "len", Fn: nativeStrLen}), nil
		}
	case *ModuleValue:
		return e.evalModuleMember(t, n.Name)
	case *Instance:
		v, rerr := e.memberOf(t, n.Name)
		if rerr != nil {
			return Flow{}, rerr
		}
		return ok(v), nil
	}
	return Flow{}, newErr(ErrPropertyNotFound, "no property or method %q on value of type %s", name, tf.Value.TypeName())
}

// evalModuleMember resolves `alias.name` for a `use ... as alias` binding
// against the already-analyzed ModuleInfo for that file: a class, a
// function (wrapped as a FunctionValue closing over that module's
// globals), or a global variable read out of that module's environment.
func (e *Evaluator) evalModuleMember(mv *ModuleValue, name interner.Symbol) (Flow, *RuntimeError) {
	mod, ok := e.Ctx.ModuleByFile(mv.File)
	if !ok {
		return Flow{}, newErr(ErrInternal, "module not loaded for export lookup")
	}
	id := tableID(mv.File, name)
	if _, isTable := mod.Tables[id]; isTable {
		return ok(&TableValue{Table: id}), nil
	}

	env, rerr := e.bootstrapModule(mv.File)
	if rerr != nil {
		return Flow{}, rerr
	}
	if _, isFn := mod.Functions[name]; isFn {
		return ok(&FunctionValue{File: mv.File, Name: name, Captured: env}), nil
	}
	if _, isGlobal := mod.Globals[name]; isGlobal {
		v, _ := env.Get(name)
		return ok(v), nil
	}
	return Flow{}, newErr(ErrPropertyNotFound, "no such export %q on module %s", e.Ctx.Interner.Resolve(name), mod.Path)
}

// evalIndex implements array/string indexing (spec.md §3.6/§4.8): both
// require an int index and report IndexOutOfBounds on an out-of-range
// access.
func (e *Evaluator) evalIndex(n *ast.IndexExpr) (Flow, *RuntimeError) {
	tf, rerr := e.evalExpr(n.Target)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(tf) {
		return tf, nil
	}
	iff, rerr := e.evalExpr(n.Index)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(iff) {
		return iff, nil
	}
	idx, isInt := iff.Value.(IntValue)
	if !isInt {
		return Flow{}, newErr(ErrTypeError, "index must be int, found %s", iff.Value.TypeName())
	}

	switch t := tf.Value.(type) {
	case *ArrayValue:
		i := int64(idx)
		if i < 0 || i >= int64(len(t.Elements)) {
			return Flow{}, newErr(ErrIndexOutOfBounds, "array index %d out of bounds (len %d)", i, len(t.Elements))
		}
		return ok(t.Elements[i]), nil
	case StrValue:
		runes := []rune(string(t))
		i := int64(idx)
		if i < 0 || i >= int64(len(runes)) {
			return Flow{}, newErr(ErrIndexOutOfBounds, "string index %d out of bounds (len %d)", i, len(runes))
		}
		return ok(StrValue(string(runes[i]))), nil
	default:
		return Flow{}, newErr(ErrTypeError, "value of type %s is not indexable", tf.Value.TypeName())
	}
}

// evalCall evaluates the callee and every argument left-to-right, then
// dispatches through callValue (spec.md §4.8's "Call semantics").
func (e *Evaluator) evalCall(n *ast.CallExpr) (Flow, *RuntimeError) {
	cf, rerr := e.evalExpr(n.Callee)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(cf) {
		return cf, nil
	}

	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		af, rerr := e.evalExpr(a)
		if rerr != nil {
			return Flow{}, rerr
		}
		if signaled(af) {
			return af, nil
		}
		args = append(args, af.Value)
	}

	v, rerr := e.callValue(cf.Value, args)
	if rerr != nil {
		return Flow{}, rerr
	}
	return ok(v), nil
}
