package eval

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/types"
)

// callValue implements spec.md §4.8's "Call semantics" dispatch over
// every callable Value kind, including a class reference acting as its
// own constructor call.
func (e *Evaluator) callValue(callee Value, args []Value) (Value, *RuntimeError) {
	switch fn := callee.(type) {
	case *FunctionValue:
		return e.callFunction(fn, args)
	case *BoundMethod:
		return e.callBoundMethod(fn, args)
	case *NativeFunction:
		return fn.Fn(e, args)
	case *BoundNativeMethod:
		return fn.Fn(e, fn.Receiver, args)
	case *TableValue:
		return e.instantiate(fn.Table, args)
	default:
		return nil, newErr(ErrNotCallable, "value of type %s is not callable", callee.TypeName())
	}
}

// callFunction builds a call environment enclosing the function's
// captured (definition-site) environment, binds parameters by position,
// swaps to the defining module's context, and runs the body (spec.md
// §4.8: "build a call environment whose enclosing scope is captured_env
// ... swap environment and globals to the defining module, run the
// body, restore").
func (e *Evaluator) callFunction(fn *FunctionValue, args []Value) (Value, *RuntimeError) {
	mod, ok := e.Ctx.ModuleByFile(fn.File)
	if !ok {
		return nil, newErr(ErrInternal, "function's defining module not loaded")
	}
	fi, ok := mod.Functions[fn.Name]
	if !ok {
		return nil, newErr(ErrInternal, "function not found in its defining module")
	}
	if fi.Decl.Body == nil {
		return nil, newErr(ErrInternal, "function has no body")
	}
	if len(args) != len(fi.Decl.Params) {
		return nil, newErr(ErrArgumentCount, "function %s: expected %d argument(s), found %d",
			e.Ctx.Interner.Resolve(fn.Name), len(fi.Decl.Params), len(args))
	}

	callEnv := NewEnclosedEnvironment(fn.Captured)
	for i, p := range fi.Decl.Params {
		callEnv.Define(p.Name, args[i])
	}

	var result Value
	var rerr *RuntimeError
	e.withFrame(callEnv, fn.Captured, fn.File, func() {
		flow, err := e.evalExpr(fi.Decl.Body)
		if err != nil {
			rerr = err
			return
		}
		result, rerr = flowToCallResult(flow)
	})
	return result, rerr
}

// callBoundMethod additionally binds `self` before positional parameters
// and uses the method's owning module's environment as globals (spec.md
// §4.8: "For BoundMethod, additionally bind self before parameters and
// use the method's owning module's environment as globals").
func (e *Evaluator) callBoundMethod(bm *BoundMethod, args []Value) (Value, *RuntimeError) {
	if bm.Method.Body == nil {
		return nil, newErr(ErrInternal, "method has no body")
	}
	params := nonSelfParams(bm.Method, e.selfSymbol())
	if len(args) != len(params) {
		return nil, newErr(ErrArgumentCount, "method %s: expected %d argument(s), found %d",
			e.Ctx.Interner.Resolve(bm.Method.Name), len(params), len(args))
	}

	callEnv := NewEnclosedEnvironment(bm.DefEnv)
	callEnv.Define(e.selfSymbol(), bm.Receiver)
	for i, p := range params {
		callEnv.Define(p.Name, args[i])
	}

	var result Value
	var rerr *RuntimeError
	e.withFrame(callEnv, bm.DefEnv, bm.DefFile, func() {
		flow, err := e.evalExpr(bm.Method.Body)
		if err != nil {
			rerr = err
			return
		}
		result, rerr = flowToCallResult(flow)
	})
	return result, rerr
}

// flowToCallResult converts the block-body's Flow into the call's final
// result: a surfacing Return(v) becomes Ok(v); a plain value falls
// through as-is; Break/Continue escaping to a call boundary is a runtime
// bug in any well-typed program (the analyzer rejects loop control
// outside a loop), so it is reported rather than silently swallowed.
func flowToCallResult(f Flow) (Value, *RuntimeError) {
	switch f.Signal {
	case SigNone, SigReturn:
		return f.Value, nil
	default:
		return nil, newErr(ErrInternal, "break/continue escaped a function call")
	}
}

func nonSelfParams(m *ast.MethodDecl, self interner.Symbol) []ast.Param {
	out := make([]ast.Param, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Name == self {
			continue
		}
		out = append(out, p)
	}
	return out
}

// instantiate implements spec.md §4.8's "Instantiation": collect the
// class's flattened fields, evaluate each initializer in the module that
// declared it (not the caller's module), then run `init` (if any) bound
// to the freshly built instance.
func (e *Evaluator) instantiate(id types.TableId, args []Value) (Value, *RuntimeError) {
	info := e.Ctx.TableInfo(id)
	if info == nil {
		return nil, newErr(ErrInternal, "unknown class in constructor call")
	}

	inst := &Instance{Table: id, Fields: make(map[interner.Symbol]Value, len(info.Fields))}
	for name, fi := range info.Fields {
		if fi.Init == nil {
			inst.Fields[name] = NilValue{}
			continue
		}
		defEnv, rerr := e.bootstrapModule(fi.File)
		if rerr != nil {
			return nil, rerr
		}
		var flow Flow
		var ferr *RuntimeError
		e.withFrame(defEnv, defEnv, fi.File, func() {
			flow, ferr = e.evalExpr(fi.Init)
		})
		if ferr != nil {
			return nil, ferr
		}
		if signaled(flow) {
			return nil, newErr(ErrInternal, "unexpected control signal in field initializer")
		}
		inst.Fields[name] = flow.Value
	}

	mi, hasInit := info.Methods[e.initSymbol()]
	if !hasInit {
		if len(args) != 0 {
			return nil, newErr(ErrArgumentCount, "class %s has no constructor: expected 0 arguments, found %d",
				e.Ctx.Interner.Resolve(id.Name), len(args))
		}
		return inst, nil
	}

	defEnv, rerr := e.bootstrapModule(mi.File)
	if rerr != nil {
		return nil, rerr
	}
	bm := &BoundMethod{Receiver: inst, Method: mi.Decl, DefFile: mi.File, DefEnv: defEnv}
	if _, rerr := e.callBoundMethod(bm, args); rerr != nil {
		return nil, rerr
	}
	return inst, nil
}

// memberOf implements spec.md §4.8's "Method dispatch on instance.field":
// a direct field binding shadows any method of the same name; otherwise
// the (already analysis-time-flattened) method table supplies a
// BoundMethod closing over the method's own defining module.
func (e *Evaluator) memberOf(inst *Instance, name interner.Symbol) (Value, *RuntimeError) {
	if v, ok := inst.Fields[name]; ok {
		return v, nil
	}
	info := e.Ctx.TableInfo(inst.Table)
	if info == nil {
		return nil, newErr(ErrInternal, "unknown class for instance")
	}
	mi, ok := info.Methods[name]
	if !ok {
		return nil, newErr(ErrPropertyNotFound, "no property or method %q on %s",
			e.Ctx.Interner.Resolve(name), e.Ctx.Interner.Resolve(inst.Table.Name))
	}
	defEnv, rerr := e.bootstrapModule(mi.File)
	if rerr != nil {
		return nil, rerr
	}
	return &BoundMethod{Receiver: inst, Method: mi.Decl, DefFile: mi.File, DefEnv: defEnv}, nil
}
