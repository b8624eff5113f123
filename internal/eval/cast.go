package eval

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/types"
)

// evalCast implements spec.md §4.8's "Cast at runtime" paragraph. The
// analyzer already resolved and recorded the cast's target type on this
// node during checking, so the evaluator reads it back out of the
// semantic database rather than re-resolving the TypeExpr itself.
func (e *Evaluator) evalCast(n *ast.CastExpr) (Flow, *RuntimeError) {
	vf, rerr := e.evalExpr(n.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(vf) {
		return vf, nil
	}
	target, ok := e.Ctx.DB.TypeMap[n.ID()]
	if !ok {
		return Flow{}, newErr(ErrInternal, "cast node has no recorded target type")
	}
	v, rerr := e.runtimeCast(vf.Value, target)
	if rerr != nil {
		return Flow{}, rerr
	}
	return ok(v), nil
}

func (e *Evaluator) runtimeCast(v Value, target types.Type) (Value, *RuntimeError) {
	switch target.Kind {
	case types.KInt:
		switch s := v.(type) {
		case IntValue:
			return s, nil
		case FloatValue:
			return IntValue(int64(s)), nil
		case BoolValue:
			if s {
				return IntValue(1), nil
			}
			return IntValue(0), nil
		}
	case types.KFloat:
		switch s := v.(type) {
		case FloatValue:
			return s, nil
		case IntValue:
			return FloatValue(float64(s)), nil
		}
	case types.KBool:
		if b, isBool := v.(BoolValue); isBool {
			return b, nil
		}
	case types.KStr:
		return StrValue(v.Inspect()), nil
	case types.KChar:
		if c, isChar := v.(CharValue); isChar {
			return c, nil
		}
	case types.KNil:
		return NilValue{}, nil
	case types.KUnit:
		return UnitValue{}, nil
	case types.KArray:
		arr, isArr := v.(*ArrayValue)
		if !isArr {
			break
		}
		out := make([]Value, len(arr.Elements))
		for i, el := range arr.Elements {
			cv, rerr := e.runtimeCast(el, *target.Elem)
			if rerr != nil {
				return nil, rerr
			}
			out[i] = cv
		}
		return &ArrayValue{Elements: out}, nil
	case types.KTable, types.KGenericInstance:
		inst, isInst := v.(*Instance)
		if !isInst {
			break
		}
		if e.Ctx.IsSubclass(inst.Table, target.Table) {
			return inst, nil
		}
		return nil, newErr(ErrInvalidCast, "instance of %s does not satisfy cast target",
			e.Ctx.Interner.Resolve(inst.Table.Name))
	}
	if _, isNil := v.(NilValue); isNil {
		return NilValue{}, nil
	}
	return nil, newErr(ErrInvalidCast, "cannot cast value of type %s to %s", v.TypeName(), target.String())
}
