package eval

import "github.com/softfault/loom/internal/ast"

// evalAssign implements spec.md §4.6.3's three assignment target shapes at
// runtime, desugaring compound assignment (`+=` etc.) through the shared
// binaryOp exactly like the analyzer's compoundResultType does statically.
func (e *Evaluator) evalAssign(n *ast.AssignExpr) (Flow, *RuntimeError) {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		return e.evalAssignIdentifier(n, target)
	case *ast.FieldAccess:
		return e.evalAssignField(n, target)
	case *ast.IndexExpr:
		return e.evalAssignIndex(n, target)
	default:
		return Flow{}, newErr(ErrInternal, "invalid assignment target")
	}
}

// evalAssignIdentifier mirrors the analyzer's "implicitly declare on
// first assignment" rule: Assign walks outward for an existing binding,
// and only Defines a fresh one in the current frame when none exists.
func (e *Evaluator) evalAssignIdentifier(n *ast.AssignExpr, target *ast.Identifier) (Flow, *RuntimeError) {
	vf, rerr := e.evalExpr(n.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(vf) {
		return vf, nil
	}

	result := vf.Value
	if n.Op != "=" {
		cur, found := e.environment.Get(target.Name)
		if !found {
			return Flow{}, newErr(ErrUndefinedVariable, "undefined variable: %s", e.Ctx.Interner.Resolve(target.Name))
		}
		v, rerr := compoundBinaryOp(n.Op, cur, vf.Value)
		if rerr != nil {
			return Flow{}, rerr
		}
		result = v
	}

	if !e.environment.Assign(target.Name, result) {
		e.environment.Define(target.Name, result)
	}
	return ok(result), nil
}

func (e *Evaluator) evalAssignField(n *ast.AssignExpr, target *ast.FieldAccess) (Flow, *RuntimeError) {
	tf, rerr := e.evalExpr(target.Target)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(tf) {
		return tf, nil
	}
	vf, rerr := e.evalExpr(n.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(vf) {
		return vf, nil
	}

	inst, isInst := tf.Value.(*Instance)
	if !isInst {
		return Flow{}, newErr(ErrTypeError, "assignment target is not a field of an instance")
	}

	result := vf.Value
	if n.Op != "=" {
		cur, found := inst.Fields[target.Name]
		if !found {
			return Flow{}, newErr(ErrPropertyNotFound, "no such field %q", e.Ctx.Interner.Resolve(target.Name))
		}
		v, rerr := compoundBinaryOp(n.Op, cur, vf.Value)
		if rerr != nil {
			return Flow{}, rerr
		}
		result = v
	}
	inst.Fields[target.Name] = result
	return ok(result), nil
}

func (e *Evaluator) evalAssignIndex(n *ast.AssignExpr, target *ast.IndexExpr) (Flow, *RuntimeError) {
	tf, rerr := e.evalExpr(target.Target)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(tf) {
		return tf, nil
	}
	iff, rerr := e.evalExpr(target.Index)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(iff) {
		return iff, nil
	}
	vf, rerr := e.evalExpr(n.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(vf) {
		return vf, nil
	}

	arr, isArr := tf.Value.(*ArrayValue)
	if !isArr {
		return Flow{}, newErr(ErrTypeError, "assignment target is not an array")
	}
	idx, isInt := iff.Value.(IntValue)
	if !isInt {
		return Flow{}, newErr(ErrTypeError, "array index must be int")
	}
	i := int64(idx)
	if i < 0 || i >= int64(len(arr.Elements)) {
		return Flow{}, newErr(ErrIndexOutOfBounds, "array index %d out of bounds (len %d)", i, len(arr.Elements))
	}

	result := vf.Value
	if n.Op != "=" {
		v, rerr := compoundBinaryOp(n.Op, arr.Elements[i], vf.Value)
		if rerr != nil {
			return Flow{}, rerr
		}
		result = v
	}
	arr.Elements[i] = result
	return ok(result), nil
}
