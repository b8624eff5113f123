package eval

import (
	"github.com/softfault/loom/internal/ast"
)

// evalExpr is the single entry point every other eval function uses to
// evaluate one expression (the runtime analogue of the analyzer's
// checkExpr): it dispatches on concrete node kind and returns a Flow
// alongside a possible RuntimeError, the Go rendering of spec.md §4.8's
// ControlFlow sum.
func (e *Evaluator) evalExpr(expr ast.Expression) (Flow, *RuntimeError) {
	if expr == nil {
		return ok(UnitValue{}), nil
	}
	switch n := expr.(type) {
	case *ast.IntLit:
		return ok(IntValue(n.Value)), nil
	case *ast.FloatLit:
		return ok(FloatValue(n.Value)), nil
	case *ast.BoolLit:
		return ok(BoolValue(n.Value)), nil
	case *ast.StringLit:
		return ok(StrValue(n.Value)), nil
	case *ast.CharLit:
		return ok(CharValue(n.Value)), nil
	case *ast.NilLit:
		return ok(NilValue{}), nil
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.FieldAccess:
		return e.evalFieldAccess(n)
	case *ast.IndexExpr:
		return e.evalIndex(n)
	case *ast.CallExpr:
		return e.evalCall(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.RangeExpr:
		return e.evalRange(n)
	case *ast.CastExpr:
		return e.evalCast(n)
	case *ast.BlockExpr:
		return e.evalBlock(n)
	case *ast.IfExpr:
		return e.evalIf(n)
	case *ast.WhileExpr:
		return e.evalWhile(n)
	case *ast.ForExpr:
		return e.evalFor(n)
	case *ast.ReturnExpr:
		return e.evalReturn(n)
	case *ast.BreakExpr:
		return flowBreak, nil
	case *ast.ContinueExpr:
		return flowContinue, nil
	case *ast.ArrayLit:
		return e.evalArrayLit(n)
	case *ast.TupleLit:
		return e.evalTupleLit(n)
	case *ast.VarDef:
		return e.evalVarDef(n)
	case *ast.AssignExpr:
		return e.evalAssign(n)
	}
	return Flow{}, newErr(ErrInternal, "unhandled expression kind")
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier) (Flow, *RuntimeError) {
	v, found := e.environment.Get(n.Name)
	if !found {
		return Flow{}, newErr(ErrUndefinedVariable, "undefined variable: %s", e.Ctx.Interner.Resolve(n.Name))
	}
	return ok(v), nil
}

func (e *Evaluator) evalBlock(b *ast.BlockExpr) (Flow, *RuntimeError) {
	saved := e.environment
	e.environment = NewEnclosedEnvironment(saved)
	defer func() { e.environment = saved }()

	result := ok(UnitValue{})
	for _, stmt := range b.Statements {
		f, rerr := e.evalStatement(stmt)
		if rerr != nil {
			return Flow{}, rerr
		}
		result = f
		if signaled(f) {
			return result, nil
		}
	}
	return result, nil
}

func (e *Evaluator) evalStatement(s ast.Statement) (Flow, *RuntimeError) {
	if es, isExprStmt := s.(*ast.ExprStatement); isExprStmt {
		return e.evalExpr(es.X)
	}
	if expr, isExpr := s.(ast.Expression); isExpr {
		return e.evalExpr(expr)
	}
	return ok(UnitValue{}), nil
}

func (e *Evaluator) evalIf(n *ast.IfExpr) (Flow, *RuntimeError) {
	cf, rerr := e.evalExpr(n.Cond)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(cf) {
		return cf, nil
	}
	b, isBool := cf.Value.(BoolValue)
	if !isBool {
		return Flow{}, newErr(ErrTypeError, "if condition must be bool, found %s", cf.Value.TypeName())
	}
	if bool(b) {
		return e.evalExpr(n.Then)
	}
	if n.Else != nil {
		return e.evalExpr(n.Else)
	}
	return ok(UnitValue{}), nil
}

func (e *Evaluator) evalWhile(n *ast.WhileExpr) (Flow, *RuntimeError) {
	for {
		cf, rerr := e.evalExpr(n.Cond)
		if rerr != nil {
			return Flow{}, rerr
		}
		if signaled(cf) {
			return cf, nil
		}
		b, isBool := cf.Value.(BoolValue)
		if !isBool {
			return Flow{}, newErr(ErrTypeError, "while condition must be bool, found %s", cf.Value.TypeName())
		}
		if !bool(b) {
			return ok(UnitValue{}), nil
		}
		bf, rerr := e.evalExpr(n.Body)
		if rerr != nil {
			return Flow{}, rerr
		}
		switch bf.Signal {
		case SigBreak:
			return ok(UnitValue{}), nil
		case SigReturn:
			return bf, nil
		}
		// SigContinue and SigNone both fall through to the next iteration.
	}
}

// evalFor implements spec.md §4.8's per-source-kind iteration: an array
// iterates a snapshot taken at loop entry (so in-loop mutation of the
// array doesn't affect iteration), a range iterates inclusive-low/
// exclusive-high integers, and a string iterates one-character
// substrings.
func (e *Evaluator) evalFor(n *ast.ForExpr) (Flow, *RuntimeError) {
	itf, rerr := e.evalExpr(n.Iter)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(itf) {
		return itf, nil
	}

	var elements []Value
	switch it := itf.Value.(type) {
	case *ArrayValue:
		elements = append([]Value(nil), it.Elements...)
	case *RangeValue:
		for i := it.Low; i < it.High; i++ {
			elements = append(elements, IntValue(i))
		}
	case StrValue:
		for _, r := range string(it) {
			elements = append(elements, StrValue(string(r)))
		}
	default:
		return Flow{}, newErr(ErrTypeError, "value of type %s is not iterable", itf.Value.TypeName())
	}

	saved := e.environment
	defer func() { e.environment = saved }()

	for _, el := range elements {
		e.environment = NewEnclosedEnvironment(saved)
		e.environment.Define(n.Name, el)
		bf, rerr := e.evalExpr(n.Body)
		if rerr != nil {
			return Flow{}, rerr
		}
		switch bf.Signal {
		case SigBreak:
			return ok(UnitValue{}), nil
		case SigReturn:
			return bf, nil
		}
	}
	return ok(UnitValue{}), nil
}

func (e *Evaluator) evalReturn(n *ast.ReturnExpr) (Flow, *RuntimeError) {
	if n.Value == nil {
		return ret(UnitValue{}), nil
	}
	vf, rerr := e.evalExpr(n.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(vf) {
		return vf, nil
	}
	return ret(vf.Value), nil
}

func (e *Evaluator) evalArrayLit(n *ast.ArrayLit) (Flow, *RuntimeError) {
	elems := make([]Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		f, rerr := e.evalExpr(el)
		if rerr != nil {
			return Flow{}, rerr
		}
		if signaled(f) {
			return f, nil
		}
		elems = append(elems, f.Value)
	}
	return ok(&ArrayValue{Elements: elems}), nil
}

func (e *Evaluator) evalTupleLit(n *ast.TupleLit) (Flow, *RuntimeError) {
	elems := make([]Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		f, rerr := e.evalExpr(el)
		if rerr != nil {
			return Flow{}, rerr
		}
		if signaled(f) {
			return f, nil
		}
		elems = append(elems, f.Value)
	}
	return ok(&TupleValue{Elements: elems}), nil
}

func (e *Evaluator) evalVarDef(n *ast.VarDef) (Flow, *RuntimeError) {
	v := Value(UnitValue{})
	if n.Init != nil {
		f, rerr := e.evalExpr(n.Init)
		if rerr != nil {
			return Flow{}, rerr
		}
		if signaled(f) {
			return f, nil
		}
		v = f.Value
	}
	e.environment.Define(n.Name, v)
	return ok(UnitValue{}), nil
}
