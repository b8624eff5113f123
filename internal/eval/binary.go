package eval

import (
	"strings"

	"github.com/softfault/loom/internal/ast"
)

// evalBinary implements spec.md §4.6.3's binary operator semantics at
// runtime. `and`/`or` short-circuit: the right operand is only evaluated
// when its value could change the result, mirroring how every mainstream
// language with these keywords behaves even though the static checker
// only verifies both operands are bool.
func (e *Evaluator) evalBinary(n *ast.BinaryExpr) (Flow, *RuntimeError) {
	lf, rerr := e.evalExpr(n.Left)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(lf) {
		return lf, nil
	}

	switch n.Op {
	case "and":
		if !truthy(lf.Value) {
			return ok(BoolValue(false)), nil
		}
		rf, rerr := e.evalExpr(n.Right)
		if rerr != nil {
			return Flow{}, rerr
		}
		return rf, nil
	case "or":
		if truthy(lf.Value) {
			return ok(BoolValue(true)), nil
		}
		rf, rerr := e.evalExpr(n.Right)
		if rerr != nil {
			return Flow{}, rerr
		}
		return rf, nil
	}

	rf, rerr := e.evalExpr(n.Right)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(rf) {
		return rf, nil
	}

	v, rerr := binaryOp(n.Op, lf.Value, rf.Value)
	if rerr != nil {
		return Flow{}, rerr
	}
	return ok(v), nil
}

// binaryOp is shared between ordinary binary expressions and compound
// assignment's desugared binary op (assign.go), mirroring how the
// analyzer's binaryOpType serves both check.go call sites.
func binaryOp(op string, l, r Value) (Value, *RuntimeError) {
	switch op {
	case "+":
		if _, isStr := l.(StrValue); isStr {
			return StrValue(l.Inspect() + r.Inspect()), nil
		}
		if _, isStr := r.(StrValue); isStr {
			return StrValue(l.Inspect() + r.Inspect()), nil
		}
		switch lv := l.(type) {
		case IntValue:
			rv, ok := r.(IntValue)
			if !ok {
				break
			}
			return lv + rv, nil
		case FloatValue:
			rv, ok := r.(FloatValue)
			if !ok {
				break
			}
			return lv + rv, nil
		}
		return nil, newErr(ErrTypeError, "invalid operands to '+': %s and %s", l.TypeName(), r.TypeName())

	case "-", "*", "/", "%":
		switch lv := l.(type) {
		case IntValue:
			rv, ok := r.(IntValue)
			if !ok {
				break
			}
			return intArith(op, lv, rv)
		case FloatValue:
			rv, ok := r.(FloatValue)
			if !ok {
				break
			}
			return floatArith(op, lv, rv)
		}
		return nil, newErr(ErrTypeError, "invalid operands to '%s': %s and %s", op, l.TypeName(), r.TypeName())

	case "==":
		return BoolValue(valueEqual(l, r)), nil
	case "!=":
		return BoolValue(!valueEqual(l, r)), nil

	case "<", "<=", ">", ">=":
		switch lv := l.(type) {
		case IntValue:
			rv, ok := r.(IntValue)
			if !ok {
				break
			}
			return BoolValue(intCompare(op, lv, rv)), nil
		case FloatValue:
			rv, ok := r.(FloatValue)
			if !ok {
				break
			}
			return BoolValue(floatCompare(op, lv, rv)), nil
		}
		return nil, newErr(ErrTypeError, "invalid operands to '%s': %s and %s", op, l.TypeName(), r.TypeName())

	case "and", "or":
		lb, lok := l.(BoolValue)
		rb, rok := r.(BoolValue)
		if !lok || !rok {
			return nil, newErr(ErrTypeError, "'%s' requires bool operands", op)
		}
		if op == "and" {
			return BoolValue(bool(lb) && bool(rb)), nil
		}
		return BoolValue(bool(lb) || bool(rb)), nil
	}
	return nil, newErr(ErrInternal, "unhandled binary operator %q", op)
}

func intArith(op string, l, r IntValue) (Value, *RuntimeError) {
	switch op {
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, newErr(ErrDivisionByZero, "integer division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, newErr(ErrDivisionByZero, "integer modulo by zero")
		}
		return l % r, nil
	}
	return nil, newErr(ErrInternal, "unhandled int operator %q", op)
}

func floatArith(op string, l, r FloatValue) (Value, *RuntimeError) {
	switch op {
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, newErr(ErrDivisionByZero, "float division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, newErr(ErrDivisionByZero, "float modulo by zero")
		}
		return FloatValue(float64mod(float64(l), float64(r))), nil
	}
	return nil, newErr(ErrInternal, "unhandled float operator %q", op)
}

func float64mod(a, b float64) float64 {
	// avoids importing math solely for Mod in this one spot; a % b via
	// truncated division matches Go's own operator semantics for floats.
	q := a / b
	trunc := float64(int64(q))
	return a - trunc*b
}

func intCompare(op string, l, r IntValue) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func floatCompare(op string, l, r FloatValue) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

// valueEqual implements structural equality for value kinds and referential
// equality for heap-allocated ones (spec.md §5's shared-mutable-state
// model: two array handles are equal iff they're the same array).
func valueEqual(l, r Value) bool {
	switch lv := l.(type) {
	case IntValue:
		rv, ok := r.(IntValue)
		return ok && lv == rv
	case FloatValue:
		rv, ok := r.(FloatValue)
		return ok && lv == rv
	case BoolValue:
		rv, ok := r.(BoolValue)
		return ok && lv == rv
	case CharValue:
		rv, ok := r.(CharValue)
		return ok && lv == rv
	case StrValue:
		rv, ok := r.(StrValue)
		return ok && lv == rv
	case NilValue:
		_, ok := r.(NilValue)
		return ok
	case UnitValue:
		_, ok := r.(UnitValue)
		return ok
	case *ArrayValue:
		rv, ok := r.(*ArrayValue)
		return ok && lv == rv
	case *TupleValue:
		rv, ok := r.(*TupleValue)
		return ok && lv == rv
	case *RangeValue:
		rv, ok := r.(*RangeValue)
		return ok && lv == rv
	case *Instance:
		rv, ok := r.(*Instance)
		return ok && lv == rv
	default:
		return false
	}
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr) (Flow, *RuntimeError) {
	rf, rerr := e.evalExpr(n.Right)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(rf) {
		return rf, nil
	}
	switch n.Op {
	case "-":
		switch v := rf.Value.(type) {
		case IntValue:
			return ok(-v), nil
		case FloatValue:
			return ok(-v), nil
		}
	case "!":
		if b, isBool := rf.Value.(BoolValue); isBool {
			return ok(BoolValue(!b)), nil
		}
	}
	return Flow{}, newErr(ErrTypeError, "invalid operand to '%s': %s", n.Op, rf.Value.TypeName())
}

func (e *Evaluator) evalRange(n *ast.RangeExpr) (Flow, *RuntimeError) {
	lf, rerr := e.evalExpr(n.Low)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(lf) {
		return lf, nil
	}
	hf, rerr := e.evalExpr(n.High)
	if rerr != nil {
		return Flow{}, rerr
	}
	if signaled(hf) {
		return hf, nil
	}
	lo, lok := lf.Value.(IntValue)
	hi, hok := hf.Value.(IntValue)
	if !lok || !hok {
		return Flow{}, newErr(ErrTypeError, "range bounds must be int")
	}
	return ok(&RangeValue{Low: int64(lo), High: int64(hi)}), nil
}

// compoundBinaryOp is assign.go's use of binaryOp for `lhs OP= rhs`, the
// runtime counterpart of the analyzer's compoundResultType.
func compoundBinaryOp(op string, l, r Value) (Value, *RuntimeError) {
	return binaryOp(strings.TrimSuffix(op, "="), l, r)
}
