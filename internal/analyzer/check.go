package analyzer

import (
	"fmt"
	"strings"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// checkProgram implements spec.md §4.6.3 over every top-level item.
func (a *Analyzer) checkProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.TableDecl:
			a.checkTable(n)
		case *ast.MethodDecl:
			a.checkTopLevelFunction(n)
		case *ast.FieldDecl:
			a.checkGlobalField(n)
		}
	}
}

func ownSelfType(id types.TableId, info *symbols.TableInfo) types.Type {
	if len(info.GenericParams) == 0 {
		return types.Table(id)
	}
	args := make([]types.Type, len(info.GenericParams))
	for i, g := range info.GenericParams {
		args[i] = types.GenericParam(g)
	}
	return types.GenericInstance(id, args)
}

// substForInstance builds the Subst a member access through a
// (possibly-generic) instance type needs before reading a field/method's
// declared type out of TableInfo.
func substForInstance(t types.Type, info *symbols.TableInfo) types.Subst {
	if t.Kind != types.KGenericInstance || len(info.GenericParams) == 0 {
		return nil
	}
	subst := make(types.Subst, len(info.GenericParams))
	for i, g := range info.GenericParams {
		if i < len(t.Args) {
			subst[g] = t.Args[i]
		}
	}
	return subst
}

func (a *Analyzer) checkTable(t *ast.TableDecl) {
	id := types.TableId{File: a.File, Name: t.Name}
	info := a.Module.Tables[id]
	own := ownSelfType(id, info)

	a.withGenerics(info.GenericParams, func() {
		for _, f := range t.Fields {
			if f.Init == nil {
				continue
			}
			it := a.checkExpr(f.Init)
			fi := info.Fields[f.Name]
			if fi.Type.Kind == types.KInfer {
				fi.Type = it
				info.Fields[f.Name] = fi
			} else if !types.Assignable(fi.Type, it, a.Ctx) {
				a.errorAt(diagnostics.ErrA013FieldTypeMismatch, f.Span(), fmt.Sprintf(
					"field initializer type %s is not assignable to declared type %s", it.String(), fi.Type.String()))
			}
		}
	})

	for _, m := range t.Methods {
		mi := info.Methods[m.Name]
		a.checkFunctionBody(m, &own, info.GenericParams, mi.Signature)
	}
}

func (a *Analyzer) checkTopLevelFunction(m *ast.MethodDecl) {
	fi := a.Module.Functions[m.Name]
	a.checkFunctionBody(m, nil, nil, fi.Signature)
}

func (a *Analyzer) checkGlobalField(f *ast.FieldDecl) {
	gv := a.Module.Globals[f.Name]
	if f.Init == nil {
		return
	}
	it := a.checkExpr(f.Init)
	if gv.Type.Kind == types.KInfer {
		gv.Type = it
		a.define(f.Name, it, symbols.KindVariable, f.Span())
	} else if !types.Assignable(gv.Type, it, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, f.Span(), fmt.Sprintf(
			"global initializer type %s is not assignable to declared type %s", it.String(), gv.Type.String()))
	}
}

// checkFunctionBody implements spec.md §4.6.3's "Method bodies" rule for
// both methods (selfType non-nil) and free functions (selfType nil): fresh
// scope, self and parameters bound, body checked, final type verified
// against the declared return (spec.md §9's implicit-Unit / Never carve-outs).
func (a *Analyzer) checkFunctionBody(m *ast.MethodDecl, selfType *types.Type, classGenerics []interner.Symbol, sig types.Type) {
	if m.Body == nil {
		return // abstract: no body to check
	}
	a.scope.Push()
	defer a.scope.Pop()

	savedRet := a.curReturn
	ret := sig.FuncRet
	a.curReturn = ret
	defer func() { a.curReturn = savedRet }()

	all := make([]interner.Symbol, 0, len(classGenerics)+len(m.GenericParams))
	all = append(all, classGenerics...)
	all = append(all, m.GenericParams...)

	a.withGenerics(all, func() {
		if selfType != nil {
			a.define(a.selfSymbol(), *selfType, symbols.KindParameter, m.Span())
		}
		argIdx := 0
		for _, p := range m.Params {
			if selfType != nil && a.isSelfParam(p) {
				continue
			}
			pt := types.Error()
			if argIdx < len(sig.Args) {
				pt = sig.Args[argIdx]
			}
			argIdx++
			a.define(p.Name, pt, symbols.KindParameter, m.Span())
		}

		bt := a.checkExpr(m.Body)
		rt := *sig.FuncRet
		if rt.Kind != types.KUnit && bt.Kind != types.KNever && !types.Assignable(rt, bt, a.Ctx) {
			a.errorAt(diagnostics.ErrA002TypeMismatch, m.Body.Span(), fmt.Sprintf(
				"function body type %s is not assignable to declared return type %s", bt.String(), rt.String()))
		}
	})
}

// checkExpr is the single entry point every pass-internal caller uses to
// type-check one expression; it records the result into the semantic
// database (spec.md §4.6.3's "Semantic database writes") regardless of
// which concrete node kind produced it.
func (a *Analyzer) checkExpr(e ast.Expression) types.Type {
	if e == nil {
		return types.Unit()
	}
	t := a.checkExprInner(e)
	a.Ctx.DB.TypeMap[e.ID()] = t
	return t
}

func (a *Analyzer) checkExprInner(e ast.Expression) types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return types.Int()
	case *ast.FloatLit:
		return types.Float()
	case *ast.BoolLit:
		return types.Bool()
	case *ast.StringLit:
		return types.Str()
	case *ast.CharLit:
		return types.Char()
	case *ast.NilLit:
		return types.Nil()
	case *ast.Identifier:
		return a.checkIdentifier(n)
	case *ast.FieldAccess:
		return a.checkFieldAccess(n)
	case *ast.IndexExpr:
		return a.checkIndex(n)
	case *ast.CallExpr:
		return a.checkCall(n)
	case *ast.BinaryExpr:
		lt := a.checkExpr(n.Left)
		rt := a.checkExpr(n.Right)
		return a.binaryOpType(n.Op, lt, rt, n.Span())
	case *ast.UnaryExpr:
		return a.checkUnary(n)
	case *ast.RangeExpr:
		return a.checkRange(n)
	case *ast.CastExpr:
		return a.checkCast(n)
	case *ast.BlockExpr:
		return a.checkBlock(n)
	case *ast.IfExpr:
		return a.checkIf(n)
	case *ast.WhileExpr:
		return a.checkWhile(n)
	case *ast.ForExpr:
		return a.checkFor(n)
	case *ast.ReturnExpr:
		return a.checkReturn(n)
	case *ast.BreakExpr:
		return a.checkLoopControl(n.Span())
	case *ast.ContinueExpr:
		return a.checkLoopControl(n.Span())
	case *ast.ArrayLit:
		return a.checkArrayLit(n)
	case *ast.TupleLit:
		return a.checkTupleLit(n)
	case *ast.VarDef:
		return a.checkVarDef(n)
	case *ast.AssignExpr:
		return a.checkAssign(n)
	}
	return types.Error()
}

func (a *Analyzer) checkIdentifier(n *ast.Identifier) types.Type {
	info, ok := a.scope.Resolve(n.Name)
	if !ok {
		a.errorAt(diagnostics.ErrA001UndefinedSymbol, n.Span(), "undefined symbol: "+a.Ctx.Interner.Resolve(n.Name))
		return types.Error()
	}
	a.Ctx.DB.DefMap[n.ID()] = source.Location{File: info.DefinedFile, Span: info.DefinedSpan}
	return info.Type
}

func (a *Analyzer) checkFieldAccess(n *ast.FieldAccess) types.Type {
	tt := a.checkExpr(n.Target)
	memberName := a.Ctx.Interner.Resolve(n.Name)

	switch tt.Kind {
	case types.KArray:
		switch memberName {
		case "len":
			return types.Function(nil, nil, types.Int())
		case "push":
			return types.Function(nil, []types.Type{*tt.Elem}, types.Unit())
		}
	case types.KStr:
		if memberName == "len" {
			return types.Function(nil, nil, types.Int())
		}
	case types.KModule:
		return a.checkModuleMember(n, tt)
	case types.KTable, types.KGenericInstance:
		info := a.tableInfoForType(tt)
		if info == nil {
			break
		}
		subst := substForInstance(tt, info)
		if fld, ok := info.Fields[n.Name]; ok {
			a.Ctx.DB.DefMap[n.ID()] = source.Location{File: info.File, Span: fld.Span}
			return types.Substitute(fld.Type, subst)
		}
		if meth, ok := info.Methods[n.Name]; ok {
			a.Ctx.DB.DefMap[n.ID()] = source.Location{File: info.File, Span: meth.Span}
			return types.Substitute(meth.Signature, subst)
		}
	case types.KError:
		return types.Error()
	}

	a.errorAt(diagnostics.ErrA001UndefinedSymbol, n.Span(), "no such member: "+memberName)
	return types.Error()
}

func (a *Analyzer) checkModuleMember(n *ast.FieldAccess, modTy types.Type) types.Type {
	mod, ok := a.Ctx.ModuleByFile(modTy.ModuleFile)
	if !ok {
		a.errorAt(diagnostics.ErrA005ModuleNotFound, n.Span(), "module not loaded")
		return types.Error()
	}
	id := types.TableId{File: mod.FileId, Name: n.Name}
	if _, ok := mod.Tables[id]; ok {
		return types.Table(id)
	}
	if fn, ok := mod.Functions[n.Name]; ok {
		a.Ctx.DB.DefMap[n.ID()] = source.Location{File: fn.File, Span: fn.Span}
		return fn.Signature
	}
	if gv, ok := mod.Globals[n.Name]; ok {
		a.Ctx.DB.DefMap[n.ID()] = source.Location{File: gv.File, Span: gv.Span}
		return gv.Type
	}
	a.errorAt(diagnostics.ErrA001UndefinedSymbol, n.Span(), "no such export: "+a.Ctx.Interner.Resolve(n.Name))
	return types.Error()
}

func (a *Analyzer) checkIndex(n *ast.IndexExpr) types.Type {
	tt := a.checkExpr(n.Target)
	it := a.checkExpr(n.Index)

	switch tt.Kind {
	case types.KArray:
		if it.Kind != types.KInt && !it.IsError() {
			a.errorAt(diagnostics.ErrA021InvalidIndexType, n.Index.Span(), "array index must be int")
		}
		return *tt.Elem
	case types.KStr:
		if it.Kind != types.KInt && !it.IsError() {
			a.errorAt(diagnostics.ErrA021InvalidIndexType, n.Index.Span(), "string index must be int")
		}
		return types.Str()
	case types.KError:
		return types.Error()
	default:
		a.errorAt(diagnostics.ErrA022TypeNotIndexable, n.Target.Span(), "type is not indexable")
		return types.Error()
	}
}

func (a *Analyzer) checkCall(n *ast.CallExpr) types.Type {
	calleeType := a.checkExpr(n.Callee)

	switch calleeType.Kind {
	case types.KTable, types.KGenericInstance:
		return a.checkConstructorCall(n, calleeType)
	case types.KFunction:
		return a.checkFunctionCall(n, calleeType)
	default:
		for _, arg := range n.Args {
			a.checkExpr(arg)
		}
		if !calleeType.IsError() {
			a.errorAt(diagnostics.ErrA027NotCallable, n.Callee.Span(), "value is not callable")
		}
		return types.Error()
	}
}

func (a *Analyzer) checkConstructorCall(n *ast.CallExpr, calleeType types.Type) types.Type {
	id := calleeType.Table
	info := a.tableInfo(id)
	if info == nil {
		for _, arg := range n.Args {
			a.checkExpr(arg)
		}
		return types.Error()
	}

	var instanceType types.Type
	var subst types.Subst
	if len(info.GenericParams) == 0 {
		instanceType = types.Table(id)
	} else {
		if len(n.GenericArgs) != len(info.GenericParams) {
			a.errorAt(diagnostics.ErrA012GenericArgCountMismatch, n.Span(), "generic argument count mismatch in constructor call")
			for _, arg := range n.Args {
				a.checkExpr(arg)
			}
			return types.Error()
		}
		args := make([]types.Type, len(n.GenericArgs))
		subst = make(types.Subst, len(n.GenericArgs))
		for i, ga := range n.GenericArgs {
			args[i] = a.resolveAstType(ga)
			subst[info.GenericParams[i]] = args[i]
		}
		instanceType = types.GenericInstance(id, args)
	}

	var paramTypes []types.Type
	if m, ok := info.Methods[a.Ctx.Interner.Intern("init")]; ok {
		paramTypes = types.Substitute(m.Signature, subst).Args
	}
	a.checkArgs(n, paramTypes)
	return instanceType
}

func (a *Analyzer) checkFunctionCall(n *ast.CallExpr, calleeType types.Type) types.Type {
	sig := calleeType
	if len(n.GenericArgs) > 0 {
		if len(n.GenericArgs) != len(sig.FuncGenericParams) {
			a.errorAt(diagnostics.ErrA012GenericArgCountMismatch, n.Span(), "generic argument count mismatch in call")
		} else {
			subst := make(types.Subst, len(n.GenericArgs))
			for i, g := range sig.FuncGenericParams {
				subst[g] = a.resolveAstType(n.GenericArgs[i])
			}
			sig = types.Substitute(sig, subst)
		}
	}
	a.checkArgs(n, sig.Args)
	return *sig.FuncRet
}

func (a *Analyzer) checkArgs(n *ast.CallExpr, paramTypes []types.Type) {
	if len(n.Args) != len(paramTypes) {
		a.errorAt(diagnostics.ErrA003ArgumentCountMismatch, n.Span(), fmt.Sprintf(
			"expected %d argument(s), found %d", len(paramTypes), len(n.Args)))
	}
	for i, arg := range n.Args {
		at := a.checkExpr(arg)
		if i >= len(paramTypes) {
			continue
		}
		if !types.Assignable(paramTypes[i], at, a.Ctx) {
			a.errorAt(diagnostics.ErrA002TypeMismatch, arg.Span(), fmt.Sprintf(
				"argument type %s is not assignable to parameter type %s", at.String(), paramTypes[i].String()))
		}
	}
}

// binaryOpType is shared between ordinary binary expressions and compound
// assignment's implicit desugared binary op (spec.md §4.6.3's rules).
func (a *Analyzer) binaryOpType(op string, lt, rt types.Type, sp source.Span) types.Type {
	if lt.IsError() || rt.IsError() {
		return types.Error()
	}
	switch op {
	case "+":
		if lt.Kind == types.KStr || rt.Kind == types.KStr {
			return types.Str()
		}
		if isNumeric(lt) && isNumeric(rt) && lt.Kind == rt.Kind {
			return lt
		}
		a.errorAt(diagnostics.ErrA019InvalidBinaryOperand, sp, "invalid operands to '+'")
		return types.Error()
	case "-", "*", "/", "%":
		if isNumeric(lt) && isNumeric(rt) && lt.Kind == rt.Kind {
			return lt
		}
		a.errorAt(diagnostics.ErrA019InvalidBinaryOperand, sp, "invalid operands to '"+op+"'")
		return types.Error()
	case "==", "!=":
		return types.Bool()
	case "<", "<=", ">", ">=":
		if isNumeric(lt) && isNumeric(rt) && lt.Kind == rt.Kind {
			return types.Bool()
		}
		a.errorAt(diagnostics.ErrA019InvalidBinaryOperand, sp, "invalid operands to '"+op+"'")
		return types.Error()
	case "and", "or":
		if lt.Kind == types.KBool && rt.Kind == types.KBool {
			return types.Bool()
		}
		a.errorAt(diagnostics.ErrA019InvalidBinaryOperand, sp, "'"+op+"' requires bool operands")
		return types.Error()
	}
	return types.Error()
}

func (a *Analyzer) checkUnary(n *ast.UnaryExpr) types.Type {
	rt := a.checkExpr(n.Right)
	if rt.IsError() {
		return types.Error()
	}
	switch n.Op {
	case "-":
		if isNumeric(rt) {
			return rt
		}
	case "!":
		if rt.Kind == types.KBool {
			return types.Bool()
		}
	}
	a.errorAt(diagnostics.ErrA018InvalidUnaryOperand, n.Span(), "invalid operand to '"+n.Op+"'")
	return types.Error()
}

func (a *Analyzer) checkRange(n *ast.RangeExpr) types.Type {
	lt := a.checkExpr(n.Low)
	ht := a.checkExpr(n.High)
	if lt.IsError() || ht.IsError() {
		return types.Error()
	}
	if lt.Kind != types.KInt || ht.Kind != types.KInt {
		a.errorAt(diagnostics.ErrA019InvalidBinaryOperand, n.Span(), "range bounds must be int")
		return types.Error()
	}
	return types.Range(types.Int())
}

func (a *Analyzer) checkCast(n *ast.CastExpr) types.Type {
	vt := a.checkExpr(n.Value)
	target := a.resolveAstType(n.Type)
	if vt.IsError() || target.IsError() {
		return types.Error()
	}
	if a.castAllowed(target, vt) {
		return target
	}
	a.errorAt(diagnostics.ErrA030InvalidCast, n.Span(), fmt.Sprintf("cannot cast %s to %s", vt.String(), target.String()))
	return types.Error()
}

// castAllowed implements spec.md §4.6.3's cast rule: identical types,
// Int<->Float, either-direction subclass relation, pointwise-castable
// generic instances of the same base, and pointwise-castable array
// elements.
func (a *Analyzer) castAllowed(target, source types.Type) bool {
	if target.Kind == source.Kind && target.Kind != types.KGenericInstance {
		if target.Kind == types.KArray {
			return a.castAllowed(*target.Elem, *source.Elem)
		}
		return true
	}
	if (target.Kind == types.KInt && source.Kind == types.KFloat) || (target.Kind == types.KFloat && source.Kind == types.KInt) {
		return true
	}
	tableLike := func(t types.Type) bool { return t.Kind == types.KTable || t.Kind == types.KGenericInstance }
	if tableLike(target) && tableLike(source) {
		if target.Kind == types.KGenericInstance && source.Kind == types.KGenericInstance {
			if target.Table != source.Table || len(target.Args) != len(source.Args) {
				return false
			}
			for i := range target.Args {
				if !a.castAllowed(target.Args[i], source.Args[i]) {
					return false
				}
			}
			return true
		}
		return a.Ctx.IsSubclass(source.Table, target.Table) || a.Ctx.IsSubclass(target.Table, source.Table)
	}
	return false
}

func (a *Analyzer) checkBlock(b *ast.BlockExpr) types.Type {
	a.scope.Push()
	defer a.scope.Pop()

	result := types.Unit()
	for _, stmt := range b.Statements {
		result = a.checkStatement(stmt)
	}
	return result
}

func (a *Analyzer) checkStatement(s ast.Statement) types.Type {
	if es, ok := s.(*ast.ExprStatement); ok {
		return a.checkExpr(es.X)
	}
	if e, ok := s.(ast.Expression); ok {
		return a.checkExpr(e)
	}
	return types.Unit()
}

func (a *Analyzer) checkIf(n *ast.IfExpr) types.Type {
	ct := a.checkExpr(n.Cond)
	if ct.Kind != types.KBool && !ct.IsError() {
		a.errorAt(diagnostics.ErrA026ConditionNotBool, n.Cond.Span(), "if condition must be bool")
	}

	tt := a.checkExpr(n.Then)
	if n.Else != nil {
		et := a.checkExpr(n.Else)
		if types.Assignable(tt, et, a.Ctx) {
			return tt
		}
		if types.Assignable(et, tt, a.Ctx) {
			return et
		}
		a.errorAt(diagnostics.ErrA024IfBranchIncompatible, n.Span(), fmt.Sprintf(
			"if branches have incompatible types %s and %s", tt.String(), et.String()))
		return types.Error()
	}

	if tt.Kind != types.KUnit && tt.Kind != types.KNever {
		a.errorAt(diagnostics.ErrA025IfMissingElseNonUnit, n.Span(), "if without else must have a unit-typed then-branch")
	}
	return types.Unit()
}

func (a *Analyzer) checkWhile(n *ast.WhileExpr) types.Type {
	ct := a.checkExpr(n.Cond)
	if ct.Kind != types.KBool && !ct.IsError() {
		a.errorAt(diagnostics.ErrA026ConditionNotBool, n.Cond.Span(), "while condition must be bool")
	}
	a.loopDepth++
	a.checkExpr(n.Body)
	a.loopDepth--
	return types.Unit()
}

func (a *Analyzer) checkFor(n *ast.ForExpr) types.Type {
	it := a.checkExpr(n.Iter)
	var elem types.Type
	switch it.Kind {
	case types.KArray:
		elem = *it.Elem
	case types.KRange:
		elem = *it.Elem
	case types.KStr:
		elem = types.Str()
	case types.KError:
		elem = types.Error()
	default:
		a.errorAt(diagnostics.ErrA023TypeNotIterable, n.Iter.Span(), "value is not iterable")
		elem = types.Error()
	}

	a.scope.Push()
	a.define(n.Name, elem, symbols.KindVariable, n.Span())
	a.loopDepth++
	a.checkExpr(n.Body)
	a.loopDepth--
	a.scope.Pop()
	return types.Unit()
}

func (a *Analyzer) checkReturn(n *ast.ReturnExpr) types.Type {
	if a.curReturn == nil {
		a.errorAt(diagnostics.ErrA028ReturnOutsideFunction, n.Span(), "return outside function")
		if n.Value != nil {
			a.checkExpr(n.Value)
		}
		return types.Never()
	}
	vt := types.Unit()
	if n.Value != nil {
		vt = a.checkExpr(n.Value)
	}
	if !types.Assignable(*a.curReturn, vt, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, n.Span(), fmt.Sprintf(
			"return type %s is not assignable to declared return type %s", vt.String(), a.curReturn.String()))
	}
	return types.Never()
}

func (a *Analyzer) checkLoopControl(sp source.Span) types.Type {
	if a.loopDepth == 0 {
		a.errorAt(diagnostics.ErrA031LoopControlOutsideLoop, sp, "break/continue outside loop")
	}
	return types.Never()
}

func (a *Analyzer) checkArrayLit(n *ast.ArrayLit) types.Type {
	if len(n.Elements) == 0 {
		return types.Array(types.Infer())
	}
	seed := a.checkExpr(n.Elements[0])
	for _, el := range n.Elements[1:] {
		et := a.checkExpr(el)
		if !types.Assignable(seed, et, a.Ctx) {
			a.errorAt(diagnostics.ErrA017ArrayElementTypeMismatch, el.Span(), fmt.Sprintf(
				"array element type %s is not assignable to %s", et.String(), seed.String()))
		}
	}
	return types.Array(seed)
}

func (a *Analyzer) checkTupleLit(n *ast.TupleLit) types.Type {
	elems := make([]types.Type, len(n.Elements))
	for i, el := range n.Elements {
		elems[i] = a.checkExpr(el)
	}
	return types.Tuple(elems)
}

func (a *Analyzer) checkVarDef(n *ast.VarDef) types.Type {
	declared := types.Infer()
	if n.Type != nil {
		declared = a.resolveAstType(n.Type)
	}
	it := types.Unit()
	if n.Init != nil {
		it = a.checkExpr(n.Init)
	}

	final := declared
	if declared.Kind == types.KInfer {
		final = it
	} else if n.Init != nil && !types.Assignable(declared, it, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, n.Span(), fmt.Sprintf(
			"cannot assign %s to variable of declared type %s", it.String(), declared.String()))
	}

	a.define(n.Name, final, symbols.KindVariable, n.Span())
	return types.Unit()
}

func (a *Analyzer) checkAssign(n *ast.AssignExpr) types.Type {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		return a.checkAssignIdentifier(n, target)
	case *ast.FieldAccess:
		return a.checkAssignField(n, target)
	case *ast.IndexExpr:
		return a.checkAssignIndex(n, target)
	default:
		a.errorAt(diagnostics.ErrA020InvalidAssignmentTarget, n.Span(), "invalid assignment target")
		a.checkExpr(n.Value)
		return types.Error()
	}
}

func (a *Analyzer) checkAssignIdentifier(n *ast.AssignExpr, target *ast.Identifier) types.Type {
	vt := a.checkExpr(n.Value)
	info, ok := a.scope.Resolve(target.Name)
	if !ok {
		a.define(target.Name, vt, symbols.KindVariable, n.Span())
		return vt
	}
	a.Ctx.DB.DefMap[target.ID()] = source.Location{File: info.DefinedFile, Span: info.DefinedSpan}

	result := vt
	if n.Op != "=" {
		result = a.compoundResultType(n, info.Type, vt)
	}
	if !types.Assignable(info.Type, result, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, n.Span(), fmt.Sprintf(
			"cannot assign %s to variable of type %s", result.String(), info.Type.String()))
	}
	return result
}

func (a *Analyzer) checkAssignField(n *ast.AssignExpr, target *ast.FieldAccess) types.Type {
	tt := a.checkExpr(target.Target)
	vt := a.checkExpr(n.Value)
	if tt.IsError() {
		return types.Error()
	}
	info := a.tableInfoForType(tt)
	if info == nil {
		a.errorAt(diagnostics.ErrA020InvalidAssignmentTarget, n.Span(), "assignment target is not a field")
		return types.Error()
	}
	fld, ok := info.Fields[target.Name]
	if !ok {
		a.errorAt(diagnostics.ErrA001UndefinedSymbol, n.Span(), "no such field: "+a.Ctx.Interner.Resolve(target.Name))
		return types.Error()
	}
	ft := types.Substitute(fld.Type, substForInstance(tt, info))

	result := vt
	if n.Op != "=" {
		result = a.compoundResultType(n, ft, vt)
	}
	if !types.Assignable(ft, result, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, n.Span(), fmt.Sprintf(
			"cannot assign %s to field of type %s", result.String(), ft.String()))
	}
	return result
}

func (a *Analyzer) checkAssignIndex(n *ast.AssignExpr, target *ast.IndexExpr) types.Type {
	tt := a.checkExpr(target.Target)
	it := a.checkExpr(target.Index)
	vt := a.checkExpr(n.Value)

	if tt.Kind != types.KArray {
		if !tt.IsError() {
			a.errorAt(diagnostics.ErrA022TypeNotIndexable, n.Span(), "assignment target is not an array")
		}
		return types.Error()
	}
	if it.Kind != types.KInt && !it.IsError() {
		a.errorAt(diagnostics.ErrA021InvalidIndexType, n.Span(), "array index must be int")
	}

	elem := *tt.Elem
	result := vt
	if n.Op != "=" {
		result = a.compoundResultType(n, elem, vt)
	}
	if !types.Assignable(elem, result, a.Ctx) {
		a.errorAt(diagnostics.ErrA002TypeMismatch, n.Span(), fmt.Sprintf(
			"cannot assign %s to array element of type %s", result.String(), elem.String()))
	}
	return result
}

// compoundResultType desugars `lhs OP= rhs` to the binary op's result type
// (spec.md §4.6.3's "compound assignments desugar to the binary op").
func (a *Analyzer) compoundResultType(n *ast.AssignExpr, leftTy, rightTy types.Type) types.Type {
	op := strings.TrimSuffix(n.Op, "=")
	return a.binaryOpType(op, leftTy, rightTy, n.Span())
}
