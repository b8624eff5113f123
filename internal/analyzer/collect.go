package analyzer

import (
	"fmt"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// collectProgram implements spec.md §4.6.1. Built-ins are already in scope
// (registerBuiltins ran in newAnalyzer); this walks every top-level item
// twice — first reserving every class's Table symbol so forward references
// within one file resolve, then resolving full signatures in file order.
func (a *Analyzer) collectProgram(prog *ast.Program) {
	for _, item := range prog.Items {
		if t, ok := item.(*ast.TableDecl); ok {
			id := types.TableId{File: a.File, Name: t.Name}
			info := symbols.NewTableInfo()
			info.Name = t.Name
			info.File = a.File
			info.DefinedSpan = t.Span()
			info.Decl = t
			a.Module.Tables[id] = info
			a.define(t.Name, types.Table(id), symbols.KindTable, t.Span())
		}
	}

	for _, item := range prog.Items {
		switch n := item.(type) {
		case *ast.TableDecl:
			a.collectTable(n)
		case *ast.MethodDecl:
			a.collectFunction(n)
		case *ast.FieldDecl:
			a.collectGlobal(n)
		case *ast.UseDecl:
			a.collectUse(n)
		}
	}
}

func (a *Analyzer) collectUse(u *ast.UseDecl) {
	path, ok := a.resolveModulePath(u)
	if !ok {
		a.errorAt(diagnostics.ErrA005ModuleNotFound, u.Span(), "module not found for this use path")
		return
	}

	mod, err := ensureModule(a.Ctx, path)
	if err != nil {
		a.errorAt(diagnostics.ErrA007CircularDependency, u.Span(), fmt.Sprintf("circular dependency: %v", err))
		return
	}

	var alias interner.Symbol
	if u.HasAlias {
		alias = u.Alias
	} else {
		alias = u.Segments[len(u.Segments)-1]
	}

	a.Module.Imports[alias] = mod.FileId
	a.define(alias, types.Module(mod.FileId), symbols.KindVariable, u.Span())
}

func (a *Analyzer) collectTable(t *ast.TableDecl) {
	id := types.TableId{File: a.File, Name: t.Name}
	info := a.Module.Tables[id]

	seen := make(map[interner.Symbol]bool)
	for _, g := range t.GenericParams {
		if seen[g] {
			a.errorAt(diagnostics.ErrA029GenericShadowing, t.Span(), "duplicate generic parameter name")
			continue
		}
		seen[g] = true
	}
	info.GenericParams = t.GenericParams

	a.withGenerics(t.GenericParams, func() {
		if t.Parent != nil {
			parentTy := a.resolveAstType(t.Parent)
			info.Parent = &parentTy
		}

		for _, f := range t.Fields {
			ft := types.Infer()
			if f.Type != nil {
				ft = a.resolveAstType(f.Type)
			}
			info.Fields[f.Name] = symbols.FieldInfo{Type: ft, Span: f.Span(), Init: f.Init, File: a.File}
		}

		for _, m := range t.Methods {
			sig := a.resolveMethodSignature(m, t.GenericParams, true)
			info.Methods[m.Name] = symbols.MethodInfo{
				GenericParams: m.GenericParams,
				Signature:     sig,
				Span:          m.Span(),
				Abstract:      m.Body == nil,
				Decl:          m,
				File:          a.File,
			}
		}
	})
}

func (a *Analyzer) collectFunction(m *ast.MethodDecl) {
	sig := a.resolveMethodSignature(m, nil, false)
	a.Module.Functions[m.Name] = &symbols.FunctionInfo{
		Name:          m.Name,
		File:          a.File,
		GenericParams: m.GenericParams,
		Signature:     sig,
		Span:          m.Span(),
		Decl:          m,
	}
	a.define(m.Name, sig, symbols.KindFunction, m.Span())
}

func (a *Analyzer) collectGlobal(f *ast.FieldDecl) {
	ty := types.Infer()
	if f.Type != nil {
		ty = a.resolveAstType(f.Type)
	}
	a.Module.Globals[f.Name] = &symbols.GlobalVarInfo{Name: f.Name, File: a.File, Type: ty, Span: f.Span(), Decl: f}
	a.define(f.Name, ty, symbols.KindVariable, f.Span())
}

// resolveMethodSignature resolves a method/function's parameter and return
// types into a types.Function, under the union of classGenerics and the
// method's own generics. When skipSelf is true the leading `self` parameter
// (present in every method's AST, absent from every caller's argument list)
// is excluded from the resulting signature's Args.
func (a *Analyzer) resolveMethodSignature(m *ast.MethodDecl, classGenerics []interner.Symbol, skipSelf bool) types.Type {
	all := append(append([]interner.Symbol{}, classGenerics...), m.GenericParams...)

	var sig types.Type
	a.withGenerics(all, func() {
		params := make([]types.Type, 0, len(m.Params))
		for _, p := range m.Params {
			if skipSelf && a.isSelfParam(p) {
				continue
			}
			if p.Type == nil {
				params = append(params, types.Infer())
				continue
			}
			params = append(params, a.resolveAstType(p.Type))
		}
		ret := types.Unit()
		if m.ReturnType != nil {
			ret = a.resolveAstType(m.ReturnType)
		}
		sig = types.Function(m.GenericParams, params, ret)
	})
	return sig
}

// resolveAstType implements spec.md §4.6.1's resolve_ast_type: local
// generic scope first, then built-in primitive names, then the enclosing
// scope's Table bindings, recursing into generic-instance arguments and
// module-qualified members.
func (a *Analyzer) resolveAstType(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Infer()
	}

	switch {
	case te.Array != nil:
		return types.Array(a.resolveAstType(te.Array))

	case te.Tuple != nil:
		elems := make([]types.Type, len(te.Tuple))
		for i, el := range te.Tuple {
			elems[i] = a.resolveAstType(el)
		}
		return types.Tuple(elems)

	case te.FuncParams != nil || te.FuncRet != nil:
		params := make([]types.Type, len(te.FuncParams))
		for i, p := range te.FuncParams {
			params[i] = a.resolveAstType(p)
		}
		ret := types.Unit()
		if te.FuncRet != nil {
			ret = a.resolveAstType(te.FuncRet)
		}
		return types.Function(nil, params, ret)

	case te.Module != 0:
		return a.resolveModuleMemberType(te)

	default:
		if a.generics[te.Name] {
			return types.GenericParam(te.Name)
		}
		if prim, ok := primitiveType(a.Ctx.Interner.Resolve(te.Name)); ok {
			return prim
		}
		info, ok := a.scope.Resolve(te.Name)
		if !ok || info.Kind != symbols.KindTable {
			a.errorAt(diagnostics.ErrA001UndefinedSymbol, te.Span(), "undefined type: "+a.Ctx.Interner.Resolve(te.Name))
			return types.Error()
		}
		if len(te.Args) == 0 {
			return info.Type
		}
		args := make([]types.Type, len(te.Args))
		for i, a2 := range te.Args {
			args[i] = a.resolveAstType(a2)
		}
		return types.GenericInstance(info.Type.Table, args)
	}
}

func (a *Analyzer) resolveModuleMemberType(te *ast.TypeExpr) types.Type {
	info, ok := a.scope.Resolve(te.Module)
	if !ok || info.Type.Kind != types.KModule {
		a.errorAt(diagnostics.ErrA001UndefinedSymbol, te.Span(), "undefined module: "+a.Ctx.Interner.Resolve(te.Module))
		return types.Error()
	}
	mod, ok := a.Ctx.ModuleByFile(info.Type.ModuleFile)
	if !ok {
		a.errorAt(diagnostics.ErrA005ModuleNotFound, te.Span(), "module not loaded")
		return types.Error()
	}
	id := types.TableId{File: mod.FileId, Name: te.Name}
	if _, ok := mod.Tables[id]; !ok {
		a.errorAt(diagnostics.ErrA001UndefinedSymbol, te.Span(), "no such member in module: "+a.Ctx.Interner.Resolve(te.Name))
		return types.Error()
	}
	if len(te.Args) == 0 {
		return types.Table(id)
	}
	args := make([]types.Type, len(te.Args))
	for i, a2 := range te.Args {
		args[i] = a.resolveAstType(a2)
	}
	return types.GenericInstance(id, args)
}

func primitiveType(name string) (types.Type, bool) {
	switch name {
	case "int":
		return types.Int(), true
	case "float":
		return types.Float(), true
	case "bool":
		return types.Bool(), true
	case "str":
		return types.Str(), true
	case "char":
		return types.Char(), true
	case "nil":
		return types.Nil(), true
	case "unit":
		return types.Unit(), true
	case "any":
		return types.Any(), true
	case "never":
		return types.Never(), true
	}
	return types.Type{}, false
}
