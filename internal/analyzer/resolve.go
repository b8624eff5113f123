package analyzer

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// resolveProgram implements spec.md §4.6.2 over every class declared in
// this file. Cross-module parents need no recursive walk here: by the
// time a module is cached (ensureModule), its own resolve pass has
// already completed.
func (a *Analyzer) resolveProgram(prog *ast.Program) {
	resolved := make(map[types.TableId]bool)
	visiting := make(map[types.TableId]bool)
	for _, item := range prog.Items {
		if t, ok := item.(*ast.TableDecl); ok {
			a.resolveHierarchy(types.TableId{File: a.File, Name: t.Name}, resolved, visiting)
		}
	}
}

// resolveHierarchy flattens id's parent chain into its TableInfo in place:
// inherited fields/methods not already declared on id are copied in with
// generic substitution applied, after first checking id's own members
// against the parent's for valid override variance.
func (a *Analyzer) resolveHierarchy(id types.TableId, resolved, visiting map[types.TableId]bool) {
	if resolved[id] {
		return
	}
	info := a.tableInfo(id)
	if info == nil {
		return
	}
	if visiting[id] {
		a.errorAt(diagnostics.ErrA010CyclicInheritance, info.DefinedSpan,
			"cyclic inheritance involving class "+a.Ctx.Interner.Resolve(id.Name))
		return
	}
	visiting[id] = true
	defer func() {
		delete(visiting, id)
		resolved[id] = true
	}()

	if info.Parent == nil {
		return
	}
	parentTy := *info.Parent
	if parentTy.Kind != types.KTable && parentTy.Kind != types.KGenericInstance {
		a.errorAt(diagnostics.ErrA011InvalidParentType, info.DefinedSpan, "parent is not a class type")
		return
	}
	parentId := parentTy.Table

	if parentId.File == a.File {
		a.resolveHierarchy(parentId, resolved, visiting)
	}

	parentInfo := a.tableInfo(parentId)
	if parentInfo == nil {
		a.errorAt(diagnostics.ErrA011InvalidParentType, info.DefinedSpan, "unknown parent class")
		return
	}

	subst := make(types.Subst)
	if len(parentInfo.GenericParams) != len(parentTy.Args) {
		a.errorAt(diagnostics.ErrA012GenericArgCountMismatch, info.DefinedSpan, "parent generic argument count mismatch")
	} else {
		for i, g := range parentInfo.GenericParams {
			subst[g] = parentTy.Args[i]
		}
	}

	a.checkOverrides(info, parentInfo, subst)

	for name, pf := range parentInfo.Fields {
		if _, exists := info.Fields[name]; exists {
			continue
		}
		info.Fields[name] = symbols.FieldInfo{
			Type: types.Substitute(pf.Type, subst),
			Span: pf.Span,
			Init: pf.Init,
			File: pf.File,
		}
	}
	for name, pm := range parentInfo.Methods {
		if _, exists := info.Methods[name]; exists {
			continue
		}
		info.Methods[name] = symbols.MethodInfo{
			GenericParams: pm.GenericParams,
			Signature:     types.Substitute(pm.Signature, subst),
			Span:          pm.Span,
			Abstract:      pm.Abstract,
			Decl:          pm.Decl,
			File:          pm.File,
		}
	}
}

// checkOverrides implements spec.md §4.6.3's override constraint check,
// run against child's own (not-yet-merged) fields/methods so inherited
// members never get compared against themselves.
func (a *Analyzer) checkOverrides(child, parent *symbols.TableInfo, subst types.Subst) {
	for name, pf := range parent.Fields {
		cf, exists := child.Fields[name]
		if !exists {
			continue
		}
		want := types.Substitute(pf.Type, subst)
		if !types.Assignable(want, cf.Type, a.Ctx) {
			a.errorAt(diagnostics.ErrA013FieldTypeMismatch, cf.Span,
				"field override type is not covariant with parent field "+a.Ctx.Interner.Resolve(name))
		}
	}

	for name, pm := range parent.Methods {
		cm, exists := child.Methods[name]
		if !exists {
			if pm.Abstract {
				a.errorAt(diagnostics.ErrA014MissingAbstractImpl, child.DefinedSpan,
					"missing implementation of abstract method "+a.Ctx.Interner.Resolve(name))
			}
			continue
		}

		psig := types.Substitute(pm.Signature, subst)
		csig := cm.Signature
		if len(psig.Args) != len(csig.Args) {
			a.errorAt(diagnostics.ErrA015MethodOverrideMismatch, cm.Span,
				"method "+a.Ctx.Interner.Resolve(name)+" overrides parent with a different parameter count")
			continue
		}

		ok := true
		for i := range psig.Args {
			// Contravariant: the child's parameter must accept everything
			// the parent's did, i.e. child :← parent for each position.
			if !types.Assignable(csig.Args[i], psig.Args[i], a.Ctx) {
				ok = false
			}
		}
		// Covariant: the child's return must be usable wherever the
		// parent's was, i.e. parent :← child.
		if !types.Assignable(*psig.FuncRet, *csig.FuncRet, a.Ctx) {
			ok = false
		}
		if !ok {
			a.errorAt(diagnostics.ErrA015MethodOverrideMismatch, cm.Span,
				"method "+a.Ctx.Interner.Resolve(name)+" violates parameter contravariance or return covariance")
		}
	}
}
