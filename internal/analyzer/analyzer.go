// Package analyzer implements spec.md §4.6's three-pass semantic analysis:
// collect, resolve (inheritance flattening), check (full expression
// type-checking). Grounded on funvibe-funxy/internal/analyzer/analyzer.go's
// Analyzer+walker split — the per-file scope stack, the open set of
// generic-parameter names currently in view, and the enclosing function's
// declared return type all live on one long-lived struct the way funxy's
// walker carries symbolTable/inFunctionBody/currentFile through its
// tree-switch passes — except here the three passes run as three explicit
// methods rather than funxy's headers/bodies two-phase walker, since
// spec.md names three passes, not two.
package analyzer

import (
	"fmt"
	"path/filepath"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/langctx"
	"github.com/softfault/loom/internal/module"
	"github.com/softfault/loom/internal/parser"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// Analyzer runs collect/resolve/check over exactly one file's AST. A
// fresh Analyzer is created per module (including nested ones pulled in
// by `use`); they all share one *langctx.Context, which is where the
// module cache, load stack and diagnostics actually accumulate.
type Analyzer struct {
	Ctx    *langctx.Context
	File   source.FileId
	Dir    string // directory containing File, for relative `use` resolution
	Module *langctx.ModuleInfo

	scope    *symbols.Stack
	generics map[interner.Symbol]bool // names usable as GenericParam right now

	curReturn *types.Type // enclosing function/method's declared return; nil outside one
	loopDepth int
}

func newAnalyzer(ctx *langctx.Context, file source.FileId, dir string, mod *langctx.ModuleInfo) *Analyzer {
	a := &Analyzer{
		Ctx:      ctx,
		File:     file,
		Dir:      dir,
		Module:   mod,
		scope:    symbols.NewStack(),
		generics: make(map[interner.Symbol]bool),
	}
	a.registerBuiltins()
	return a
}

// AnalyzeFile parses, collects, resolves and checks path as the entry
// module of a run, returning its ModuleInfo and every diagnostic produced
// across the whole import graph (nested modules share ctx.Errors).
func AnalyzeFile(ctx *langctx.Context, path string) (*langctx.ModuleInfo, []*diagnostics.DiagnosticError, error) {
	mod, err := ensureModule(ctx, path)
	if err != nil {
		return nil, ctx.Errors, err
	}
	return mod, ctx.Errors, nil
}

// ensureModule loads and fully analyzes path exactly once, returning the
// cached ModuleInfo on subsequent calls for the same canonical path
// (spec.md §4.6.1's "if the target file is not yet in the module cache,
// push it onto the load stack, parse + collect + resolve it via a nested
// analyzer instance, and pop").
func ensureModule(ctx *langctx.Context, path string) (*langctx.ModuleInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("analyzer: resolve %q: %w", path, err)
	}
	if ctx.LoadStack[abs] {
		return nil, fmt.Errorf("cyclic import of %q", abs)
	}
	if m, ok := ctx.Modules[abs]; ok {
		return m, nil
	}
	ctx.LoadStack[abs] = true
	defer delete(ctx.LoadStack, abs)

	fid, err := ctx.Sources.LoadFile(abs)
	if err != nil {
		return nil, err
	}
	src := ctx.Sources.Text(fid)
	prog, perrs := parser.ParseProgram(src, fid, ctx.Interner)
	ctx.Errors = append(ctx.Errors, perrs...)

	mod := langctx.NewModuleInfo(fid, abs, prog)
	ctx.Put(abs, mod)

	a := newAnalyzer(ctx, fid, filepath.Dir(abs), mod)
	a.collectProgram(prog)
	a.resolveProgram(prog)
	a.checkProgram(prog)

	return mod, nil
}

// errorAt is the one place every pass in this package reports a
// diagnostic, anchored to an ast.Node's span rather than a token (the
// analyzer walks already-parsed trees, not a token stream).
func (a *Analyzer) errorAt(code diagnostics.Code, sp source.Span, msg string) {
	a.Ctx.Errors = append(a.Ctx.Errors, diagnostics.NewErrorAtSpan(code, a.File, sp, msg))
}

// define inserts name into the current (innermost) scope frame, allowing
// shadowing — used for every collect-pass registration and for scope
// entries the check pass seeds itself (self, parameters, loop variables),
// where redefinition across passes/frames is expected rather than an error.
func (a *Analyzer) define(name interner.Symbol, ty types.Type, kind symbols.SymbolKind, span source.Span) {
	_ = a.scope.Define(name, symbols.SymbolInfo{
		Name: name, Type: ty, Kind: kind, DefinedSpan: span, DefinedFile: a.File,
	}, true)
}

// withGenerics extends the open generic-parameter set for the duration of
// fn, restoring it afterward — used while resolving a class's or a
// function/method's own generic-scoped type expressions (spec.md §4.6.1's
// "union of class-level and method-level generics").
func (a *Analyzer) withGenerics(names []interner.Symbol, fn func()) {
	added := make([]interner.Symbol, 0, len(names))
	for _, n := range names {
		if !a.generics[n] {
			a.generics[n] = true
			added = append(added, n)
		}
	}
	fn()
	for _, n := range added {
		delete(a.generics, n)
	}
}

func (a *Analyzer) selfSymbol() interner.Symbol { return a.Ctx.Interner.Intern("self") }

func (a *Analyzer) isSelfParam(p ast.Param) bool { return p.Name == a.selfSymbol() }

// tableInfo looks up a class's semantic record, whether it is defined in
// this file (still being built up during collect/resolve) or an
// already-fully-analyzed module reached through Context.
func (a *Analyzer) tableInfo(id types.TableId) *symbols.TableInfo {
	if id.File == a.File {
		return a.Module.Tables[id]
	}
	return a.Ctx.TableInfo(id)
}

func (a *Analyzer) tableInfoForType(t types.Type) *symbols.TableInfo {
	if t.Kind != types.KTable && t.Kind != types.KGenericInstance {
		return nil
	}
	return a.tableInfo(t.Table)
}

func isNumeric(t types.Type) bool { return t.Kind == types.KInt || t.Kind == types.KFloat }

// resolveModulePath is the spec.md §4.7 helper wired to the collect pass's
// Use handling; kept here (rather than inlined in collect.go) since it
// also needs Symbol->string resolution via the interner.
func (a *Analyzer) resolveModulePath(u *ast.UseDecl) (string, bool) {
	segs := make([]string, len(u.Segments))
	for i, s := range u.Segments {
		segs[i] = a.Ctx.Interner.Resolve(s)
	}
	return module.ResolvePath(u.Anchor, segs, a.Ctx.RootDir, a.Dir)
}
