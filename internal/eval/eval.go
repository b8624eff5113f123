package eval

import (
	"io"
	"os"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/langctx"
	"github.com/softfault/loom/internal/source"
)

// Evaluator is spec.md §4.8's tree walker. It runs against a *langctx.Context
// that has already completed analysis — every module reachable from the
// entry file is already parsed, collected, resolved, and checked, so the
// evaluator never parses or loads anything itself; it only instantiates
// one runtime Environment per module the first time that module's globals
// are needed (bootstrapModule), exactly mirroring spec.md §4.8's
// "Module loading at runtime (bind_module)" using data the analyzer
// already computed (Context.Modules, ModuleInfo.Imports) instead of
// re-resolving `use` paths a second time.
type Evaluator struct {
	Ctx *langctx.Context
	Out io.Writer

	builtin   *Environment
	moduleEnv map[source.FileId]*Environment

	environment *Environment // current lexical scope
	globals     *Environment // current module's global scope
	file        source.FileId
}

// New returns an Evaluator over an already-analyzed Context, with its
// built-in environment prepopulated (spec.md §4.8 step 1).
func New(ctx *langctx.Context) *Evaluator {
	e := &Evaluator{
		Ctx:       ctx,
		Out:       os.Stdout,
		moduleEnv: make(map[source.FileId]*Environment),
	}
	e.builtin = NewEnvironment()
	e.registerNatives(e.builtin)
	return e
}

// Run implements spec.md §4.8's entry sequence: bootstrap the main
// module's globals, then call a bound `main` if one exists.
func (e *Evaluator) Run(mainFile source.FileId) (Value, *RuntimeError) {
	env, rerr := e.bootstrapModule(mainFile)
	if rerr != nil {
		return nil, rerr
	}
	mod, _ := e.Ctx.ModuleByFile(mainFile)
	mainSym := e.Ctx.Interner.Intern("main")
	v, ok := env.Get(mainSym)
	if !ok {
		return UnitValue{}, nil
	}
	fn, ok := v.(*FunctionValue)
	if !ok {
		return nil, newErr(ErrNotCallable, "'main' is not a function in %s", mod.Path)
	}
	return e.callFunction(fn, nil)
}

// bootstrapModule returns file's global environment, running its
// top-level items exactly once. The environment is cached *before* the
// top-level run completes (spec.md §4.8/§5: "insert it into the cache
// before running that module's top-level items, so that cycles observe
// a partially-initialised but live module").
func (e *Evaluator) bootstrapModule(file source.FileId) (*Environment, *RuntimeError) {
	if env, ok := e.moduleEnv[file]; ok {
		return env, nil
	}
	mod, ok := e.Ctx.ModuleByFile(file)
	if !ok {
		return nil, newErr(ErrInternal, "module not loaded for file %d", file)
	}

	env := NewEnclosedEnvironment(e.builtin)
	e.moduleEnv[file] = env

	savedEnv, savedGlobals, savedFile := e.environment, e.globals, e.file
	e.environment, e.globals, e.file = env, env, file
	defer func() { e.environment, e.globals, e.file = savedEnv, savedGlobals, savedFile }()

	for _, item := range mod.Program.Items {
		if rerr := e.runTopLevelItem(item, mod, env); rerr != nil {
			return env, rerr
		}
	}
	return env, nil
}

func (e *Evaluator) runTopLevelItem(item ast.Item, mod *langctx.ModuleInfo, env *Environment) *RuntimeError {
	switch n := item.(type) {
	case *ast.TableDecl:
		id := tableID(mod.FileId, n.Name)
		env.Define(n.Name, &TableValue{Table: id})

	case *ast.MethodDecl:
		env.Define(n.Name, &FunctionValue{File: mod.FileId, Name: n.Name, Captured: env})

	case *ast.FieldDecl:
		var v Value = UnitValue{}
		if n.Init != nil {
			flow, rerr := e.evalExpr(n.Init)
			if rerr != nil {
				return rerr
			}
			if signaled(flow) {
				return newErr(ErrInternal, "unexpected control signal at module top level")
			}
			v = flow.Value
		}
		env.Define(n.Name, v)

	case *ast.UseDecl:
		alias := n.Alias
		if !n.HasAlias {
			alias = n.Segments[len(n.Segments)-1]
		}
		fid, ok := mod.Imports[alias]
		if !ok {
			return newErr(ErrInternal, "unresolved import alias in already-analyzed module")
		}
		if _, rerr := e.bootstrapModule(fid); rerr != nil {
			return rerr
		}
		env.Define(alias, &ModuleValue{File: fid})
	}
	return nil
}
