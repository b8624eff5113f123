package eval

import (
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/types"
)

func tableID(file source.FileId, name interner.Symbol) types.TableId {
	return types.TableId{File: file, Name: name}
}

func (e *Evaluator) initSymbol() interner.Symbol { return e.Ctx.Interner.Intern("init") }
func (e *Evaluator) selfSymbol() interner.Symbol { return e.Ctx.Interner.Intern("self") }

// withFrame runs fn with the evaluator's environment/globals/file swapped
// to the given values, restoring the previous ones once fn returns (fn
// reports errors and control-flow signals through values it captures, not
// by panicking, so no defer is used; spec.md §4.8's "swap ... to that module's context ...
// and restore", used identically for module bootstrap, function calls,
// method calls, and field-initializer evaluation).
func (e *Evaluator) withFrame(env, globals *Environment, file source.FileId, fn func()) {
	savedEnv, savedGlobals, savedFile := e.environment, e.globals, e.file
	e.environment, e.globals, e.file = env, globals, file
	fn()
	e.environment, e.globals, e.file = savedEnv, savedGlobals, savedFile
}

func truthy(v Value) bool {
	b, ok := v.(BoolValue)
	return ok && bool(b)
}
