package analyzer

import (
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// registerBuiltins seeds the global scope with the natives spec.md §6 names
// at minimum: `print(Any) -> Unit`, per §9's resolution of the
// inconsistently-typed original (the canonical signature is `(Any) Unit`,
// not a variadic one).
func (a *Analyzer) registerBuiltins() {
	a.define(a.Ctx.Interner.Intern("print"),
		types.Function(nil, []types.Type{types.Any()}, types.Unit()),
		symbols.KindFunction, source.Span{})
}
