package ast

import (
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
)

// TypeExpr is the parsed (unresolved) form of a type annotation. The
// analyzer's collect pass turns one into a types.Type via
// resolve_ast_type (spec.md §4.6.1).
type TypeExpr struct {
	Base
	// Exactly one of the following describes this type expression.
	Name     interner.Symbol   // simple name: int, str, Point, generic param
	Module   interner.Symbol   // set for `module.Member`; zero otherwise
	Args     []*TypeExpr       // generic arguments for Base<Args...>
	Array    *TypeExpr         // set for [ElemType]
	Tuple    []*TypeExpr       // set for (A, B, ...)
	FuncParams []*TypeExpr     // set for fn(Params...) Ret
	FuncRet    *TypeExpr
}

func (t *TypeExpr) Accept(v Visitor) { v.VisitTypeExpr(t) }
func (t *TypeExpr) expressionNode()  {}

// NewNamedType is a small convenience constructor used throughout the
// parser for the common case of a bare name.
func (f *Factory) NewNamedType(name interner.Symbol, sp source.Span) *TypeExpr {
	return &TypeExpr{Base: f.base(sp), Name: name}
}
