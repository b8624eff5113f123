// Package ast defines the uniform Node{id, span, data} tree the parser
// builds and the analyzer/evaluator walk. Concrete node kinds are sum-typed
// via a Visitor interface in the teacher's style
// (funvibe-funxy/internal/ast/ast_core.go), with a NodeId allocated per
// parse (spec.md §3.1/§3.2) embedded in every node via Base.
package ast

import (
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
)

// NodeId is unique within a single parse tree; it is the key the semantic
// database (internal/analyzer) uses for type_map/def_map entries.
type NodeId int32

// Node is the root interface every AST node satisfies.
type Node interface {
	ID() NodeId
	Span() source.Span
	Accept(v Visitor)
}

// Statement is a Node usable at statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node usable at expression position. The language is
// expression-oriented: most statements are themselves expressions (blocks,
// if, while, for, assignment, var-def all implement Expression too).
type Expression interface {
	Node
	expressionNode()
}

// Base carries the identity every node shares. Embed it, set via Factory.
type Base struct {
	Id  NodeId
	Sp  source.Span
}

func (b Base) ID() NodeId          { return b.Id }
func (b Base) Span() source.Span   { return b.Sp }

// Factory allocates nodes with monotonically increasing NodeIds, matching
// spec.md §3.1's "per-parse monotonically increasing integer" invariant.
// One Factory belongs to exactly one Parser/parse.
type Factory struct {
	next NodeId
}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) base(sp source.Span) Base {
	b := Base{Id: f.next, Sp: sp}
	f.next++
	return b
}

// BaseAt is the exported form of base, used by the parser to stamp a
// fresh Base (with a unique NodeId) onto every node it constructs.
func (f *Factory) BaseAt(sp source.Span) Base { return f.base(sp) }

// ---- Top-level items ----

// Item is one of Table, Function, Field, Use at program top level.
type Item interface {
	Node
	itemNode()
}

// Program is the root of a single file's parse tree.
type Program struct {
	Base
	File  source.FileId
	Items []Item
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// TableDecl is a class definition.
type TableDecl struct {
	Base
	Name         interner.Symbol
	GenericParams []interner.Symbol
	Parent       *TypeExpr // nil if no parent
	Fields       []*FieldDecl
	Methods      []*MethodDecl
}

func (t *TableDecl) Accept(v Visitor) { v.VisitTableDecl(t) }
func (t *TableDecl) itemNode()        {}

// FieldDecl is a class field or module-global ("Field" in spec.md §3.2).
type FieldDecl struct {
	Base
	Name resolvedName
	Type *TypeExpr // nil if inferred from Init
	Init Expression // nil if absent; constraint: Type or Init present
}

type resolvedName = interner.Symbol

func (f *FieldDecl) Accept(v Visitor) { v.VisitFieldDecl(f) }
func (f *FieldDecl) itemNode()        {}
func (f *FieldDecl) statementNode()   {}

// MethodDecl is a method on a class (in TableDecl.Methods), or a free
// top-level function when it appears directly in Program.Items
// ("Function" in spec.md §3.2).
type MethodDecl struct {
	Base
	Name          interner.Symbol
	GenericParams []interner.Symbol
	Params        []Param
	ReturnType    *TypeExpr // nil means Unit
	Body          *BlockExpr // nil means abstract (no body)
}

type Param struct {
	Name interner.Symbol
	Type *TypeExpr
}

func (m *MethodDecl) Accept(v Visitor) { v.VisitMethodDecl(m) }
func (m *MethodDecl) itemNode()        {}

// UseDecl is an import statement.
type UseDecl struct {
	Base
	Anchor   UseAnchor
	Segments []interner.Symbol
	Alias    interner.Symbol // zero Symbol means "no alias" (last segment used)
	HasAlias bool
}

type UseAnchor int

const (
	AnchorRoot UseAnchor = iota
	AnchorCurrent
	AnchorParent
)

func (u *UseDecl) Accept(v Visitor) { v.VisitUseDecl(u) }
func (u *UseDecl) itemNode()        {}
