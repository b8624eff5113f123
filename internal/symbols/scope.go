// Package symbols implements the scope stack and semantic-table carriers
// of spec.md §3.4/§3.5: a stack of name->SymbolInfo scopes searched
// innermost-out, plus the per-class/per-function/per-global info records
// the analyzer's collect pass builds and the resolve pass fills in.
// Grounded on funvibe-funxy/internal/symbols/symbol_table_core.go's
// Symbol{Name, Type, Kind, ...} record and its scope-stack companion files
// (symbol_table_resolution.go's innermost-out Find).
package symbols

import (
	"fmt"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/types"
)

type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindParameter
	KindField
	KindMethod
	KindTable
	KindFunction
)

// SymbolInfo is one scope entry (spec.md §3.4).
type SymbolInfo struct {
	Name         interner.Symbol
	Type         types.Type
	Kind         SymbolKind
	DefinedSpan  source.Span
	DefinedFile  source.FileId
}

// Scope is one frame of the scope stack: a flat name->SymbolInfo map.
type Scope struct {
	entries map[interner.Symbol]SymbolInfo
}

func newScope() *Scope { return &Scope{entries: make(map[interner.Symbol]SymbolInfo)} }

// Stack is the scope stack used by the analyzer's check pass and the
// evaluator's environments share the same nesting idea, but Stack itself
// is compile-time only (it disappears after analysis; the evaluator's
// Environment, in internal/eval, is the runtime analogue).
type Stack struct {
	frames []*Scope
}

// NewStack returns a Stack with a single empty frame.
func NewStack() *Stack {
	s := &Stack{}
	s.Push()
	return s
}

// Push opens a new innermost scope.
func (s *Stack) Push() { s.frames = append(s.frames, newScope()) }

// Pop closes the innermost scope.
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Define inserts name into the current (innermost) frame. Unless
// allowShadow is true, redefining a name already present in that same
// frame is rejected (spec.md §3.5); shadowing an outer frame's binding is
// always allowed regardless of allowShadow, since that's ordinary lexical
// scoping, not redefinition.
func (s *Stack) Define(name interner.Symbol, info SymbolInfo, allowShadow bool) error {
	top := s.frames[len(s.frames)-1]
	if _, exists := top.entries[name]; exists && !allowShadow {
		return fmt.Errorf("duplicate definition in current scope")
	}
	top.entries[name] = info
	return nil
}

// Resolve searches frames innermost-out.
func (s *Stack) Resolve(name interner.Symbol) (SymbolInfo, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if info, ok := s.frames[i].entries[name]; ok {
			return info, true
		}
	}
	return SymbolInfo{}, false
}

// ResolveCurrent searches only the innermost frame.
func (s *Stack) ResolveCurrent(name interner.Symbol) (SymbolInfo, bool) {
	top := s.frames[len(s.frames)-1]
	info, ok := top.entries[name]
	return info, ok
}

// ---- Semantic tables (spec.md §3.4) ----

type FieldInfo struct {
	Type types.Type
	Span source.Span
	Init ast.Expression // nil if no initializer
	// File is the field's declaring file — its own class's file for a
	// directly-declared field, or the file of the ancestor class that
	// declared it for one copied down during inheritance flattening. The evaluator needs this
	// to evaluate an inherited field's initializer in the module that
	// wrote it, not the module of the instance being constructed
	// (spec.md §4.8's "Instantiation").
	File source.FileId
}

type MethodInfo struct {
	GenericParams []interner.Symbol
	Signature     types.Type // KFunction
	Span          source.Span
	Abstract      bool
	Decl          *ast.MethodDecl
	// File is the method's declaring file, carried through inheritance
	// flattening the same way FieldInfo.File is, so a BoundMethod's
	// defining environment is always the globals of the module that
	// actually wrote the method body (spec.md §4.8's "Method dispatch").
	File source.FileId
}

// TableInfo is the flattened view of one class, mutated in place during
// the resolve pass (inheritance fill-in) and frozen afterwards.
type TableInfo struct {
	Name          interner.Symbol
	File          source.FileId
	Parent        *types.Type // nil if no parent
	GenericParams []interner.Symbol
	Fields        map[interner.Symbol]FieldInfo
	Methods       map[interner.Symbol]MethodInfo
	DefinedSpan   source.Span
	Decl          *ast.TableDecl
}

func NewTableInfo() *TableInfo {
	return &TableInfo{Fields: make(map[interner.Symbol]FieldInfo), Methods: make(map[interner.Symbol]MethodInfo)}
}

type FunctionInfo struct {
	Name          interner.Symbol
	File          source.FileId
	GenericParams []interner.Symbol
	Signature     types.Type
	Span          source.Span
	Decl          *ast.MethodDecl
}

type GlobalVarInfo struct {
	Name interner.Symbol
	File source.FileId
	Type types.Type
	Span source.Span
	Decl *ast.FieldDecl
}
