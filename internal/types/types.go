// Package types implements the sum type of types (spec.md §3.3): kinds,
// substitution and the assignability relation. Grounded on the teacher's
// typesystem.Type interface with per-kind structs plus Apply/FreeTypeVariables
// (funvibe-funxy/internal/typesystem/types.go), substituting that package's
// Hindley-Milner inference machinery for spec.md's simpler nominal+generic
// model (no unification — generic call sites require explicit type args per
// spec.md §4.6.3).
package types

import (
	"fmt"
	"strings"

	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
)

// TableId uniquely identifies a class definition across the whole program:
// same name in two files is two distinct tables (spec.md §3.1).
type TableId struct {
	File source.FileId
	Name interner.Symbol
}

// Kind discriminates the Type sum.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KStr
	KChar
	KNil
	KUnit
	KAny
	KNever
	KError
	KInfer
	KTable
	KGenericParam
	KGenericInstance
	KArray
	KTuple
	KRange
	KFunction
	KModule
	KStructural
)

// Type is the sum type itself. Only the fields relevant to t.Kind are
// populated; Go has no tagged unions, so this mirrors how the teacher's
// TApp/TCon/TRecord/TFun sit behind one typesystem.Type interface, just
// flattened into one struct instead of one-interface-many-implementors —
// substitute/assignable below are simple enough that a single struct with
// a Kind tag is less ceremony than a 20-member interface hierarchy would be.
type Type struct {
	Kind Kind

	Table TableId         // KTable, and the base of KGenericInstance
	Param interner.Symbol // KGenericParam

	Args []Type // KGenericInstance args; KTuple elements; KFunction params

	Elem *Type // KArray element; KRange element

	FuncGenericParams []interner.Symbol
	FuncRet           *Type // KFunction

	ModuleFile source.FileId // KModule

	StructFields []StructField // KStructural
}

type StructField struct {
	Name interner.Symbol
	Type Type
}

// Convenience constructors.
func Int() Type  { return Type{Kind: KInt} }
func Float() Type { return Type{Kind: KFloat} }
func Bool() Type { return Type{Kind: KBool} }
func Str() Type  { return Type{Kind: KStr} }
func Char() Type { return Type{Kind: KChar} }
func Nil() Type  { return Type{Kind: KNil} }
func Unit() Type { return Type{Kind: KUnit} }
func Any() Type  { return Type{Kind: KAny} }
func Never() Type { return Type{Kind: KNever} }
func Error() Type { return Type{Kind: KError} }
func Infer() Type { return Type{Kind: KInfer} }

func Table(id TableId) Type { return Type{Kind: KTable, Table: id} }
func GenericParam(s interner.Symbol) Type { return Type{Kind: KGenericParam, Param: s} }
func GenericInstance(base TableId, args []Type) Type {
	return Type{Kind: KGenericInstance, Table: base, Args: args}
}
func Array(elem Type) Type { return Type{Kind: KArray, Elem: cloneP(elem)} }
func Tuple(elems []Type) Type { return Type{Kind: KTuple, Args: elems} }
func Range(elem Type) Type { return Type{Kind: KRange, Elem: cloneP(elem)} }
func Function(generics []interner.Symbol, params []Type, ret Type) Type {
	return Type{Kind: KFunction, FuncGenericParams: generics, Args: params, FuncRet: cloneP(ret)}
}
func Module(f source.FileId) Type { return Type{Kind: KModule, ModuleFile: f} }
func Structural(fields []StructField) Type { return Type{Kind: KStructural, StructFields: fields} }

func cloneP(t Type) *Type {
	cp := t
	return &cp
}

// String renders a type for diagnostics (spec.md §7's stringified
// expected/found).
func (t Type) String() string {
	switch t.Kind {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KStr:
		return "str"
	case KChar:
		return "char"
	case KNil:
		return "nil"
	case KUnit:
		return "unit"
	case KAny:
		return "any"
	case KNever:
		return "never"
	case KError:
		return "<error>"
	case KInfer:
		return "<infer>"
	case KTable:
		return fmt.Sprintf("table#%d", t.Table.Name)
	case KGenericParam:
		return fmt.Sprintf("param#%d", t.Param)
	case KGenericInstance:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("table#%d<%s>", t.Table.Name, strings.Join(parts, ", "))
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KTuple:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KRange:
		return "range<" + t.Elem.String() + ">"
	case KFunction:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("fn(%s) %s", strings.Join(parts, ", "), t.FuncRet.String())
	case KModule:
		return fmt.Sprintf("module#%d", t.ModuleFile)
	case KStructural:
		return "structural"
	}
	return "?"
}

// IsError reports whether t is the poison Error type.
func (t Type) IsError() bool { return t.Kind == KError }
