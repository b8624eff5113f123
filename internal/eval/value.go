// Package eval implements spec.md §4.8's tree-walking evaluator: an
// Environment-based walker over the same *ast.Program trees the analyzer
// already checked, producing Value results and propagating the
// Ok/Return/Break/Continue/Err ControlFlow sum. Grounded on
// funvibe-funxy/internal/evaluator's Object interface + per-kind struct
// split (object.go, object_primitives.go, object_collections.go) and its
// Environment/ApplyFunction shapes, simplified to spec.md's smaller value
// set: no witness dictionaries, no generic-instantiation environment
// entries, no tail-call trampoline — Loom's generics are fully erased by
// the time the evaluator runs, so a Value never carries type information.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/types"
)

// Value is the runtime value sum (spec.md §3.6). Every concrete kind
// below carries its own Inspect, the same split funxy's Object interface
// uses instead of one shared formatting switch.
type Value interface {
	valueNode()
	TypeName() string
	Inspect() string
}

type IntValue int64

func (IntValue) valueNode()          {}
func (IntValue) TypeName() string    { return "int" }
func (v IntValue) Inspect() string   { return strconv.FormatInt(int64(v), 10) }

type FloatValue float64

func (FloatValue) valueNode()        {}
func (FloatValue) TypeName() string  { return "float" }
func (v FloatValue) Inspect() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type BoolValue bool

func (BoolValue) valueNode()         {}
func (BoolValue) TypeName() string   { return "bool" }
func (v BoolValue) Inspect() string  { return strconv.FormatBool(bool(v)) }

type CharValue rune

func (CharValue) valueNode()         {}
func (CharValue) TypeName() string   { return "char" }
func (v CharValue) Inspect() string  { return string(rune(v)) }

type StrValue string

func (StrValue) valueNode()          {}
func (StrValue) TypeName() string    { return "str" }
func (v StrValue) Inspect() string   { return string(v) }

type NilValue struct{}

func (NilValue) valueNode()          {}
func (NilValue) TypeName() string    { return "nil" }
func (NilValue) Inspect() string     { return "nil" }

type UnitValue struct{}

func (UnitValue) valueNode()         {}
func (UnitValue) TypeName() string   { return "unit" }
func (UnitValue) Inspect() string    { return "unit" }

// ArrayValue is a shared, mutable, growable vector (spec.md §5's "array
// contents are mutable shared regions"). Held by pointer so `push`
// mutates every alias, and `for x in arr` can snapshot Elements up front.
type ArrayValue struct {
	Elements []Value
}

func (*ArrayValue) valueNode()       {}
func (*ArrayValue) TypeName() string { return "array" }
func (v *ArrayValue) Inspect() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleValue is a fixed-size, immutable product value.
type TupleValue struct {
	Elements []Value
}

func (*TupleValue) valueNode()       {}
func (*TupleValue) TypeName() string { return "tuple" }
func (v *TupleValue) Inspect() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RangeValue is an inclusive-low/exclusive-high integer range (spec.md
// §4.8's "for over a range iterates inclusive-low/exclusive-high").
type RangeValue struct {
	Low, High int64
}

func (*RangeValue) valueNode()       {}
func (*RangeValue) TypeName() string { return "range" }
func (v *RangeValue) Inspect() string {
	return fmt.Sprintf("%d..%d", v.Low, v.High)
}

// Instance is a class instance: a table id plus its own field bindings
// (spec.md §3.6). Held by pointer so `obj.f = x` mutates the one shared
// instance every alias observes.
type Instance struct {
	Table  types.TableId
	Fields map[interner.Symbol]Value
}

func (*Instance) valueNode()       {}
func (*Instance) TypeName() string { return "instance" }
func (v *Instance) Inspect() string {
	return fmt.Sprintf("<instance table#%d>", v.Table.Name)
}

// FunctionValue is a free function or top-level-defined closure: the
// defining file, its name (looked up in that file's ModuleInfo.Functions
// for its AST and signature), and the environment in scope at definition
// time (spec.md §4.8's "Call semantics": "build a call environment whose
// enclosing scope is captured_env, not the caller's").
type FunctionValue struct {
	File     source.FileId
	Name     interner.Symbol
	Captured *Environment
}

func (*FunctionValue) valueNode()       {}
func (*FunctionValue) TypeName() string { return "function" }
func (v *FunctionValue) Inspect() string { return "<function>" }

// NativeFunction wraps a host-provided builtin (spec.md §6's FFI
// boundary): `fn(&mut Context, &[Value]) -> Result<Value, RuntimeErrorKind>`
// becomes a plain Go closure over *Evaluator.
type NativeFunction struct {
	Name string
	Fn   func(e *Evaluator, args []Value) (Value, *RuntimeError)
}

func (*NativeFunction) valueNode()       {}
func (*NativeFunction) TypeName() string { return "function" }
func (v *NativeFunction) Inspect() string { return "<native fn " + v.Name + ">" }

// BoundMethod is the result of prototype-chain method dispatch (spec.md
// §4.8's "Method dispatch"): the receiver, the method's AST (found by
// walking up the chain from Receiver.Table), and the environment of the
// file that *defines* that method (not the receiver's own file, when the
// method was inherited from a parent declared elsewhere) — so the
// method's free identifiers resolve against its own module's globals.
type BoundMethod struct {
	Receiver *Instance
	Method   *ast.MethodDecl
	DefFile  source.FileId
	DefEnv   *Environment
}

func (*BoundMethod) valueNode()       {}
func (*BoundMethod) TypeName() string { return "function" }
func (v *BoundMethod) Inspect() string { return "<bound method>" }

// BoundNativeMethod is a native method resolved on a built-in receiver
// (array.len/push, str.len) — spec.md §4.8's "Native methods on built-in
// types wrap as BoundNativeMethod(Box(receiver), fn-pointer)".
type BoundNativeMethod struct {
	Receiver Value
	Name     string
	Fn       func(e *Evaluator, recv Value, args []Value) (Value, *RuntimeError)
}

func (*BoundNativeMethod) valueNode()       {}
func (*BoundNativeMethod) TypeName() string { return "function" }
func (v *BoundNativeMethod) Inspect() string { return "<native method " + v.Name + ">" }

// TableValue is a class reference used as a constructor callee (the
// value a `class` top-level item binds its name to: `Table(TableId)`).
type TableValue struct {
	Table types.TableId
}

func (*TableValue) valueNode()       {}
func (*TableValue) TypeName() string { return "class" }
func (v *TableValue) Inspect() string { return fmt.Sprintf("<class table#%d>", v.Table.Name) }

// ModuleValue is what a `use ... as alias` binding resolves to.
type ModuleValue struct {
	File source.FileId
}

func (*ModuleValue) valueNode()       {}
func (*ModuleValue) TypeName() string { return "module" }
func (v *ModuleValue) Inspect() string { return fmt.Sprintf("<module file#%d>", v.File) }
