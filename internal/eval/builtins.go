package eval

import "fmt"

// registerNatives populates the built-in environment with spec.md §6's
// FFI boundary: `print(Any) -> Unit` (the resolved, non-variadic
// signature — see analyzer/builtins.go's same resolution of the
// inconsistently-typed original) plus the array/string native methods
// surfaced through BoundNativeMethod at field-access time (member.go).
func (e *Evaluator) registerNatives(env *Environment) {
	env.Define(e.Ctx.Interner.Intern("print"), &NativeFunction{Name: "print", Fn: nativePrint})
}

func nativePrint(e *Evaluator, args []Value) (Value, *RuntimeError) {
	if len(args) != 1 {
		return nil, newErr(ErrArgumentCount, "print: expected 1 argument, found %d", len(args))
	}
	fmt.Fprintln(e.Out, args[0].Inspect())
	return UnitValue{}, nil
}

func nativeArrayLen(e *Evaluator, recv Value, args []Value) (Value, *RuntimeError) {
	if len(args) != 0 {
		return nil, newErr(ErrArgumentCount, "len: expected 0 arguments, found %d", len(args))
	}
	arr := recv.(*ArrayValue)
	return IntValue(len(arr.Elements)), nil
}

func nativeArrayPush(e *Evaluator, recv Value, args []Value) (Value, *RuntimeError) {
	if len(args) != 1 {
		return nil, newErr(ErrArgumentCount, "push: expected 1 argument, found %d", len(args))
	}
	arr := recv.(*ArrayValue)
	arr.Elements = append(arr.Elements, args[0])
	return UnitValue{}, nil
}

func nativeStrLen(e *Evaluator, recv Value, args []Value) (Value, *RuntimeError) {
	if len(args) != 0 {
		return nil, newErr(ErrArgumentCount, "len: expected 0 arguments, found %d", len(args))
	}
	s := recv.(StrValue)
	return IntValue(len([]rune(string(s)))), nil
}
