package types

// SubclassChecker answers whether TableId `child` is a transitive subclass
// of `parent`, including child == parent. langctx.Context implements this
// over the analyzer's class tables; types stays free of a dependency on
// those semantic tables by taking the checker as a parameter
// rather than importing it, the usual way to break an import cycle between
// a leaf "type" package and the "tables of types" package built on top of it.
type SubclassChecker interface {
	IsSubclass(child, parent TableId) bool
}

// Assignable reports whether a value of type source may be used where
// target is expected (target :← source, spec.md §3.3).
func Assignable(target, source Type, sub SubclassChecker) bool {
	if target.Kind == KAny || source.Kind == KAny {
		return true
	}
	if target.Kind == KError || source.Kind == KError {
		return true
	}
	if source.Kind == KNever {
		return true
	}
	if target.Kind == KNever {
		return false
	}
	if equalShape(target, source) {
		return true
	}

	switch target.Kind {
	case KArray:
		if source.Kind != KArray {
			return false
		}
		return Assignable(*target.Elem, *source.Elem, sub)
	case KFunction:
		if source.Kind != KFunction {
			return false
		}
		if len(target.Args) != len(source.Args) {
			return false
		}
		// Contravariant in parameters: target :← source needs each
		// target param assignable *to* the source param (source must
		// accept everything a caller of target may pass, so its params
		// are equal or wider), i.e. source.Args[i] :← target.Args[i].
		for i := range target.Args {
			if !Assignable(source.Args[i], target.Args[i], sub) {
				return false
			}
		}
		return Assignable(*target.FuncRet, *source.FuncRet, sub)
	case KGenericInstance:
		if source.Kind != KGenericInstance || source.Table != target.Table {
			return false
		}
		if len(target.Args) != len(source.Args) {
			return false
		}
		for i := range target.Args {
			if !Assignable(target.Args[i], source.Args[i], sub) {
				return false
			}
		}
		return true
	case KTable:
		if source.Kind != KTable {
			return false
		}
		if sub == nil {
			return target.Table == source.Table
		}
		return sub.IsSubclass(source.Table, target.Table)
	case KTuple:
		if source.Kind != KTuple || len(target.Args) != len(source.Args) {
			return false
		}
		for i := range target.Args {
			if !Assignable(target.Args[i], source.Args[i], sub) {
				return false
			}
		}
		return true
	case KRange:
		return source.Kind == KRange && Assignable(*target.Elem, *source.Elem, sub)
	}
	return false
}

// equalShape is reflexive structural equality for the kinds whose identity
// doesn't depend on the SubclassChecker (primitives, generic params, Unit,
// Nil, modules), plus identical Table ids, so a Table is assignable to
// itself before the SubclassChecker is consulted. Composite kinds (arrays,
// tuples, functions, generic instances) return false here and are
// compared element-wise by Assignable's switch.
func equalShape(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KInt, KFloat, KBool, KStr, KChar, KNil, KUnit, KNever, KError, KInfer, KAny:
		return true
	case KGenericParam:
		return a.Param == b.Param
	case KModule:
		return a.ModuleFile == b.ModuleFile
	case KTable:
		return a.Table == b.Table
	}
	return false
}
