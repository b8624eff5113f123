package types

import "github.com/softfault/loom/internal/interner"

// Subst maps a generic parameter's Symbol to the concrete Type it stands
// for. Grounded on the teacher's typesystem.Subst (a map[string]Type used
// by TVar.Apply); here keyed by interner.Symbol since generic parameter
// names are themselves interned.
type Subst map[interner.Symbol]Type

// Substitute recursively replaces GenericParam(s) with subst[s] wherever
// present, descending through generic instances, arrays, tuples, ranges
// and function types (spec.md §3.3). Substitute(nil) is the identity
// (spec.md §8 substitution-identity law).
func Substitute(t Type, subst Subst) Type {
	if len(subst) == 0 {
		return t
	}
	switch t.Kind {
	case KGenericParam:
		if repl, ok := subst[t.Param]; ok {
			return repl
		}
		return t
	case KGenericInstance:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Substitute(a, subst)
		}
		return GenericInstance(t.Table, args)
	case KArray:
		return Array(Substitute(*t.Elem, subst))
	case KRange:
		return Range(Substitute(*t.Elem, subst))
	case KTuple:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Substitute(a, subst)
		}
		return Tuple(args)
	case KFunction:
		params := make([]Type, len(t.Args))
		for i, a := range t.Args {
			params[i] = Substitute(a, subst)
		}
		return Function(t.FuncGenericParams, params, Substitute(*t.FuncRet, subst))
	case KStructural:
		fields := make([]StructField, len(t.StructFields))
		for i, f := range t.StructFields {
			fields[i] = StructField{Name: f.Name, Type: Substitute(f.Type, subst)}
		}
		return Structural(fields)
	default:
		return t
	}
}
