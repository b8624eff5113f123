package types

import (
	"testing"

	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
)

type fakeHierarchy map[TableId]TableId // child -> parent

func (f fakeHierarchy) IsSubclass(child, parent TableId) bool {
	if child == parent {
		return true
	}
	for c := child; ; {
		p, ok := f[c]
		if !ok {
			return false
		}
		if p == parent {
			return true
		}
		c = p
	}
}

func tid(n interner.Symbol) TableId { return TableId{File: source.Builtin, Name: n} }

func TestAssignabilityReflexiveAndTransitive(t *testing.T) {
	a, b, c := tid(1), tid(2), tid(3)
	hier := fakeHierarchy{b: a, c: b} // C <: B <: A

	for _, ty := range []Type{Int(), Float(), Bool(), Str(), Table(a)} {
		if !Assignable(ty, ty, hier) {
			t.Fatalf("%v should be assignable to itself", ty)
		}
	}
	if !Assignable(Table(a), Table(c), hier) {
		t.Fatalf("C <: A should hold transitively")
	}
	if Assignable(Table(c), Table(a), hier) {
		t.Fatalf("A should not be assignable where C is expected")
	}
}

func TestNeverAndAnyAbsorption(t *testing.T) {
	if Assignable(Never(), Int(), nil) {
		t.Fatalf("Never :<- anything must be false")
	}
	if !Assignable(Int(), Never(), nil) {
		t.Fatalf("anything :<- Never must be true")
	}
	if !Assignable(Any(), Str(), nil) || !Assignable(Str(), Any(), nil) {
		t.Fatalf("Any absorbs on either side")
	}
	if !Assignable(Error(), Int(), nil) || !Assignable(Int(), Error(), nil) {
		t.Fatalf("Error absorbs on either side")
	}
}

func TestCovariantArraysAndFunctionContravariance(t *testing.T) {
	a, b := tid(1), tid(2)
	hier := fakeHierarchy{b: a} // B <: A

	if !Assignable(Array(Table(a)), Array(Table(b)), hier) {
		t.Fatalf("Array<A> should accept Array<B> covariantly")
	}

	// Assignable(target, source) on functions is contravariant in the
	// params: each target param must be assignable to the source param.
	fnTakesA := Function(nil, []Type{Table(a)}, Table(a))
	fnTakesB := Function(nil, []Type{Table(b)}, Table(a))
	if Assignable(fnTakesA, fnTakesB, hier) {
		t.Fatalf("a function requiring the narrower param B cannot stand in for one requiring A")
	}
	if !Assignable(fnTakesB, fnTakesA, hier) {
		t.Fatalf("a function accepting the wider param A can satisfy a caller expecting to pass only B")
	}
}

func TestGenericInstanceCovariance(t *testing.T) {
	box, a, b := tid(10), tid(1), tid(2)
	hier := fakeHierarchy{b: a}

	boxOfA := GenericInstance(box, []Type{Table(a)})
	boxOfB := GenericInstance(box, []Type{Table(b)})
	if !Assignable(boxOfA, boxOfB, hier) {
		t.Fatalf("Box<A> should accept Box<B> when B <: A (covariant generic args)")
	}
}

func TestSubstituteIdentityAndIdempotence(t *testing.T) {
	x := interner.Symbol(7)
	u := Int()
	ty := Array(GenericParam(x))

	if got := Substitute(ty, nil); got.String() != ty.String() {
		t.Fatalf("substitute(nil) must be identity")
	}

	once := Substitute(ty, Subst{x: u})
	twice := Substitute(once, Subst{x: u})
	if once.String() != twice.String() {
		t.Fatalf("repeated substitution with the same map should be idempotent: %v vs %v", once, twice)
	}
}
