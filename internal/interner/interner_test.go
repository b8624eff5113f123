package interner

import "testing"

func TestInternReturnsStableSymbol(t *testing.T) {
	in := New()
	a := in.Intern("foo")
	b := in.Intern("bar")
	c := in.Intern("foo")

	if a != c {
		t.Fatalf("re-interning %q should yield the same symbol: got %d and %d", "foo", a, c)
	}
	if a == b {
		t.Fatalf("distinct strings must not collide: %q and %q both got %d", "foo", "bar", a)
	}
	if in.Resolve(a) != "foo" || in.Resolve(b) != "bar" {
		t.Fatalf("resolve did not round-trip")
	}
}

func TestInternLen(t *testing.T) {
	in := New()
	in.Intern("a")
	in.Intern("b")
	in.Intern("a")
	if in.Len() != 2 {
		t.Fatalf("expected 2 distinct symbols, got %d", in.Len())
	}
}
