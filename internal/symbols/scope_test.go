package symbols

import (
	"testing"

	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/types"
)

func TestStackResolveInnermostOut(t *testing.T) {
	s := NewStack()
	x := interner.Symbol(1)
	_ = s.Define(x, SymbolInfo{Name: x, Type: types.Int(), Kind: KindVariable}, false)

	s.Push()
	_ = s.Define(x, SymbolInfo{Name: x, Type: types.Str(), Kind: KindVariable}, false)
	info, ok := s.Resolve(x)
	if !ok || info.Type.Kind != types.KStr {
		t.Fatalf("expected innermost shadow to win, got %+v", info)
	}

	s.Pop()
	info, ok = s.Resolve(x)
	if !ok || info.Type.Kind != types.KInt {
		t.Fatalf("expected outer binding after pop, got %+v", info)
	}
}

func TestDefineRejectsDuplicateInSameFrame(t *testing.T) {
	s := NewStack()
	x := interner.Symbol(1)
	if err := s.Define(x, SymbolInfo{Name: x}, false); err != nil {
		t.Fatalf("first define should succeed: %v", err)
	}
	if err := s.Define(x, SymbolInfo{Name: x}, false); err == nil {
		t.Fatalf("duplicate define in the same frame should fail")
	}
	if err := s.Define(x, SymbolInfo{Name: x}, true); err != nil {
		t.Fatalf("allowShadow should permit redefinition: %v", err)
	}
}

func TestResolveCurrentOnlySearchesTopFrame(t *testing.T) {
	s := NewStack()
	x := interner.Symbol(1)
	_ = s.Define(x, SymbolInfo{Name: x}, false)
	s.Push()
	if _, ok := s.ResolveCurrent(x); ok {
		t.Fatalf("ResolveCurrent must not see outer frames")
	}
	if _, ok := s.Resolve(x); !ok {
		t.Fatalf("Resolve should still see outer frames")
	}
}
