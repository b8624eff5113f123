package lexer

import (
	"testing"

	"github.com/softfault/loom/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLayoutBalance(t *testing.T) {
	src := "class Point\n    x: int\n    fn sum() int\n        return self.x\nfn main()\n    p: Point = Point()\n"
	toks := Tokenize(src)

	depth := 0
	for _, tok := range toks {
		switch tok.Type {
		case token.INDENT:
			depth++
		case token.DEDENT:
			depth--
			if depth < 0 {
				t.Fatalf("dedent underflow")
			}
		}
	}
	if depth != 0 {
		t.Fatalf("unbalanced indent/dedent: depth=%d", depth)
	}
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", toks[len(toks)-1].Type)
	}
}

func TestIndentDedentSequence(t *testing.T) {
	src := "class A\n    x: int\ny: int\n"
	toks := Tokenize(src)
	got := types(toks)

	want := []token.Type{
		token.CLASS, token.IDENT, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.COLON, token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.COLON, token.IDENT, token.NEWLINE,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestBlankLinesDoNotAffectIndentation(t *testing.T) {
	src := "class A\n    x: int\n\n    y: int\n"
	toks := Tokenize(src)
	indents, dedents := 0, 0
	for _, tok := range toks {
		if tok.Type == token.INDENT {
			indents++
		}
		if tok.Type == token.DEDENT {
			dedents++
		}
	}
	if indents != 1 {
		t.Fatalf("expected exactly one indent, got %d", indents)
	}
	_ = dedents
}

func TestCompoundOperators(t *testing.T) {
	src := "a == b != c <= d >= e += 1\n"
	got := types(Tokenize(src))
	want := []token.Type{
		token.IDENT, token.EQ, token.IDENT, token.NOT_EQ, token.IDENT,
		token.LE, token.IDENT, token.GE, token.IDENT, token.PLUS_ASSIGN, token.INT,
		token.NEWLINE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	toks := Tokenize("1_000 0x1F 3.14 1e3\n")
	if toks[0].Literal.(int64) != 1000 {
		t.Fatalf("underscored int: got %v", toks[0].Literal)
	}
	if toks[1].Literal.(int64) != 31 {
		t.Fatalf("hex int: got %v", toks[1].Literal)
	}
	if toks[2].Literal.(float64) != 3.14 {
		t.Fatalf("float: got %v", toks[2].Literal)
	}
	if toks[3].Type != token.FLOAT {
		t.Fatalf("exponent form should be float, got %v", toks[3].Type)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := Tokenize(`"a\nb\t\"c\""` + "\n")
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Type)
	}
	if toks[0].Literal.(string) != "a\nb\t\"c\"" {
		t.Fatalf("escape decoding mismatch: %q", toks[0].Literal)
	}
}

func TestLexTwiceIsIdentical(t *testing.T) {
	src := "class A\n    fn f() int\n        return 1\n"
	a := types(Tokenize(src))
	b := types(Tokenize(src))
	if len(a) != len(b) {
		t.Fatalf("length mismatch across runs")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("token %d differs across runs: %v vs %v", i, a[i], b[i])
		}
	}
}
