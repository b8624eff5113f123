package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/parser"
	"github.com/softfault/loom/internal/source"
)

var syms *interner.Interner

func parse(t *testing.T, src string) (*ast.Program, []string) {
	t.Helper()
	syms = interner.New()
	prog, errs := parser.ParseProgram(src, source.FileId(1), syms)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return prog, msgs
}

func TestParseSimpleClass(t *testing.T) {
	src := "class Point\n    x: int\n    y: int\n    fn sum() int\n        return self.x + self.y\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	require.Len(t, prog.Items, 1)

	cls, ok := prog.Items[0].(*ast.TableDecl)
	require.True(t, ok)
	assert.Len(t, cls.Fields, 2)
	assert.Len(t, cls.Methods, 1)
	assert.Equal(t, "sum", syms.Resolve(cls.Methods[0].Name))

	ret, ok := cls.Methods[0].Body.Statements[0].(*ast.ReturnExpr)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseGenericClassWithParent(t *testing.T) {
	src := "class Box<T> : Container<T>\n    value: T\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	cls := prog.Items[0].(*ast.TableDecl)
	require.Len(t, cls.GenericParams, 1)
	require.NotNil(t, cls.Parent)
	assert.Len(t, cls.Parent.Args, 1)
}

func TestParseUseWithAliasAndAnchors(t *testing.T) {
	prog, errs := parse(t, "use collections.list as lst\n")
	require.Empty(t, errs)
	u := prog.Items[0].(*ast.UseDecl)
	assert.Equal(t, ast.AnchorRoot, u.Anchor)
	assert.Len(t, u.Segments, 2)
	assert.True(t, u.HasAlias)

	prog2, errs2 := parse(t, "use .sibling\n")
	require.Empty(t, errs2)
	u2 := prog2.Items[0].(*ast.UseDecl)
	assert.Equal(t, ast.AnchorCurrent, u2.Anchor)
}

func TestParseIfElseIfChain(t *testing.T) {
	src := "fn classify(n: int) int\n" +
		"    if n < 0\n" +
		"        return 0\n" +
		"    else if n == 0\n" +
		"        return 1\n" +
		"    else\n" +
		"        return 2\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	fn := prog.Items[0].(*ast.MethodDecl)
	ifExpr := fn.Body.Statements[0].(*ast.IfExpr)
	require.NotNil(t, ifExpr.Else)
	nested, ok := ifExpr.Else.Statements[0].(*ast.IfExpr)
	require.True(t, ok)
	require.NotNil(t, nested.Else)
}

func TestParseNestedBlocksRestoreOuterLevel(t *testing.T) {
	src := "fn run()\n" +
		"    while true\n" +
		"        if x\n" +
		"            a()\n" +
		"        b()\n" +
		"    c()\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	fn := prog.Items[0].(*ast.MethodDecl)
	require.Len(t, fn.Body.Statements, 2, "while-loop and trailing c() call must both be seen at the function's level")

	while := fn.Body.Statements[0].(*ast.WhileExpr)
	require.Len(t, while.Body.Statements, 2, "if-statement and trailing b() call must both be seen at the while-body's level")
}

func TestParseGenericCallVsComparison(t *testing.T) {
	prog, errs := parse(t, "fn f()\n    make<int>(1)\n")
	require.Empty(t, errs)
	fn := prog.Items[0].(*ast.MethodDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStatement)
	call, ok := stmt.X.(*ast.CallExpr)
	require.True(t, ok, "expected a generic call, got %T", stmt.X)
	assert.Len(t, call.GenericArgs, 1)

	prog2, errs2 := parse(t, "fn f()\n    a < b\n")
	require.Empty(t, errs2)
	fn2 := prog2.Items[0].(*ast.MethodDecl)
	stmt2 := fn2.Body.Statements[0].(*ast.ExprStatement)
	bin, ok := stmt2.X.(*ast.BinaryExpr)
	require.True(t, ok, "expected a comparison, got %T", stmt2.X)
	assert.Equal(t, "<", bin.Op)
}

func TestParseForRangeAndArrayLiteral(t *testing.T) {
	src := "fn f()\n    xs: [int] = [1, 2, 3]\n    for v in 0..3\n        print(v)\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	fn := prog.Items[0].(*ast.MethodDecl)
	v := fn.Body.Statements[0].(*ast.VarDef)
	arr, ok := v.Init.(*ast.ArrayLit)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	forExpr := fn.Body.Statements[1].(*ast.ForExpr)
	_, ok = forExpr.Iter.(*ast.RangeExpr)
	require.True(t, ok)
}

func TestParseAssignmentAndCast(t *testing.T) {
	prog, errs := parse(t, "fn f()\n    x = y as int\n")
	require.Empty(t, errs)
	fn := prog.Items[0].(*ast.MethodDecl)
	assign := fn.Body.Statements[0].(*ast.AssignExpr)
	assert.Equal(t, "=", assign.Op)
	cast, ok := assign.Value.(*ast.CastExpr)
	require.True(t, ok)
	assert.NotNil(t, cast.Type)
}

func TestParseAbstractMethodHasNoBody(t *testing.T) {
	src := "class Shape\n    fn area() float\n"
	prog, errs := parse(t, src)
	require.Empty(t, errs)
	cls := prog.Items[0].(*ast.TableDecl)
	assert.Nil(t, cls.Methods[0].Body)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	src := "x )\nclass A\n    y: int\n"
	prog, errs := parse(t, src)
	assert.NotEmpty(t, errs)
	require.Len(t, prog.Items, 1, "parser should recover and still parse the class after the bad line")
	_, ok := prog.Items[0].(*ast.TableDecl)
	assert.True(t, ok)
}
