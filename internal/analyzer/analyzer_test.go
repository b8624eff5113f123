package analyzer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softfault/loom/internal/analyzer"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/langctx"
	"github.com/softfault/loom/internal/source"
)

// writeFile creates a .loom source file under dir and returns its path.
func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func analyze(t *testing.T, dir, entry string) (*langctx.ModuleInfo, []*diagnostics.DiagnosticError) {
	t.Helper()
	ctx := langctx.New(dir, interner.New(), source.NewManager())
	mod, errs, err := analyzer.AnalyzeFile(ctx, entry)
	require.NoError(t, err)
	return mod, errs
}

func codes(errs []*diagnostics.DiagnosticError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = string(e.Code)
	}
	return out
}

func TestSimpleClassAnalyzesCleanly(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Point\n"+
		"    x: int\n"+
		"    y: int\n"+
		"    fn sum() int\n"+
		"        return self.x + self.y\n"+
		"fn main()\n"+
		"    p: Point = Point()\n"+
		"    p.x = 3\n"+
		"    p.y = 4\n"+
		"    print(p.sum())\n")

	_, errs := analyze(t, dir, entry)
	assert.Empty(t, errs)
}

func TestCrossModuleUseWithAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.loom", ""+
		"class Animal\n"+
		"    name: str\n"+
		"    fn speak() str\n"+
		"        return self.name\n")
	entry := writeFile(t, dir, "main.loom", ""+
		"use .lib as zoo\n"+
		"fn main()\n"+
		"    a: zoo.Animal = zoo.Animal()\n"+
		"    a.name = \"cat\"\n"+
		"    print(a.speak())\n")

	_, errs := analyze(t, dir, entry)
	assert.Empty(t, errs)
}

func TestGenericInheritanceSubstitutesFieldType(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Box<T>\n"+
		"    item: T\n"+
		"    fn get() T\n"+
		"        return self.item\n"+
		"class IntBox : Box<int>\n"+
		"fn main()\n"+
		"    b: IntBox = IntBox()\n"+
		"    b.item = 42\n"+
		"    print(b.get())\n")

	_, errs := analyze(t, dir, entry)
	assert.Empty(t, errs)
}

func TestCyclicInheritanceReportedOnce(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", "class X : Y\nclass Y : X\n")

	_, errs := analyze(t, dir, entry)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrA010CyclicInheritance, errs[0].Code)
}

func TestMissingAbstractImplementationReported(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Shape\n"+
		"    fn area() float\n"+
		"class Circle : Shape\n"+
		"    radius: float\n")

	_, errs := analyze(t, dir, entry)
	require.NotEmpty(t, errs)
	assert.Contains(t, codes(errs), string(diagnostics.ErrA014MissingAbstractImpl))
}

func TestMethodOverrideWiderParamAccepted(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class A\n"+
		"class B : A\n"+
		"class P\n"+
		"    fn take(x: B)\n"+
		"        return\n"+
		"class C : P\n"+
		"    fn take(x: A)\n"+
		"        return\n")

	_, errs := analyze(t, dir, entry)
	assert.NotContains(t, codes(errs), string(diagnostics.ErrA015MethodOverrideMismatch))
}

func TestMethodOverrideContravarianceViolationRejectsNarrowerParam(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class A\n"+
		"class B : A\n"+
		"class P\n"+
		"    fn take(x: A)\n"+
		"        return\n"+
		"class C : P\n"+
		"    fn take(x: B)\n"+
		"        return\n")

	_, errs := analyze(t, dir, entry)
	assert.Contains(t, codes(errs), string(diagnostics.ErrA015MethodOverrideMismatch))
}

func TestGenericFunctionCallRequiresExplicitTypeArgs(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn identity<T>(x: T) T\n"+
		"    return x\n"+
		"fn main()\n"+
		"    y: int = identity<int>(5)\n"+
		"    print(y)\n")

	_, errs := analyze(t, dir, entry)
	assert.Empty(t, errs)
}

func TestForRangeAndControlFlowTypeChecks(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    total: int = 0\n"+
		"    for i in 0..5\n"+
		"        if i == 3\n"+
		"            continue\n"+
		"        total = total + i\n"+
		"    print(total)\n")

	_, errs := analyze(t, dir, entry)
	assert.Empty(t, errs)
}

func TestBreakOutsideLoopReported(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", "fn main()\n    break\n")

	_, errs := analyze(t, dir, entry)
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrA031LoopControlOutsideLoop, errs[0].Code)
}

func TestInvalidCastReported(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class A\n"+
		"fn main()\n"+
		"    x: int = 1\n"+
		"    y: A = x as A\n")

	_, errs := analyze(t, dir, entry)
	assert.Contains(t, codes(errs), string(diagnostics.ErrA030InvalidCast))
}

func TestArrayLiteralElementTypeMismatchReported(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    xs: [int] = [1, 2, \"three\"]\n")

	_, errs := analyze(t, dir, entry)
	assert.Contains(t, codes(errs), string(diagnostics.ErrA017ArrayElementTypeMismatch))
}
