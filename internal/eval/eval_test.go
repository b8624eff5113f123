package eval_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softfault/loom/internal/analyzer"
	"github.com/softfault/loom/internal/eval"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/langctx"
	"github.com/softfault/loom/internal/source"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

// run analyzes the given entry file (which must be error-free) and runs
// it, returning stdout and the evaluator's terminal runtime error, if any.
func run(t *testing.T, dir, entry string) (string, *eval.RuntimeError) {
	t.Helper()
	ctx := langctx.New(dir, interner.New(), source.NewManager())
	mod, errs, err := analyzer.AnalyzeFile(ctx, entry)
	require.NoError(t, err)
	require.Empty(t, errs, "fixture must analyze cleanly")

	var out bytes.Buffer
	e := eval.New(ctx)
	e.Out = &out
	_, rerr := e.Run(mod.FileId)
	return out.String(), rerr
}

func TestSimpleClassInstantiationAndMethodCall(t *testing.T) {
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

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "7\n", out)
}

func TestConstructorRunsFieldInitializersAndInit(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Counter\n"+
		"    count: int = 0\n"+
		"    fn init(start: int)\n"+
		"        self.count = start\n"+
		"    fn bump() int\n"+
		"        self.count = self.count + 1\n"+
		"        return self.count\n"+
		"fn main()\n"+
		"    c: Counter = Counter(10)\n"+
		"    print(c.bump())\n"+
		"    print(c.bump())\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "11\n12\n", out)
}

func TestFieldInitializerEvaluatesInDefiningModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.loom", ""+
		"version: int = 9\n"+
		"class Widget\n"+
		"    tag: int = version\n")
	entry := writeFile(t, dir, "main.loom", ""+
		"use .lib as lib\n"+
		"version: int = 1\n"+
		"fn main()\n"+
		"    w: lib.Widget = lib.Widget()\n"+
		"    print(w.tag)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	// The inherited-in-spirit default must read lib's own `version`
	// global (9), not main's same-named one (1), because the field
	// initializer runs against its own declaring module's environment.
	assert.Equal(t, "9\n", out)
}

func TestInheritedMethodDispatch(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Animal\n"+
		"    fn speak() str\n"+
		"        return \"...\"\n"+
		"class Dog : Animal\n"+
		"    fn bark() str\n"+
		"        return \"woof\"\n"+
		"fn main()\n"+
		"    d: Dog = Dog()\n"+
		"    print(d.speak())\n"+
		"    print(d.bark())\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "...\nwoof\n", out)
}

func TestForOverArraySnapshotsAtLoopEntry(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    xs: [int] = [1, 2, 3]\n"+
		"    total: int = 0\n"+
		"    for x in xs\n"+
		"        total = total + x\n"+
		"        xs.push(100)\n"+
		"    print(total)\n"+
		"    print(xs.len())\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	// the snapshot taken at loop entry means in-loop pushes never extend
	// the iteration itself, even though they do extend the live array.
	assert.Equal(t, "6\n6\n", out)
}

func TestForOverRangeIsInclusiveLowExclusiveHigh(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    total: int = 0\n"+
		"    for i in 0..5\n"+
		"        total = total + i\n"+
		"    print(total)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "10\n", out)
}

func TestBreakExitsLoopEarly(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    total: int = 0\n"+
		"    for i in 0..10\n"+
		"        if i == 3\n"+
		"            break\n"+
		"        total = total + i\n"+
		"    print(total)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "3\n", out)
}

func TestContinueSkipsRestOfIteration(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    total: int = 0\n"+
		"    for i in 0..5\n"+
		"        if i == 2\n"+
		"            continue\n"+
		"        total = total + i\n"+
		"    print(total)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "8\n", out)
}

func TestRuntimeCastTruncatesFloatToInt(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    f: float = 3.9\n"+
		"    print(f as int)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "3\n", out)
}

func TestRuntimeCastUpcastOnInstanceSucceeds(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"class Animal\n"+
		"class Dog : Animal\n"+
		"fn main()\n"+
		"    d: Dog = Dog()\n"+
		"    a: Animal = d as Animal\n"+
		"    print(a as Dog == d)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "true\n", out)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    x: int = 1\n"+
		"    y: int = 0\n"+
		"    print(x / y)\n")

	_, rerr := run(t, dir, entry)
	require.NotNil(t, rerr)
	assert.Equal(t, eval.ErrDivisionByZero, rerr.Kind)
}

func TestArrayIndexOutOfBoundsIsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    xs: [int] = [1, 2]\n"+
		"    print(xs[5])\n")

	_, rerr := run(t, dir, entry)
	require.NotNil(t, rerr)
	assert.Equal(t, eval.ErrIndexOutOfBounds, rerr.Kind)
}

func TestStringConcatenationStringifiesOtherOperand(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn main()\n"+
		"    n: int = 5\n"+
		"    print(\"n=\" + n)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "n=5\n", out)
}

func TestLogicalAndShortCircuits(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.loom", ""+
		"fn touch() bool\n"+
		"    print(\"touched\")\n"+
		"    return true\n"+
		"fn main()\n"+
		"    ok: bool = false and touch()\n"+
		"    print(ok)\n")

	out, rerr := run(t, dir, entry)
	require.Nil(t, rerr)
	assert.Equal(t, "false\n", out)
}
