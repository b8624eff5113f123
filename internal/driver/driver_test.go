package driver_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/softfault/loom/internal/driver"
)

// writeArchive materializes a txtar archive's files under a fresh temp
// directory and returns the directory plus the path of the entry file:
// the archive's Comment (the text before the first file, trimmed) is the
// entry file's relative path.
func writeArchive(t *testing.T, data string) (dir, entry string) {
	t.Helper()
	a := txtar.Parse([]byte(data))
	dir = t.TempDir()
	for _, f := range a.Files {
		p := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}
	comment := bytes.TrimSpace(a.Comment)
	require.NotEmpty(t, comment, "archive must name its entry file in the comment")
	entry = filepath.Join(dir, string(bytes.TrimSpace(comment)))
	return dir, entry
}

// S1: a plain class with fields and a method (spec.md §8).
const s1 = `main.loom

-- main.loom --
class Point
    x: int
    y: int
    fn sum() int
        return self.x + self.y
fn main()
    p: Point = Point()
    p.x = 3
    p.y = 4
    print(p.sum())
`

// S2: cross-module use with an alias (spec.md §8).
const s2 = `main.loom

-- lib.loom --
class Animal
    name: str
    fn speak() str
        return self.name
-- main.loom --
use .lib as zoo
fn main()
    a: zoo.Animal = zoo.Animal()
    a.name = "cat"
    print(a.speak())
`

// S3: generic inheritance with a concrete type argument (spec.md §8).
const s3 = `main.loom

-- main.loom --
class Box<T>
    item: T
    fn get() T
        return self.item
class IntBox : Box<int>
fn main()
    b: IntBox = IntBox()
    b.item = 42
    print(b.get())
`

// S6: for/range with continue (spec.md §8).
const s6 = `main.loom

-- main.loom --
fn main()
    total: int = 0
    for i in 0..5
        if i == 3
            continue
        total = total + i
    print(total)
`

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"S1_FieldsAndMethod", s1, "7\n"},
		{"S2_CrossModuleUse", s2, "cat\n"},
		{"S3_GenericInheritance", s3, "42\n"},
		{"S6_ForRangeContinue", s6, "7\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir, entry := writeArchive(t, tc.data)

			var out bytes.Buffer
			res := driver.Run(dir, entry, &out)

			require.NoError(t, res.LoadErr)
			require.Empty(t, res.Diagnostics)
			require.Nil(t, res.RuntimeErr)
			assert.Equal(t, 0, res.ExitCode())
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestRunStopsAtDiagnosticsWithoutEvaluating(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.loom")
	require.NoError(t, os.WriteFile(entry, []byte("class X : Y\nclass Y : X\n"), 0o644))

	var out bytes.Buffer
	res := driver.Run(dir, entry, &out)

	require.NoError(t, res.LoadErr)
	require.Len(t, res.Diagnostics, 1)
	assert.Nil(t, res.RuntimeErr)
	assert.Equal(t, 1, res.ExitCode())
	assert.Empty(t, out.String())
}

func TestRunReportsTerminalRuntimeError(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.loom")
	require.NoError(t, os.WriteFile(entry, []byte(""+
		"fn main()\n"+
		"    x: int = 1\n"+
		"    y: int = 0\n"+
		"    print(x / y)\n"), 0o644))

	var out bytes.Buffer
	res := driver.Run(dir, entry, &out)

	require.NoError(t, res.LoadErr)
	require.Empty(t, res.Diagnostics)
	require.NotNil(t, res.RuntimeErr)
	assert.Equal(t, 2, res.ExitCode())

	var report bytes.Buffer
	driver.Report(&report, res)
	assert.Contains(t, report.String(), "division_by_zero")
}
