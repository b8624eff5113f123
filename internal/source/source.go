// Package source owns the text of every loaded file, assigns each a stable
// id, and maps byte offsets to human-readable (line, column, line text)
// locations for diagnostics.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileId is an opaque id assigned by a Manager on first load of a canonical
// path. Builtin names the synthetic file hosting built-in symbols.
type FileId int32

// Builtin is the distinguished FileId for symbols with no real source file
// (the built-in environment: print, array/string intrinsics, ...).
const Builtin FileId = 0

// Span is a half-open byte range [Start, End) within exactly one file. A
// Span is only meaningful alongside the FileId it was produced against.
type Span struct {
	Start, End int
}

// Join returns the smallest Span covering both a and b.
func Join(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Location names a Span inside a specific file, the unit diagnostics and
// the semantic database's def_map operate on.
type Location struct {
	File FileId
	Span Span
}

type file struct {
	path       string
	text       string
	lineStarts []int
}

// Manager is the repository of every file loaded during a run. It is not
// safe to load from multiple goroutines concurrently with resolving
// locations on files still being appended (the pipeline is single
// threaded; the mutex only guards against accidental reuse across tests).
type Manager struct {
	mu      sync.Mutex
	files   []file
	byPath  map[string]FileId
}

// NewManager returns a Manager pre-seeded with the synthetic builtin file
// at FileId 0.
func NewManager() *Manager {
	m := &Manager{byPath: make(map[string]FileId)}
	m.files = append(m.files, file{path: "<builtin>", text: "", lineStarts: []int{0}})
	m.byPath["<builtin>"] = Builtin
	return m
}

// LoadFile reads path from disk, canonicalising it first. Loading the same
// canonical path twice returns the same FileId without re-reading.
func (m *Manager) LoadFile(path string) (FileId, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("source: resolve %q: %w", path, err)
	}
	m.mu.Lock()
	if id, ok := m.byPath[abs]; ok {
		m.mu.Unlock()
		return id, nil
	}
	m.mu.Unlock()

	text, err := os.ReadFile(abs)
	if err != nil {
		return 0, fmt.Errorf("source: read %q: %w", abs, err)
	}
	return m.AddVirtualFile(abs, string(text)), nil
}

// AddVirtualFile registers source text that did not come from disk (an
// in-memory fixture, an LSP buffer, an eval("...") string) under a path
// used only as a diagnostic label. Returns the existing id if that path is
// already loaded.
func (m *Manager) AddVirtualFile(path, text string) FileId {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byPath[path]; ok {
		return id
	}
	id := FileId(len(m.files))
	m.files = append(m.files, file{path: path, text: text, lineStarts: computeLineStarts(text)})
	m.byPath[path] = id
	return id
}

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Text returns the full text of a loaded file.
func (m *Manager) Text(id FileId) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[id].text
}

// Path returns the canonical path (or virtual label) of a loaded file.
func (m *Manager) Path(id FileId) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[id].path
}

// LineCol is a 1-based (line, column) pair plus the full text of that line
// (without its trailing newline), used to render caret diagnostics.
type LineCol struct {
	Line, Column int
	LineText     string
}

// LookupLocation maps a byte offset within id to a line/column/line-text
// triple via binary search over the precomputed line starts.
func (m *Manager) LookupLocation(id FileId, offset int) LineCol {
	m.mu.Lock()
	f := m.files[id]
	m.mu.Unlock()

	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	lineStart := f.lineStarts[line]
	lineEnd := len(f.text)
	if line+1 < len(f.lineStarts) {
		lineEnd = f.lineStarts[line+1] - 1
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	if lineEnd > len(f.text) {
		lineEnd = len(f.text)
	}
	return LineCol{
		Line:     line + 1,
		Column:   offset - lineStart + 1,
		LineText: f.text[lineStart:lineEnd],
	}
}

// OffsetAt inverts LookupLocation: given a 1-based line and column, returns
// the byte offset, or false if out of range. Used by LSP-style consumers
// translating cursor positions back into spans.
func (m *Manager) OffsetAt(id FileId, line, col int) (int, bool) {
	m.mu.Lock()
	f := m.files[id]
	m.mu.Unlock()

	if line < 1 || line > len(f.lineStarts) {
		return 0, false
	}
	start := f.lineStarts[line-1]
	offset := start + col - 1
	if offset < 0 || offset > len(f.text) {
		return 0, false
	}
	return offset, true
}
