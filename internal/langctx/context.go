// Package langctx is the cross-cutting Context threaded through a whole
// run (spec.md §3.4's ModuleInfo/"Context.modules" and §5's load-stack):
// the interner and source manager (process lifetime), the per-run module
// cache and cycle-detection stack, and the semantic database the analyzer
// writes into and an LSP-style consumer would read from. Grounded on
// funvibe-funxy/internal/modules/module.go's Module cache-by-path idea,
// simplified because this language's `use` is file-to-file rather than
// funxy's directory-package groups (see SPEC_FULL.md's "Module group
// detection" non-carry note).
package langctx

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/symbols"
	"github.com/softfault/loom/internal/types"
)

// ModuleInfo is the analyzed record of one loaded file (spec.md §3.4),
// cached for the run's lifetime so a file imported from several places is
// parsed and analyzed exactly once.
type ModuleInfo struct {
	FileId  source.FileId
	Path    string
	Program *ast.Program

	Tables    map[types.TableId]*symbols.TableInfo
	Functions map[interner.Symbol]*symbols.FunctionInfo
	Globals   map[interner.Symbol]*symbols.GlobalVarInfo

	// Imports maps the local alias (or bare last-segment name) a `use`
	// bound to the FileId it resolved to, so the check pass can re-seed a
	// Module(FileId) binding without re-walking the Use declarations.
	Imports map[interner.Symbol]source.FileId
}

// NewModuleInfo returns an empty ModuleInfo ready for the collect pass to
// populate.
func NewModuleInfo(id source.FileId, path string, prog *ast.Program) *ModuleInfo {
	return &ModuleInfo{
		FileId:    id,
		Path:      path,
		Program:   prog,
		Tables:    make(map[types.TableId]*symbols.TableInfo),
		Functions: make(map[interner.Symbol]*symbols.FunctionInfo),
		Globals:   make(map[interner.Symbol]*symbols.GlobalVarInfo),
		Imports:   make(map[interner.Symbol]source.FileId),
	}
}

// SemanticDB is spec.md §4.6.3's "Context.db": every checked expression's
// type and every resolved reference's definition site, powering goto-
// definition/hover without re-analysis.
type SemanticDB struct {
	TypeMap map[ast.NodeId]types.Type
	DefMap  map[ast.NodeId]source.Location
}

func NewSemanticDB() *SemanticDB {
	return &SemanticDB{TypeMap: make(map[ast.NodeId]types.Type), DefMap: make(map[ast.NodeId]source.Location)}
}

// Context is the state shared by the entry analysis and every nested
// module it pulls in via `use`.
type Context struct {
	RootDir  string
	Interner *interner.Interner
	Sources  *source.Manager
	DB       *SemanticDB

	Modules       map[string]*ModuleInfo // canonical path -> module (spec.md §3.4)
	modulesByFile map[source.FileId]*ModuleInfo
	LoadStack     map[string]bool // canonical paths currently being loaded (spec.md §5)

	Errors []*diagnostics.DiagnosticError
}

// New returns a Context rooted at rootDir, ready for AnalyzeFile.
func New(rootDir string, in *interner.Interner, sm *source.Manager) *Context {
	return &Context{
		RootDir:       rootDir,
		Interner:      in,
		Sources:       sm,
		DB:            NewSemanticDB(),
		Modules:       make(map[string]*ModuleInfo),
		modulesByFile: make(map[source.FileId]*ModuleInfo),
		LoadStack:     make(map[string]bool),
	}
}

// Put registers a freshly created ModuleInfo under its canonical path,
// indexing it by FileId too so cross-module type resolution (a TableId
// names a FileId, not a path) doesn't need a second lookup table.
func (c *Context) Put(path string, m *ModuleInfo) {
	c.Modules[path] = m
	c.modulesByFile[m.FileId] = m
}

// ModuleByFile looks up an already-loaded module by FileId.
func (c *Context) ModuleByFile(id source.FileId) (*ModuleInfo, bool) {
	m, ok := c.modulesByFile[id]
	return m, ok
}

// TableInfo looks up a class's flattened info across the whole program,
// regardless of which module defines it.
func (c *Context) TableInfo(id types.TableId) *symbols.TableInfo {
	m, ok := c.modulesByFile[id.File]
	if !ok {
		return nil
	}
	return m.Tables[id]
}

// IsSubclass implements types.SubclassChecker by walking the (already
// flattened, by the time any cross-module parent is consulted) parent
// chain recorded in TableInfo.Parent.
func (c *Context) IsSubclass(child, parent types.TableId) bool {
	seen := make(map[types.TableId]bool)
	cur := child
	for {
		if cur == parent {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true

		info := c.TableInfo(cur)
		if info == nil || info.Parent == nil {
			return false
		}
		switch info.Parent.Kind {
		case types.KTable, types.KGenericInstance:
			cur = info.Parent.Table
		default:
			return false
		}
	}
}
