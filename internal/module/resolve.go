// Package module implements spec.md §4.7's module path resolution: turning
// a `use` declaration's anchor and path segments into a file on disk. It is
// deliberately a leaf package (no dependency on internal/analyzer or
// internal/eval) so both can call it without an import cycle, the same
// role funvibe-funxy/internal/modules plays relative to its analyzer and
// evaluator packages, except that package also owns a load cache;
// spec.md §3.4/§5 puts that cache on Context instead (internal/langctx),
// so this package stays pure path arithmetic.
package module

import (
	"os"
	"path/filepath"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/config"
)

// ResolvePath builds a candidate file path from anchor and segments and
// returns it iff it names an existing regular file. The base directory is
// rootDir for AnchorRoot, currentFileDir for AnchorCurrent, and
// currentFileDir's parent for AnchorParent.
func ResolvePath(anchor ast.UseAnchor, segments []string, rootDir, currentFileDir string) (string, bool) {
	base := rootDir
	switch anchor {
	case ast.AnchorCurrent:
		base = currentFileDir
	case ast.AnchorParent:
		base = filepath.Dir(currentFileDir)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, base)
	parts = append(parts, segments...)
	path := filepath.Join(parts...) + config.SourceFileExt

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
