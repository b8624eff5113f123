// Package driver composes the phases of spec.md §4.8's "Entry" sequence
// for a single file: analyze (parse + collect + resolve + check) and, if
// that reports no diagnostics, evaluate. It is the Go analogue of the
// teacher's internal/pipeline.Pipeline, simplified to the two macro-phases
// this language actually has — see DESIGN.md's "Driver" section for why
// the teacher's generic Processor/PipelineContext abstraction wasn't
// carried over verbatim.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/softfault/loom/internal/analyzer"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/eval"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/langctx"
	"github.com/softfault/loom/internal/source"
)

// Result is what one entry-file run produced: the analyzed module (always
// set once analysis completes, even when diagnostics were reported, so a
// caller can still inspect e.g. Diagnostics against mod.Path), any
// analyzer diagnostics, and the evaluator's terminal runtime error, if
// execution was attempted and failed.
type Result struct {
	Context     *langctx.Context
	Module      *langctx.ModuleInfo
	Diagnostics []*diagnostics.DiagnosticError
	LoadErr     error // set if entryPath itself couldn't be read/resolved
	Value       eval.Value
	RuntimeErr  *eval.RuntimeError
}

// Run analyzes entryPath rooted at rootDir and, if analysis reports no
// diagnostics, evaluates its main module (spec.md §4.8). stdout receives
// whatever the program prints via the evaluator's built-in `print`.
// Evaluation is skipped when Diagnostics is non-empty, matching spec.md
// §7's "a file with any analyzer diagnostic is never evaluated."
func Run(rootDir, entryPath string, stdout io.Writer) *Result {
	ctx := langctx.New(rootDir, interner.New(), source.NewManager())
	mod, errs, err := analyzer.AnalyzeFile(ctx, entryPath)
	if err != nil {
		return &Result{Context: ctx, LoadErr: err}
	}
	res := &Result{Context: ctx, Module: mod, Diagnostics: errs}
	if len(errs) > 0 {
		return res
	}

	e := eval.New(ctx)
	e.Out = stdout
	res.Value, res.RuntimeErr = e.Run(mod.FileId)
	return res
}

// ExitCode mirrors spec.md §4.8's "process exit status": 0 on a clean run,
// 1 if any analyzer diagnostic was reported, 2 if analysis was clean but
// the evaluator terminated with a runtime error.
func (r *Result) ExitCode() int {
	switch {
	case r.LoadErr != nil, len(r.Diagnostics) > 0:
		return 1
	case r.RuntimeErr != nil:
		return 2
	default:
		return 0
	}
}

// Report writes a human-readable rendering of r's diagnostics and/or
// runtime error to w, caret-style via diagnostics.Format, ANSI-colored
// when w is a terminal (checked with go-isatty rather than assumed, since
// Report is also used against file/buffer writers in tests).
func Report(w io.Writer, r *Result) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	if r.LoadErr != nil {
		fmt.Fprint(w, colorize(color, fmt.Sprintf("Error: %s\n", r.LoadErr), ansiRed))
		return
	}
	for _, e := range r.Diagnostics {
		fmt.Fprint(w, colorize(color, diagnostics.Format(e, r.Context.Sources), ansiRed))
	}
	if r.RuntimeErr != nil {
		msg := fmt.Sprintf("Error: runtime error [%s]: %s\n", r.RuntimeErr.Kind, r.RuntimeErr.Message)
		fmt.Fprint(w, colorize(color, msg, ansiYellow))
	}
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func colorize(enabled bool, s, code string) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}
