// Package diagnostics is the shared error-reporting vocabulary for the
// parser and analyzer: a stable code, the offending token, and a message,
// rendered caret-style (spec.md §6/§7). Grounded on the teacher's
// diagnostics.DiagnosticError / diagnostics.ErrP006-style codes referenced
// from funvibe-funxy/internal/parser/expressions_core.go and
// cmd/lsp/diagnostics.go; the package itself was not present in the
// retrieved pack and is rebuilt here from those call sites.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/token"
)

// Code is a short, stable diagnostic identifier ("P006", "A014", ...).
type Code string

// Parser codes.
const (
	ErrP001UnexpectedToken   Code = "P001"
	ErrP002ExpectedToken     Code = "P002"
	ErrP003BadIndentation    Code = "P003"
	ErrP004InvalidLiteral    Code = "P004"
	ErrP005NoPrefixParseFn   Code = "P005"
	ErrP006InvalidExpression Code = "P006"
	ErrP007BadStatementSep   Code = "P007"
)

// Analyzer codes (spec.md §7's taxonomy).
const (
	ErrA001UndefinedSymbol          Code = "A001"
	ErrA002TypeMismatch             Code = "A002"
	ErrA003ArgumentCountMismatch    Code = "A003"
	ErrA004DuplicateDefinition      Code = "A004"
	ErrA005ModuleNotFound           Code = "A005"
	ErrA006InvalidModulePath        Code = "A006"
	ErrA007CircularDependency       Code = "A007"
	ErrA008FileIOError              Code = "A008"
	ErrA009ModuleParseError         Code = "A009"
	ErrA010CyclicInheritance        Code = "A010"
	ErrA011InvalidParentType        Code = "A011"
	ErrA012GenericArgCountMismatch  Code = "A012"
	ErrA013FieldTypeMismatch        Code = "A013"
	ErrA014MissingAbstractImpl      Code = "A014"
	ErrA015MethodOverrideMismatch   Code = "A015"
	ErrA016ConstraintViolation      Code = "A016"
	ErrA017ArrayElementTypeMismatch Code = "A017"
	ErrA018InvalidUnaryOperand      Code = "A018"
	ErrA019InvalidBinaryOperand     Code = "A019"
	ErrA020InvalidAssignmentTarget  Code = "A020"
	ErrA021InvalidIndexType         Code = "A021"
	ErrA022TypeNotIndexable         Code = "A022"
	ErrA023TypeNotIterable          Code = "A023"
	ErrA024IfBranchIncompatible     Code = "A024"
	ErrA025IfMissingElseNonUnit     Code = "A025"
	ErrA026ConditionNotBool         Code = "A026"
	ErrA027NotCallable              Code = "A027"
	ErrA028ReturnOutsideFunction    Code = "A028"
	ErrA029GenericShadowing         Code = "A029"
	ErrA030InvalidCast              Code = "A030"
	ErrA031LoopControlOutsideLoop   Code = "A031"
)

// DiagnosticError is one reported problem, carrying its originating file
// and the token whose span anchors the message.
type DiagnosticError struct {
	Code    Code
	File    source.FileId
	Token   token.Token
	Message string
}

func NewError(code Code, file source.FileId, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, File: file, Token: tok, Message: message}
}

// NewErrorAtSpan is NewError for callers that only have a source.Span (the
// analyzer's passes walk ast.Node, not tokens); it fabricates a zero-width
// token carrying just that span so Format still has something to render.
func NewErrorAtSpan(code Code, file source.FileId, sp source.Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, File: file, Token: token.Token{Start: sp.Start, End: sp.End}, Message: message}
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format renders a caret-style diagnostic exactly in the shape of spec.md
// §6:
//
//	Error: <message>
//	  --> <path>:<line>:<col>
//	   |
//	10 |     x = "hello"
//	   |     ^^^^^^^^^^^
func Format(e *DiagnosticError, sm *source.Manager) string {
	loc := sm.LookupLocation(e.File, e.Token.Start)
	path := sm.Path(e.File)
	width := e.Token.End - e.Token.Start
	if width < 1 {
		width = 1
	}
	gutter := fmt.Sprintf("%d", loc.Line)
	pad := strings.Repeat(" ", len(gutter))

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Message)
	fmt.Fprintf(&b, "%s--> %s:%d:%d\n", pad, path, loc.Line, loc.Column)
	fmt.Fprintf(&b, "%s |\n", pad)
	fmt.Fprintf(&b, "%s | %s\n", gutter, loc.LineText)
	fmt.Fprintf(&b, "%s | %s%s\n", pad, strings.Repeat(" ", loc.Column-1), strings.Repeat("^", width))
	return b.String()
}
