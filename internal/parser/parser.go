// Package parser turns a token stream into an AST: Pratt parsing for
// expressions, recursive descent for top-level declarations (spec.md
// §4.5). Grounded on funvibe-funxy/internal/parser's prefix/infix
// parse-function-table design (parser/expressions_core.go's
// parseExpression(precedence)) and its diagnostic-collecting,
// synchronize-on-error recovery strategy.
package parser

import (
	"fmt"

	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/lexer"
	"github.com/softfault/loom/internal/source"
	"github.com/softfault/loom/internal/token"
)

// Precedence levels, low to high (spec.md §4.5).
const (
	_ int = iota
	LOWEST
	ASSIGN_PREC  // = += -= *= /= %=
	OR_PREC      // or
	AND_PREC     // and
	COMPARE_PREC // == != < <= > >=
	ADD_PREC     // + -
	MUL_PREC     // * / %
	RANGE_PREC   // ..
	CAST_PREC    // as
	POSTFIX_PREC // () [] .
	PREFIX_PREC  // - ! (unary)
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGN_PREC, token.PLUS_ASSIGN: ASSIGN_PREC, token.MINUS_ASSIGN: ASSIGN_PREC,
	token.STAR_ASSIGN: ASSIGN_PREC, token.SLASH_ASSIGN: ASSIGN_PREC, token.PERCENT_ASSIGN: ASSIGN_PREC,
	token.OR: OR_PREC,
	token.AND: AND_PREC,
	token.EQ: COMPARE_PREC, token.NOT_EQ: COMPARE_PREC, token.LT: COMPARE_PREC,
	token.LE: COMPARE_PREC, token.GT: COMPARE_PREC, token.GE: COMPARE_PREC,
	token.PLUS: ADD_PREC, token.MINUS: ADD_PREC,
	token.STAR: MUL_PREC, token.SLASH: MUL_PREC, token.PERCENT: MUL_PREC,
	token.DOT_DOT: RANGE_PREC,
	token.LPAREN: POSTFIX_PREC, token.LBRACKET: POSTFIX_PREC, token.DOT: POSTFIX_PREC,
}

// "as" is a contextual keyword-operator (cast), handled alongside AS token.
const asPrecedence = CAST_PREC

const maxRecursionDepth = 250

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a lexer.Stream and produces a *ast.Program, collecting
// diagnostics rather than aborting on the first error (spec.md §4.5,
// §7's "diagnostic-collecting" policy).
type Parser struct {
	stream *lexer.Stream
	file   source.FileId
	interner *interner.Interner
	factory  *ast.Factory

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
	depth  int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New returns a Parser over src, tagged with file for diagnostics.
func New(src string, file source.FileId, in *interner.Interner) *Parser {
	stream, lexErrs := lexer.NewStream(src)
	p := &Parser{
		stream:   stream,
		file:     file,
		interner: in,
		factory:  ast.NewFactory(),
	}
	for _, e := range lexErrs {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP004InvalidLiteral, file, p.curToken, e))
	}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.CHAR:     p.parseCharLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NIL_KW:   p.parseNilLiteral,
		token.SELF:     p.parseIdentifier,
		token.MINUS:    p.parsePrefixExpression,
		token.BANG:     p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedOrTuple,
		token.LBRACKET: p.parseArrayLiteral,
		token.IF:       p.parseIfExpression,
		token.WHILE:    p.parseWhileExpression,
		token.FOR:      p.parseForExpression,
		token.RETURN:   p.parseReturnExpression,
		token.BREAK:    p.parseBreakExpression,
		token.CONTINUE: p.parseContinueExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS: p.parseInfixExpression, token.MINUS: p.parseInfixExpression,
		token.STAR: p.parseInfixExpression, token.SLASH: p.parseInfixExpression,
		token.PERCENT: p.parseInfixExpression,
		token.EQ: p.parseInfixExpression, token.NOT_EQ: p.parseInfixExpression,
		token.LT: p.parseLtOrGenericCall, token.GT: p.parseInfixExpression,
		token.LE: p.parseInfixExpression, token.GE: p.parseInfixExpression,
		token.AND: p.parseInfixExpression, token.OR: p.parseInfixExpression,
		token.DOT_DOT: p.parseRangeExpression,
		token.LPAREN:  p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:     p.parseFieldAccess,
		token.ASSIGN:  p.parseAssignExpression,
		token.PLUS_ASSIGN: p.parseAssignExpression, token.MINUS_ASSIGN: p.parseAssignExpression,
		token.STAR_ASSIGN: p.parseAssignExpression, token.SLASH_ASSIGN: p.parseAssignExpression,
		token.PERCENT_ASSIGN: p.parseAssignExpression,
		token.AS:      p.parseCastExpression,
	}

	p.curToken = p.stream.Peek(0)
	p.peekToken = p.stream.Peek(1)
	return p
}

// nextToken advances the cursor one token and refreshes cur/peek from the
// stream (lexer.Stream.Peek(n) is relative to its own cursor, so advancing
// the stream then re-peeking keeps the two views in lockstep).
func (p *Parser) nextToken() {
	p.stream.Advance()
	p.curToken = p.stream.Peek(0)
	p.peekToken = p.stream.Peek(1)
}

// Errors returns every diagnostic collected during this parse.
func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP002ExpectedToken, p.file, p.peekToken,
		fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type),
	))
}

func (p *Parser) noPrefixParseFnError(t token.Type) {
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP005NoPrefixParseFn, p.file, p.curToken,
		fmt.Sprintf("no prefix parse function for %s found", t),
	))
}

func (p *Parser) peekPrecedence() int {
	if p.peekTokenIs(token.AS) {
		return asPrecedence
	}
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p.curTokenIs(token.AS) {
		return asPrecedence
	}
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) span(start token.Token) source.Span {
	return source.Span{Start: start.Start, End: p.stream.LastAdvanced().End}
}

// intern is a small convenience wrapper so parser production code reads
// `p.intern(tok.Lexeme)` instead of threading the interner explicitly.
func (p *Parser) intern(s string) interner.Symbol { return p.interner.Intern(s) }

// ParseProgram parses an entire file to a Program, synchronizing past
// errors so a single bad declaration doesn't abort the whole file
// (spec.md §4.5's error recovery policy).
func ParseProgram(src string, file source.FileId, in *interner.Interner) (*ast.Program, []*diagnostics.DiagnosticError) {
	p := New(src, file, in)
	prog := &ast.Program{File: file}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		} else {
			p.synchronize()
		}
	}
	return prog, p.errors
}

// synchronize advances past tokens until the next item-starting keyword,
// so subsequent top-level declarations can still be parsed and checked
// after a syntax error (spec.md §4.5).
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.CLASS, token.FN, token.USE:
			return
		}
		p.nextToken()
	}
}
