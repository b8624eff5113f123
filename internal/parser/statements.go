package parser

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/token"
)

// expectStatementEnd advances past the token that must follow a statement:
// a NEWLINE, a DEDENT, or EOF (spec.md §4.5's statement-separation policy).
// It always moves curToken onto that separator so the enclosing block loop
// (which owns deciding what a DEDENT/EOF means for ITS OWN extent) sees it.
func (p *Parser) expectStatementEnd() {
	switch {
	case p.peekTokenIs(token.NEWLINE), p.peekTokenIs(token.DEDENT), p.peekTokenIs(token.EOF):
		p.nextToken()
	default:
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP007BadStatementSep, p.file, p.peekToken, "expected end of statement"))
	}
}

// parseBlockBody consumes statements up to the matching DEDENT, assuming
// curToken is already the first token inside the block (i.e. INDENT has
// just been consumed by the caller). The closing DEDENT itself is consumed
// here too, since it belongs to exactly this block: a line that dedents
// through several nested levels at once produces one DEDENT token per
// level, and each enclosing parseBlockBody call claims exactly one.
func (p *Parser) parseBlockBody() *ast.BlockExpr {
	tok := p.curToken
	block := &ast.BlockExpr{}
	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.nextToken()
		}
	}
	block.Base = p.factory.BaseAt(p.span(tok))
	if p.curTokenIs(token.DEDENT) {
		p.nextToken()
	}
	return block
}

// parseIndentedBlock expects curToken to be NEWLINE followed by INDENT, and
// returns the parsed block with curToken left on whatever follows the
// block's closing DEDENT (already consumed by parseBlockBody).
func (p *Parser) parseIndentedBlock() *ast.BlockExpr {
	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()
	return p.parseBlockBody()
}

// parseStatement parses one statement at block position: a var-def
// (`ident : Type? = Expr?`), or a bare expression statement. Everything
// else (if/while/for/return/break/continue/blocks) is itself an expression
// reached through parseExpression's prefix table.
func (p *Parser) parseStatement() ast.Statement {
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		return p.parseVarDef()
	}
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	// if/while/for already consumed their closing DEDENT(s) while parsing
	// their own nested blocks, leaving curToken exactly where the next
	// statement (or this block's own DEDENT/EOF) begins — no separator to
	// additionally consume. Everything else still ends on its own last
	// real token and needs the ordinary separator check.
	switch expr.(type) {
	case *ast.IfExpr, *ast.WhileExpr, *ast.ForExpr:
	default:
		p.expectStatementEnd()
	}
	if s, ok := expr.(ast.Statement); ok {
		return s
	}
	return &ast.ExprStatement{Base: p.factory.BaseAt(p.span(tok)), X: expr}
}

// parseVarDef parses `name (: Type)? (= Expr)?`, the local counterpart of
// parseFieldDecl (spec.md §4.5's "VarDef" production).
func (p *Parser) parseVarDef() ast.Statement {
	tok := p.curToken
	name := p.intern(p.curToken.Lexeme)
	v := &ast.VarDef{Name: name}

	p.nextToken() // ':'
	if !p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		v.Type = p.parseTypeExpr()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		v.Init = p.parseExpression(LOWEST)
	}
	v.Base = p.factory.BaseAt(p.span(tok))
	p.expectStatementEnd()
	return v
}

// parseIfExpression parses `if Cond` Then (`else` Else)?, where Then/Else
// are indented blocks (spec.md §4.5's "If"). Because Then's own parse
// already consumes through its closing DEDENT, an `else` at the same
// level as `if` appears directly as curToken, not behind a NEWLINE/peek.
func (p *Parser) parseIfExpression() ast.Expression {
	tok := p.curToken // 'if'
	p.nextToken()
	cond := p.parseExpression(LOWEST)

	then := p.parseIndentedBlock()
	if then == nil {
		return nil
	}

	ie := &ast.IfExpr{Cond: cond, Then: then}

	if p.curTokenIs(token.ELSE) {
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			nested := p.parseIfExpression()
			ie.Else = &ast.BlockExpr{Base: p.factory.BaseAt(nested.Span()), Statements: []ast.Statement{p.wrapStatement(nested)}}
		} else {
			ie.Else = p.parseIndentedBlock()
		}
	}

	ie.Base = p.factory.BaseAt(p.span(tok))
	return ie
}

// parseWhileExpression parses `while Cond` followed by an indented block.
func (p *Parser) parseWhileExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	body := p.parseIndentedBlock()
	if body == nil {
		return nil
	}
	return &ast.WhileExpr{Base: p.factory.BaseAt(p.span(tok)), Cond: cond, Body: body}
}

// parseForExpression parses `for name in Iter` followed by an indented
// block (spec.md §4.5's "For").
func (p *Parser) parseForExpression() ast.Expression {
	tok := p.curToken // 'for'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.intern(p.curToken.Lexeme)
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iter := p.parseExpression(LOWEST)
	body := p.parseIndentedBlock()
	if body == nil {
		return nil
	}
	return &ast.ForExpr{Base: p.factory.BaseAt(p.span(tok)), Name: name, Iter: iter, Body: body}
}
