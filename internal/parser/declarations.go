package parser

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/interner"
	"github.com/softfault/loom/internal/token"
)

// parseItem dispatches a top-level declaration: Use, class, function, or a
// module-global field (spec.md §4.5 "Top-level").
func (p *Parser) parseItem() ast.Item {
	switch p.curToken.Type {
	case token.USE:
		return p.parseUseDecl()
	case token.CLASS:
		return p.parseTableDecl()
	case token.FN:
		return p.parseMethodDecl()
	case token.IDENT:
		if p.peekTokenIs(token.COLON) {
			return p.parseFieldDecl()
		}
	}
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001UnexpectedToken, p.file, p.curToken, "expected a use, class, function, or field declaration"))
	return nil
}

// parseUseDecl parses `use (./../)? segment (. segment)* (as alias)?`.
func (p *Parser) parseUseDecl() *ast.UseDecl {
	tok := p.curToken // 'use'
	u := &ast.UseDecl{Anchor: ast.AnchorRoot}

	p.nextToken()
	if p.curTokenIs(token.DOT) {
		u.Anchor = ast.AnchorCurrent
		p.nextToken()
	} else if p.curTokenIs(token.DOT_DOT) {
		u.Anchor = ast.AnchorParent
		p.nextToken()
	}

	if !p.curTokenIs(token.IDENT) {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001UnexpectedToken, p.file, p.curToken, "expected a module path segment"))
		return nil
	}
	u.Segments = append(u.Segments, p.intern(p.curToken.Lexeme))
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		u.Segments = append(u.Segments, p.intern(p.curToken.Lexeme))
	}

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		u.Alias = p.intern(p.curToken.Lexeme)
		u.HasAlias = true
	}

	u.Base = p.factory.BaseAt(p.span(tok))
	p.expectStatementEnd()
	return u
}

// parseGenericParamList parses `<G1, G2, ...>` after a class/function/method
// name, detecting duplicate parameter names (spec.md §4.6.1).
func (p *Parser) parseGenericParamList() []interner.Symbol {
	if !p.peekTokenIs(token.LT) {
		return nil
	}
	p.nextToken() // '<'
	var params []interner.Symbol
	seen := make(map[interner.Symbol]bool)
	p.nextToken()
	for {
		if !p.curTokenIs(token.IDENT) {
			break
		}
		sym := p.intern(p.curToken.Lexeme)
		if seen[sym] {
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrA029GenericShadowing, p.file, p.curToken, "duplicate generic parameter name"))
		}
		seen[sym] = true
		params = append(params, sym)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.GT)
	return params
}

// parseTableDecl parses `class Name<G...> : Parent` followed by an
// indented body of fields and methods (spec.md §4.5 "Class").
func (p *Parser) parseTableDecl() *ast.TableDecl {
	tok := p.curToken // 'class'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl := &ast.TableDecl{Name: p.intern(p.curToken.Lexeme)}
	decl.GenericParams = p.parseGenericParamList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		decl.Parent = p.parseTypeExpr()
	}

	if !p.expectPeek(token.NEWLINE) {
		return nil
	}
	if !p.expectPeek(token.INDENT) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		switch {
		case p.curTokenIs(token.FN):
			if m := p.parseMethodDecl(); m != nil {
				decl.Methods = append(decl.Methods, m)
			}
		case p.curTokenIs(token.IDENT):
			if f := p.parseFieldDecl(); f != nil {
				decl.Fields = append(decl.Fields, f)
			}
		default:
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP001UnexpectedToken, p.file, p.curToken, "expected a field or method declaration"))
			p.nextToken()
		}
	}
	decl.Base = p.factory.BaseAt(p.span(tok))
	if p.curTokenIs(token.DEDENT) {
		p.nextToken()
	}
	return decl
}

// parseFieldDecl parses `name (: Type)? (= Expr)?`; at least one of Type
// or Init must be present (spec.md §4.5 "Class" field rule).
func (p *Parser) parseFieldDecl() *ast.FieldDecl {
	tok := p.curToken
	name := p.intern(p.curToken.Lexeme)
	f := &ast.FieldDecl{Name: name}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		f.Type = p.parseTypeExpr()
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		f.Init = p.parseExpression(LOWEST)
	}
	if f.Type == nil && f.Init == nil {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001UnexpectedToken, p.file, tok, "field needs a declared type, an initializer, or both"))
	}
	f.Base = p.factory.BaseAt(p.span(tok))
	p.expectStatementEnd()
	return f
}

// parseMethodDecl parses `fn name<G...>(params) ReturnType? Body`, where
// Body is `=> expr`, an indented block, or absent (abstract method).
func (p *Parser) parseMethodDecl() *ast.MethodDecl {
	tok := p.curToken // 'fn'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	m := &ast.MethodDecl{Name: p.intern(p.curToken.Lexeme)}
	m.GenericParams = p.parseGenericParamList()

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RPAREN) {
		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.SELF) {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001UnexpectedToken, p.file, p.curToken, "expected a parameter name"))
			break
		}
		// `self` carries no declared type; the analyzer binds it to the
		// enclosing class.
		param := ast.Param{Name: p.intern(p.curToken.Lexeme)}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeExpr()
		}
		m.Params = append(m.Params, param)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	if !p.curTokenIs(token.RPAREN) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.ARROW) {
		p.nextToken()
		m.ReturnType = p.parseTypeExpr()
	}

	switch {
	case p.peekTokenIs(token.ARROW):
		p.nextToken() // '=>'
		p.nextToken()
		bodyTok := p.curToken
		expr := p.parseExpression(LOWEST)
		m.Body = &ast.BlockExpr{Base: p.factory.BaseAt(p.span(bodyTok)), Statements: []ast.Statement{p.wrapStatement(expr)}}
		p.expectStatementEnd()
	case p.peekTokenIs(token.NEWLINE) && p.stream.Peek(2).Type == token.INDENT:
		p.nextToken() // newline
		p.nextToken() // indent
		m.Body = p.parseBlockBody()
	default:
		// Abstract: no body. Still consume the trailing newline.
		p.expectStatementEnd()
	}

	m.Base = p.factory.BaseAt(p.span(tok))
	return m
}

// wrapStatement adapts an Expression to Statement for block bodies built
// from constructs (like `=> expr`) that don't already implement
// statementNode().
func (p *Parser) wrapStatement(e ast.Expression) ast.Statement {
	if s, ok := e.(ast.Statement); ok {
		return s
	}
	if e == nil {
		return nil
	}
	return &ast.ExprStatement{Base: p.factory.BaseAt(e.Span()), X: e}
}
