package parser

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/diagnostics"
	"github.com/softfault/loom/internal/token"
)

// parseExpression is the Pratt core (spec.md §4.5), grounded on
// funvibe-funxy/internal/parser/expressions_core.go's parseExpression.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxRecursionDepth {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP006InvalidExpression, p.file, p.curToken, "expression too deeply nested"))
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()

	// if/while/for carry their own indented body through to its closing
	// DEDENT (possibly landing curToken on the token that starts the next
	// statement entirely); they never combine with a following infix or
	// postfix operator, so the Pratt loop below must not try.
	switch left.(type) {
	case *ast.IfExpr, *ast.WhileExpr, *ast.ForExpr:
		return left
	}

	for !p.peekTokenIs(token.NEWLINE) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken
	return &ast.Identifier{Base: p.factory.BaseAt(p.span(tok)), Name: p.intern(tok.Lexeme)}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curToken
	v, ok := tok.Literal.(int64)
	if !ok {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP004InvalidLiteral, p.file, tok, "invalid integer literal"))
	}
	return &ast.IntLit{Base: p.factory.BaseAt(p.span(tok)), Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, _ := tok.Literal.(float64)
	return &ast.FloatLit{Base: p.factory.BaseAt(p.span(tok)), Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken
	return &ast.StringLit{Base: p.factory.BaseAt(p.span(tok)), Value: tok.Literal.(string)}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	tok := p.curToken
	r, _ := tok.Literal.(rune)
	return &ast.CharLit{Base: p.factory.BaseAt(p.span(tok)), Value: r}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.curToken
	return &ast.BoolLit{Base: p.factory.BaseAt(p.span(tok)), Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	tok := p.curToken
	return &ast.NilLit{Base: p.factory.BaseAt(p.span(tok))}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	p.nextToken()
	right := p.parseExpression(PREFIX_PREC)
	return &ast.UnaryExpr{Base: p.factory.BaseAt(p.span(tok)), Op: op, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Base: p.factory.BaseAt(p.span(tok)), Op: op, Left: left, Right: right}
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	high := p.parseExpression(RANGE_PREC)
	return &ast.RangeExpr{Base: p.factory.BaseAt(p.span(tok)), Low: left, High: high}
}

func (p *Parser) parseCastExpression(left ast.Expression) ast.Expression {
	tok := p.curToken // the 'as' token
	p.nextToken()
	ty := p.parseTypeExpr()
	return &ast.CastExpr{Base: p.factory.BaseAt(p.span(tok)), Value: left, Type: ty}
}

func (p *Parser) parseFieldAccess(left ast.Expression) ast.Expression {
	tok := p.curToken // '.'
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.intern(p.curToken.Lexeme)
	return &ast.FieldAccess{Base: p.factory.BaseAt(p.span(tok)), Target: left, Name: name}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken // '['
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpr{Base: p.factory.BaseAt(p.span(tok)), Target: left, Index: idx}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken // '('
	args := p.parseExpressionList(token.RPAREN)
	return &ast.CallExpr{Base: p.factory.BaseAt(p.span(tok)), Callee: callee, Args: args}
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// parseLtOrGenericCall implements spec.md §4.5's `<` disambiguation: on
// `ident<...>(` where the interior looks like a comma-separated type list
// and a matching `>` precedes a `(`, parse a generic call; otherwise fall
// back to ordinary `<` comparison.
func (p *Parser) parseLtOrGenericCall(left ast.Expression) ast.Expression {
	if _, ok := left.(*ast.Identifier); ok && p.looksLikeGenericArgs() {
		tok := p.curToken // '<'
		var genArgs []*ast.TypeExpr
		p.nextToken()
		genArgs = append(genArgs, p.parseTypeExpr())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			genArgs = append(genArgs, p.parseTypeExpr())
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		args := p.parseExpressionList(token.RPAREN)
		return &ast.CallExpr{Base: p.factory.BaseAt(p.span(tok)), Callee: left, GenericArgs: genArgs, Args: args}
	}
	return p.parseInfixExpression(left)
}

// looksLikeGenericArgs performs the bounded lookahead scan: from the
// current `<`, walk tokens that can plausibly appear in a type list
// (identifiers, commas, nested `<`/`>`, dots) until a `>` is found that is
// immediately followed by `(`. Any token that cannot appear in a type
// (a literal, most operators) aborts the scan early.
func (p *Parser) looksLikeGenericArgs() bool {
	depth := 0
	for i := 0; i < 64; i++ {
		tok := p.stream.Peek(i)
		switch tok.Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				next := p.stream.Peek(i + 1)
				return next.Type == token.LPAREN
			}
		case token.IDENT, token.COMMA, token.DOT, token.LBRACKET, token.RBRACKET:
			// plausible inside a type argument list
		case token.EOF, token.NEWLINE:
			return false
		default:
			return false
		}
	}
	return false
}

func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken // '('
	p.nextToken()
	if p.curTokenIs(token.RPAREN) {
		return &ast.TupleLit{Base: p.factory.BaseAt(p.span(tok))}
	}
	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.TupleLit{Base: p.factory.BaseAt(p.span(tok)), Elements: elems}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken // '['
	elems := p.parseExpressionList(token.RBRACKET)
	return &ast.ArrayLit{Base: p.factory.BaseAt(p.span(tok)), Elements: elems}
}

func (p *Parser) parseAssignExpression(target ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.AssignExpr{Base: p.factory.BaseAt(p.span(tok)), Target: target, Op: op, Value: value}
}

func (p *Parser) parseReturnExpression() ast.Expression {
	tok := p.curToken
	var val ast.Expression
	if !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.EOF) && !p.peekTokenIs(token.DEDENT) {
		p.nextToken()
		val = p.parseExpression(LOWEST)
	}
	return &ast.ReturnExpr{Base: p.factory.BaseAt(p.span(tok)), Value: val}
}

func (p *Parser) parseBreakExpression() ast.Expression {
	return &ast.BreakExpr{Base: p.factory.BaseAt(p.span(p.curToken))}
}

func (p *Parser) parseContinueExpression() ast.Expression {
	return &ast.ContinueExpr{Base: p.factory.BaseAt(p.span(p.curToken))}
}
