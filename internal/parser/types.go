package parser

import (
	"github.com/softfault/loom/internal/ast"
	"github.com/softfault/loom/internal/token"
)

// parseTypeExpr parses a type annotation: a bare name, Base<Args...>,
// [Elem], (A, B, ...), module.Member, or fn(Params...) Ret.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	tok := p.curToken

	switch {
	case p.curTokenIs(token.LBRACKET):
		p.nextToken()
		elem := p.parseTypeExpr()
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.TypeExpr{Base: p.factory.BaseAt(p.span(tok)), Array: elem}

	case p.curTokenIs(token.LPAREN):
		p.nextToken()
		var elems []*ast.TypeExpr
		if !p.curTokenIs(token.RPAREN) {
			elems = append(elems, p.parseTypeExpr())
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				elems = append(elems, p.parseTypeExpr())
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		return &ast.TypeExpr{Base: p.factory.BaseAt(p.span(tok)), Tuple: elems}

	case p.curTokenIs(token.FN):
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		var params []*ast.TypeExpr
		p.nextToken()
		if !p.curTokenIs(token.RPAREN) {
			params = append(params, p.parseTypeExpr())
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				params = append(params, p.parseTypeExpr())
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
		}
		var ret *ast.TypeExpr
		if !p.peekTokenIs(token.NEWLINE) && !p.peekTokenIs(token.EOF) && !p.peekTokenIs(token.COMMA) && !p.peekTokenIs(token.RPAREN) && !p.peekTokenIs(token.GT) {
			p.nextToken()
			ret = p.parseTypeExpr()
		}
		return &ast.TypeExpr{Base: p.factory.BaseAt(p.span(tok)), FuncParams: params, FuncRet: ret}

	case p.curTokenIs(token.IDENT):
		name := p.intern(p.curToken.Lexeme)
		te := &ast.TypeExpr{Base: p.factory.BaseAt(p.span(tok)), Name: name}

		if p.peekTokenIs(token.DOT) {
			p.nextToken() // consume '.'
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			te = &ast.TypeExpr{Base: p.factory.BaseAt(p.span(tok)), Module: name, Name: p.intern(p.curToken.Lexeme)}
		}

		if p.peekTokenIs(token.LT) {
			p.nextToken() // consume '<'
			p.nextToken()
			args := []*ast.TypeExpr{p.parseTypeExpr()}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				args = append(args, p.parseTypeExpr())
			}
			if !p.expectPeek(token.GT) {
				return nil
			}
			te.Args = args
		}
		return te
	}

	p.noPrefixParseFnError(p.curToken.Type)
	return nil
}
