// Package parser implements a recursive-descent grammar for a small
// dynamically-typed, C-like scripting language. It trusts the lexer to
// have produced a well-formed token stream (including a terminating EOF)
// and focuses
// purely on assembling the statement tree, recovering from errors at
// statement boundaries so a single mistake doesn't abort the whole file.
package parser

import (
	"fmt"

	"github.com/emberlang/ember/internal/ast"
	"github.com/emberlang/ember/internal/ember"
	"github.com/emberlang/ember/internal/invariant"
	"github.com/emberlang/ember/internal/token"
	"github.com/emberlang/ember/internal/value"
)

// parseError is an internal sentinel panicked by consume() on a
// structural error, caught at the nearest declaration boundary. Any
// other panic value propagates, since that's a real bug, not a
// malformed-input error.
type parseError struct{}

type parser struct {
	tokens []token.Token
	pos    int
	errors []*ember.Error
}

// Parse consumes a token stream and returns the statements it could
// build plus every diagnostic encountered. Errors never stop the whole
// parse: each bad statement is skipped via synchronize and parsing
// resumes at the next statement boundary.
func Parse(tokens []token.Token) ([]ast.Stmt, []*ember.Error) {
	p := &parser{tokens: tokens}

	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declarationRecover(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errors
}

// --- cursor ---

func (p *parser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) peekNext() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) isAtEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

// previous is only meaningful once advance has been called at least
// once; calling it before that is a parser bug, not a user error.
func (p *parser) previous() token.Token {
	invariant.Precondition(p.pos > 0, "parser.previous() called before any advance()")
	return p.tokens[p.pos-1]
}

func (p *parser) check(k token.Kind) bool {
	return !p.isAtEnd() && p.current().Kind == k
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume requires the next token to be of kind k, advancing past it.
// On failure it records the error and panics with parseError so the
// caller's nearest recovery point can synchronize.
func (p *parser) consume(k token.Kind, msg string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorAt(p.current(), ember.ErrUnexpectedToken, msg)
	panic(parseError{})
}

// consumeSemicolon enforces the language's semicolon discipline without
// aborting the statement: a missing ';' is reported but parsing
// continues at the current token.
func (p *parser) consumeSemicolon() {
	if p.check(token.Semicolon) {
		p.advance()
		return
	}
	p.errorAt(p.current(), ember.ErrMissingSemicolon, "expected ';' after statement.")
}

func (p *parser) errorAt(tok token.Token, kind ember.Kind, msg string) {
	p.errors = append(p.errors, ember.New(kind, tok.Line, tok.Column, "%s", msg))
}

// synchronize discards tokens until the statement boundary after a
// ';' or the start of a new declaration/statement keyword, so a single
// parse error doesn't cascade into a wall of spurious follow-on errors.
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.current().Kind {
		case token.Var, token.Class, token.Fun, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// declarationRecover wraps declaration() with panic recovery: a
// parseError is swallowed (after synchronizing); anything else
// re-panics.
func (p *parser) declarationRecover() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

// --- declarations & statements ---

func (p *parser) declaration() ast.Stmt {
	if p.match(token.Var) {
		return p.varDecl()
	}
	return p.statement()
}

func (p *parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "expected variable name.")

	var initializer ast.Expr = &ast.Literal{Value: nil}
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consumeSemicolon()

	return &ast.VarDecl{Name: name, Initializer: initializer}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.check(token.If):
		return p.ifStmt()
	case p.check(token.Print):
		return p.printStmt()
	case p.check(token.LeftBrace):
		return p.blockStmt()
	case p.check(token.Identifier) && p.peekNext().Kind == token.Equal:
		return p.assignStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) ifStmt() ast.Stmt {
	p.advance() // "if"
	condition := p.expression()
	thenBranch := p.blockStmt()

	var elseIfs []ast.ElseIf
	for {
		if p.check(token.Else) && p.peekNext().Kind == token.If {
			p.advance() // "else"
			p.advance() // "if"
			cond := p.expression()
			body := p.blockStmt()
			elseIfs = append(elseIfs, ast.ElseIf{Condition: cond, Then: body})
			continue
		}
		if p.check(token.ElseIf) {
			p.advance()
			cond := p.expression()
			body := p.blockStmt()
			elseIfs = append(elseIfs, ast.ElseIf{Condition: cond, Then: body})
			continue
		}
		break
	}

	var elseBranch ast.Stmt
	if p.check(token.Else) {
		p.advance()
		elseBranch = p.blockStmt()
	}

	return &ast.If{Condition: condition, Then: thenBranch, ElseIfs: elseIfs, Else: elseBranch}
}

func (p *parser) printStmt() ast.Stmt {
	p.advance() // "print"
	expr := p.expression()
	p.consumeSemicolon()
	return &ast.PrintStmt{Expr: expr}
}

func (p *parser) blockStmt() ast.Stmt {
	p.consume(token.LeftBrace, "expected '{' to start block.")

	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if s := p.declarationRecover(); s != nil {
			stmts = append(stmts, s)
		}
	}

	if p.check(token.RightBrace) {
		p.advance()
	} else {
		p.errorAt(p.current(), ember.ErrMissingBrace, "expected '}' to close block.")
	}

	return &ast.Block{Stmts: stmts}
}

func (p *parser) assignStmt() ast.Stmt {
	expr := p.expression()
	p.consumeSemicolon()
	return &ast.AssignmentStmt{Expr: expr}
}

func (p *parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consumeSemicolon()
	return &ast.ExpressionStmt{Expr: expr}
}

// --- expressions, in precedence order ---

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.check(token.Equal) {
		eq := p.current()
		p.advance()
		val := p.assignment() // right-associative

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assignment{Name: v.Name, Value: val}
		}
		p.errorAt(eq, ember.ErrUnexpectedToken, "invalid assignment target.")
		return expr
	}
	return expr
}

func (p *parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.check(token.Or) {
		op := p.advance()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.check(token.And) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(token.BangEqual) || p.check(token.EqualEqual) {
		op := p.advance()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(token.Greater) || p.check(token.GreaterEqual) || p.check(token.Less) || p.check(token.LessEqual) {
		op := p.advance()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.check(token.Minus) || p.check(token.Plus) {
		op := p.advance()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(token.Slash) || p.check(token.Star) {
		op := p.advance()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

// unary recurses on itself (rather than jumping straight to primary),
// so a chain like `!!x` parses correctly instead of being rejected.
func (p *parser) unary() ast.Expr {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.advance()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.primary()
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.check(token.Number):
		tok := p.advance()
		v := value.Number(tok.Literal.Num)
		return &ast.Literal{Value: &v}

	case p.check(token.String):
		tok := p.advance()
		v := value.String(tok.Literal.Str)
		return &ast.Literal{Value: &v}

	case p.check(token.True):
		p.advance()
		v := value.Boolean(true)
		return &ast.Literal{Value: &v}

	case p.check(token.False):
		p.advance()
		v := value.Boolean(false)
		return &ast.Literal{Value: &v}

	case p.check(token.Nil):
		p.advance()
		v := value.Nil()
		return &ast.Literal{Value: &v}

	case p.check(token.LeftParen):
		p.advance()
		expr := p.expression()
		p.consume(token.RightParen, "expected ')' after expression.")
		return &ast.Grouping{Inner: expr}

	case p.check(token.Identifier):
		tok := p.advance()
		return &ast.Variable{Name: tok}

	default:
		p.errorAt(p.current(), ember.ErrUnexpectedToken, fmt.Sprintf("expected expression, got %s.", p.current().Kind))
		panic(parseError{})
	}
}
