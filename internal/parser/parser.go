// Package parser implements the Lox recursive-descent parser, producing an
// internal/ast tree from a token stream.
package parser

import (
	"fmt"

	"github.com/loxscript/loxgo/internal/ast"
	"github.com/loxscript/loxgo/pkg/token"
)

const maxArgs = 255

// Error is a single parse diagnostic, positioned at the offending token.
type Error struct {
	Line    int
	Lexeme  string
	Message string
}

func (e *Error) Error() string {
	tok := e.Lexeme
	if tok == "" {
		tok = "end"
	}
	return fmt.Sprintf("[line %d] %s : %s", e.Line, tok, e.Message)
}

// Parser consumes a flat token slice and produces a Program. It halts at the
// first syntax error rather than attempting panic-mode recovery.
type Parser struct {
	tokens  []token.Token
	current int
}

// New creates a Parser over tokens, which must be terminated by an EOF
// token (as produced by internal/lexer.Lexer.ScanTokens).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the entire token stream and returns the resulting program,
// or the first parse error encountered.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// --- token stream helpers ---

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	lexeme := tok.Lexeme
	if tok.Kind == token.EOF {
		lexeme = ""
	}
	return &Error{Line: tok.Line, Lexeme: lexeme, Message: message}
}

// --- declarations ---

func (p *Parser) declaration() (ast.Statement, error) {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Statement, error) {
	name, err := p.consume(token.IDENTIFIER, "expect class name")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.LESS) {
		superName, err := p.consume(token.IDENTIFIER, "expect superclass name")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LEFT_BRACE, "expect '{' before class body"); err != nil {
		return nil, err
	}

	var methods []*ast.FunctionStmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(*ast.FunctionStmt))
	}

	if _, err := p.consume(token.RIGHT_BRACE, "expect '}' after class body"); err != nil {
		return nil, err
	}

	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) function(kind string) (ast.Statement, error) {
	name, err := p.consume(token.IDENTIFIER, "expect "+kind+" name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_PAREN, "expect '(' after "+kind+" name"); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				return nil, p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d parameters", maxArgs))
			}
			param, err := p.consume(token.IDENTIFIER, "expect parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "expect ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LEFT_BRACE, "expect '{' before "+kind+" body"); err != nil {
		return nil, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (ast.Statement, error) {
	name, err := p.consume(token.IDENTIFIER, "expect variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if p.match(token.EQUAL) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, Initializer: initializer}, nil
}

// --- statements ---

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LEFT_BRACE):
		leftBrace := p.previous()
		stmts, err := p.blockStatements()
		if err != nil {
			return nil, err
		}
		return &ast.Block{LeftBrace: leftBrace, Statements: stmts}, nil
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

// blockStatements parses declarations up to (and consuming) the closing
// brace; the opening brace must already have been consumed by the caller.
func (p *Parser) blockStatements() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RIGHT_BRACE, "expect '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) printStatement() (ast.Statement, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expect ';' after value"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Keyword: keyword, Expression: value}, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "expect '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "expect ')' after if condition"); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Keyword: keyword, Condition: condition, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "expect '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "expect ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Keyword: keyword, Condition: condition, Body: body}, nil
}

// forStatement desugars "for (init; cond; incr) body" into a Block wrapping
// a WhileStmt, so the interpreter never sees a dedicated for-loop node.
func (p *Parser) forStatement() (ast.Statement, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LEFT_PAREN, "expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Statement
	var err error
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.check(token.VAR):
		p.advance()
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expect ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.Block{LeftBrace: keyword, Statements: []ast.Statement{
			body,
			&ast.ExpressionStmt{Expression: increment},
		}}
	}

	if condition == nil {
		condition = &ast.Literal{Token: keyword, Value: true}
	}
	loop := &ast.WhileStmt{Keyword: keyword, Condition: condition, Body: body}

	if initializer == nil {
		return loop, nil
	}
	return &ast.Block{LeftBrace: keyword, Statements: []ast.Statement{initializer, loop}}, nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	keyword := p.previous()
	var value ast.Expression
	var err error
	if !p.check(token.SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

// --- expressions ---

func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}, nil
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			return nil, p.errorAt(equals, "invalid assignment target")
		}
	}

	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expression, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.MINUS, token.PLUS) {
		operator := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.SLASH, token.STAR) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "expect property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				return nil, p.errorAt(p.peek(), fmt.Sprintf("can't have more than %d arguments", maxArgs))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}, nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}, nil
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}, nil
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}, nil
	case p.match(token.NUMBER, token.STRING):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: tok.Literal}, nil
	case p.match(token.SUPER):
		keyword := p.previous()
		if _, err := p.consume(token.DOT, "expect '.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(token.IDENTIFIER, "expect superclass method name")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: keyword, Method: method}, nil
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}, nil
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.LEFT_PAREN):
		leftParen := p.previous()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "expect ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Token: leftParen, Expression: expr}, nil
	}

	return nil, p.errorAt(p.peek(), "expect expression")
}
