package ast

import (
	"bytes"
	"fmt"

	"github.com/loxscript/loxgo/pkg/token"
)

// Literal is a constant value appearing directly in source: a number,
// string, boolean, or nil.
type Literal struct {
	Token token.Token
	Value any // float64, string, bool, or nil
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) Line() int            { return l.Token.Line }
func (l *Literal) String() string {
	if l.Value == nil {
		return "nil"
	}
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.Value)
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Token      token.Token // the '(' token
	Expression Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) Line() int            { return g.Token.Line }
func (g *Grouping) String() string       { return "(group " + g.Expression.String() + ")" }

// Unary is a prefix operator applied to a single operand: -x, !x.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Operator.Lexeme }
func (u *Unary) Line() int            { return u.Operator.Line }
func (u *Unary) String() string {
	return "(" + u.Operator.Lexeme + " " + u.Right.String() + ")"
}

// Binary is an arithmetic, comparison, or equality expression: a + b.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Operator.Lexeme }
func (b *Binary) Line() int            { return b.Operator.Line }
func (b *Binary) String() string {
	return "(" + b.Operator.Lexeme + " " + b.Left.String() + " " + b.Right.String() + ")"
}

// Logical is "and"/"or", kept distinct from Binary because it short-circuits.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Operator.Lexeme }
func (l *Logical) Line() int            { return l.Operator.Line }
func (l *Logical) String() string {
	return "(" + l.Operator.Lexeme + " " + l.Left.String() + " " + l.Right.String() + ")"
}

// Variable is a reference to a declared name.
type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Name.Lexeme }
func (v *Variable) Line() int            { return v.Name.Line }
func (v *Variable) String() string       { return v.Name.Lexeme }

// Assign assigns a new value to an existing variable binding.
type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Name.Lexeme }
func (a *Assign) Line() int            { return a.Name.Line }
func (a *Assign) String() string {
	return "(= " + a.Name.Lexeme + " " + a.Value.String() + ")"
}

// Call is a function or method invocation: callee(args...).
type Call struct {
	Callee    Expression
	Paren     token.Token // closing ')' token, for error line reporting
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }
func (c *Call) Line() int            { return c.Paren.Line }
func (c *Call) String() string {
	var out bytes.Buffer
	out.WriteString("(call ")
	out.WriteString(c.Callee.String())
	for _, a := range c.Arguments {
		out.WriteString(" ")
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// Get reads a property or method off an object: object.name.
type Get struct {
	Object Expression
	Name   token.Token
}

func (g *Get) expressionNode()      {}
func (g *Get) TokenLiteral() string { return g.Name.Lexeme }
func (g *Get) Line() int            { return g.Name.Line }
func (g *Get) String() string       { return "(get " + g.Object.String() + " " + g.Name.Lexeme + ")" }

// Set assigns a property on an object: object.name = value.
type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (s *Set) expressionNode()      {}
func (s *Set) TokenLiteral() string { return s.Name.Lexeme }
func (s *Set) Line() int            { return s.Name.Line }
func (s *Set) String() string {
	return "(set " + s.Object.String() + " " + s.Name.Lexeme + " " + s.Value.String() + ")"
}

// This refers to the receiver inside a method body.
type This struct {
	Keyword token.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Keyword.Lexeme }
func (t *This) Line() int            { return t.Keyword.Line }
func (t *This) String() string       { return "this" }

// Super refers to a method inherited from the enclosing class's superclass:
// super.method.
type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (s *Super) expressionNode()      {}
func (s *Super) TokenLiteral() string { return s.Keyword.Lexeme }
func (s *Super) Line() int            { return s.Keyword.Line }
func (s *Super) String() string       { return "(super " + s.Method.Lexeme + ")" }
