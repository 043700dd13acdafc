// Package resolver performs a static variable-resolution pass over a parsed
// program, assigning each variable-reference expression a lexical scope
// distance consumed later by the interpreter.
package resolver

import (
	"fmt"

	"github.com/loxscript/loxgo/internal/ast"
)

// Error is a single static diagnostic raised during resolution.
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

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name to whether its declaration has finished (is "defined").
// A name present with value false has been declared but its initializer
// has not finished evaluating yet.
type scope map[string]bool

// Resolver walks a parsed program and produces a Locals table: for every
// variable-reference expression, the number of enclosing environment frames
// to ascend at runtime. References missing from the table resolve against
// globals.
type Resolver struct {
	scopes          []scope
	locals          map[ast.Expression]int
	currentFunction functionType
	currentClass    classType
}

// New creates a Resolver ready to resolve a single program.
func New() *Resolver {
	return &Resolver{
		locals:          make(map[ast.Expression]int),
		currentFunction: functionNone,
		currentClass:    classNone,
	}
}

// Resolve walks every statement in program and returns the locals table, or
// the first static error encountered.
func (r *Resolver) Resolve(program *ast.Program) (map[ast.Expression]int, error) {
	if err := r.resolveStatements(program.Statements); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *Resolver) resolveStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := r.resolveStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string, line int) error {
	if len(r.scopes) == 0 {
		return nil
	}
	current := r.scopes[len(r.scopes)-1]
	if _, ok := current[name]; ok {
		return &Error{Line: line, Lexeme: name, Message: "already a variable with this name in this scope"}
	}
	current[name] = false
	return nil
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal scans scopes from innermost outward and records the distance
// at which name is found. A miss leaves no entry, meaning "resolve against
// globals" to the interpreter.
func (r *Resolver) resolveLocal(expr ast.Expression, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		return r.resolveExpression(s.Expression)

	case *ast.PrintStmt:
		return r.resolveExpression(s.Expression)

	case *ast.VarStmt:
		if err := r.declare(s.Name.Lexeme, s.Name.Line); err != nil {
			return err
		}
		if s.Initializer != nil {
			if err := r.resolveExpression(s.Initializer); err != nil {
				return err
			}
		}
		r.define(s.Name.Lexeme)
		return nil

	case *ast.Block:
		r.beginScope()
		defer r.endScope()
		return r.resolveStatements(s.Statements)

	case *ast.IfStmt:
		if err := r.resolveExpression(s.Condition); err != nil {
			return err
		}
		if err := r.resolveStatement(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStatement(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		if err := r.resolveExpression(s.Condition); err != nil {
			return err
		}
		return r.resolveStatement(s.Body)

	case *ast.FunctionStmt:
		if err := r.declare(s.Name.Lexeme, s.Name.Line); err != nil {
			return err
		}
		r.define(s.Name.Lexeme)
		return r.resolveFunction(s, functionFunction)

	case *ast.ReturnStmt:
		if r.currentFunction == functionNone {
			return &Error{Line: s.Keyword.Line, Lexeme: s.Keyword.Lexeme, Message: "can't return from top-level code"}
		}
		if s.Value != nil {
			if r.currentFunction == functionInitializer {
				if _, isThis := s.Value.(*ast.This); !isThis {
					return &Error{Line: s.Keyword.Line, Lexeme: s.Keyword.Lexeme, Message: "can't return a value from an initializer"}
				}
			}
			return r.resolveExpression(s.Value)
		}
		return nil

	case *ast.ClassStmt:
		return r.resolveClass(s)

	default:
		return fmt.Errorf("resolver: unhandled statement type %T", stmt)
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) error {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	if err := r.declare(s.Name.Lexeme, s.Name.Line); err != nil {
		return err
	}
	r.define(s.Name.Lexeme)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			return &Error{Line: s.Superclass.Name.Line, Lexeme: s.Superclass.Name.Lexeme, Message: "a class can't inherit from itself"}
		}
		r.currentClass = classSubclass
		if err := r.resolveExpression(s.Superclass); err != nil {
			return err
		}
		r.beginScope()
		defer r.endScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	defer r.endScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		declType := functionMethod
		if method.Name.Lexeme == "init" {
			declType = functionInitializer
		}
		if err := r.resolveFunction(method, declType); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionType) error {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		if err := r.declare(param.Lexeme, param.Line); err != nil {
			return err
		}
		r.define(param.Lexeme)
	}
	return r.resolveStatements(fn.Body)
}

func (r *Resolver) resolveExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Literal:
		return nil

	case *ast.Grouping:
		return r.resolveExpression(e.Expression)

	case *ast.Unary:
		return r.resolveExpression(e.Right)

	case *ast.Binary:
		if err := r.resolveExpression(e.Left); err != nil {
			return err
		}
		return r.resolveExpression(e.Right)

	case *ast.Logical:
		if err := r.resolveExpression(e.Left); err != nil {
			return err
		}
		return r.resolveExpression(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				return &Error{Line: e.Name.Line, Lexeme: e.Name.Lexeme, Message: "can't read local variable in its own initializer"}
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
		return nil

	case *ast.Assign:
		if err := r.resolveExpression(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e, e.Name.Lexeme)
		return nil

	case *ast.Call:
		if err := r.resolveExpression(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := r.resolveExpression(arg); err != nil {
				return err
			}
		}
		return nil

	case *ast.Get:
		return r.resolveExpression(e.Object)

	case *ast.Set:
		if err := r.resolveExpression(e.Value); err != nil {
			return err
		}
		return r.resolveExpression(e.Object)

	case *ast.This:
		if r.currentClass == classNone {
			return &Error{Line: e.Keyword.Line, Lexeme: e.Keyword.Lexeme, Message: "can't use 'this' outside of a class"}
		}
		r.resolveLocal(e, "this")
		return nil

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			return &Error{Line: e.Keyword.Line, Lexeme: e.Keyword.Lexeme, Message: "can't use 'super' outside of a class"}
		case classClass:
			return &Error{Line: e.Keyword.Line, Lexeme: e.Keyword.Lexeme, Message: "can't use 'super' in a class with no superclass"}
		}
		r.resolveLocal(e, "super")
		return nil

	default:
		return fmt.Errorf("resolver: unhandled expression type %T", expr)
	}
}
