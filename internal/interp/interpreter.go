// Package interp implements the tree-walking evaluator: statement
// execution, expression evaluation, the environment chain, function
// invocation, and class/instance semantics.
package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/loxscript/loxgo/internal/ast"
)

// Interpreter executes a resolved program. Stdout is configurable so tests
// can capture "print" output without touching the real standard output.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[ast.Expression]int
	stdout  io.Writer
}

// New creates an Interpreter with a fresh globals environment (built-ins
// installed) writing "print" output to stdout.
func New() *Interpreter {
	globals := NewEnvironment()
	defineGlobals(globals)
	return &Interpreter{globals: globals, env: globals, stdout: os.Stdout}
}

// SetStdout redirects "print" output, used by the REPL and by tests.
func (interp *Interpreter) SetStdout(w io.Writer) { interp.stdout = w }

// Globals exposes the globals environment, e.g. so a REPL can persist
// top-level bindings across successive lines.
func (interp *Interpreter) Globals() *Environment { return interp.globals }

// SetEnvironment replaces the interpreter's current environment. The REPL
// does not call it: it keeps one Interpreter, and so one globals
// environment, across lines.
func (interp *Interpreter) SetEnvironment(env *Environment) { interp.env = env }

// Interpret adds the resolver's locals for program to the interpreter's
// table, keeping the entries of earlier calls so that functions declared by
// an earlier program on the same Interpreter still find their locals, and
// executes every statement in order. It is the top-level driver: if a
// returnUnwind somehow escapes all the way here, that is an interpreter
// bug, not a user-facing error, so it panics rather than misreporting it as
// a runtime error.
func (interp *Interpreter) Interpret(program *ast.Program, locals map[ast.Expression]int) error {
	if interp.locals == nil {
		interp.locals = make(map[ast.Expression]int, len(locals))
	}
	for expr, dist := range locals {
		interp.locals[expr] = dist
	}
	for _, stmt := range program.Statements {
		if err := interp.execute(stmt); err != nil {
			if _, ok := err.(*returnUnwind); ok {
				panic("return escaped to top level: resolver/interpreter bug")
			}
			return err
		}
	}
	return nil
}

func (interp *Interpreter) execute(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := interp.eval(s.Expression)
		return err

	case *ast.PrintStmt:
		v, err := interp.eval(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(interp.stdout, stringify(v))
		return nil

	case *ast.VarStmt:
		var value Value
		if s.Initializer != nil {
			v, err := interp.eval(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		interp.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.Block:
		return interp.executeBlock(s.Statements, NewChildEnvironment(interp.env))

	case *ast.IfStmt:
		cond, err := interp.eval(s.Condition)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return interp.execute(s.Then)
		}
		if s.Else != nil {
			return interp.execute(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := interp.eval(s.Condition)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := interp.execute(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStmt:
		fn := NewFunction(s, interp.env, false)
		interp.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		var value Value
		if s.Value != nil {
			v, err := interp.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnUnwind{Value: value}

	case *ast.ClassStmt:
		return interp.executeClass(s)

	default:
		return &RuntimeError{Line: stmt.Line(), Message: fmt.Sprintf("unhandled statement type %T", stmt)}
	}
}

// executeBlock runs stmts against env, restoring the interpreter's previous
// current environment on every exit path: normal completion, a return
// signal, or a runtime error. This restoration is an invariant the whole
// environment-chain design depends on, not a convenience.
func (interp *Interpreter) executeBlock(stmts []ast.Statement, env *Environment) error {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range stmts {
		if err := interp.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) executeClass(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := interp.eval(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &RuntimeError{Line: s.Superclass.Name.Line, Lexeme: s.Superclass.Name.Lexeme, Message: "superclass must be a class"}
		}
		superclass = sc
	}

	interp.env.Define(s.Name.Lexeme, nil)

	classEnv := interp.env
	if superclass != nil {
		classEnv = NewChildEnvironment(interp.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, classEnv, m.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	return interp.env.Assign(s.Name.Lexeme, class)
}

func (interp *Interpreter) eval(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return interp.eval(e.Expression)

	case *ast.Unary:
		right, err := interp.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return interp.evalUnary(e, right)

	case *ast.Binary:
		return interp.evalBinary(e)

	case *ast.Logical:
		left, err := interp.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Lexeme == "or" {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return interp.eval(e.Right)

	case *ast.Variable:
		return interp.lookUpVariable(e.Name.Lexeme, e)

	case *ast.Assign:
		value, err := interp.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if dist, ok := interp.locals[e]; ok {
			interp.env.AssignAt(dist, e.Name.Lexeme, value)
		} else if err := interp.globals.Assign(e.Name.Lexeme, value); err != nil {
			return nil, withLine(err, e.Name.Line, e.Name.Lexeme)
		}
		return value, nil

	case *ast.Call:
		return interp.evalCall(e)

	case *ast.Get:
		obj, err := interp.eval(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Line: e.Name.Line, Lexeme: e.Name.Lexeme, Message: "only instances have properties"}
		}
		v, err := instance.Get(e.Name.Lexeme)
		if err != nil {
			return nil, withLine(err, e.Name.Line, e.Name.Lexeme)
		}
		return v, nil

	case *ast.Set:
		obj, err := interp.eval(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Line: e.Name.Line, Lexeme: e.Name.Lexeme, Message: "only instances have fields"}
		}
		value, err := interp.eval(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, value)
		return value, nil

	case *ast.This:
		return interp.lookUpVariable("this", e)

	case *ast.Super:
		return interp.evalSuper(e)

	default:
		return nil, &RuntimeError{Line: expr.Line(), Message: fmt.Sprintf("unhandled expression type %T", expr)}
	}
}

// lookUpVariable consults the resolver's locals map for a scope distance;
// a miss means the reference resolves against globals.
func (interp *Interpreter) lookUpVariable(name string, expr ast.Expression) (Value, error) {
	if dist, ok := interp.locals[expr]; ok {
		return interp.env.GetAt(dist, name), nil
	}
	v, err := interp.globals.Get(name)
	if err != nil {
		return nil, withLine(err, expr.Line(), name)
	}
	return v, nil
}

func (interp *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	dist := interp.locals[e]
	superVal := interp.env.GetAt(dist, "super")
	superclass, _ := superVal.(*Class)
	this := interp.env.GetAt(dist-1, "this")
	instance, _ := this.(*Instance)

	method, ok := superclass.findMethod(e.Method.Lexeme)
	if !ok {
		return nil, &RuntimeError{Line: e.Method.Line, Lexeme: e.Method.Lexeme, Message: "undefined property '" + e.Method.Lexeme + "'"}
	}
	return method.Bind(instance), nil
}

func (interp *Interpreter) evalUnary(e *ast.Unary, right Value) (Value, error) {
	switch e.Operator.Lexeme {
	case "-":
		n, ok := right.(float64)
		if !ok {
			return nil, &RuntimeError{Line: e.Operator.Line, Lexeme: e.Operator.Lexeme, Message: "operand must be a number"}
		}
		return -n, nil
	case "!":
		return !isTruthy(right), nil
	default:
		return nil, &RuntimeError{Line: e.Operator.Line, Lexeme: e.Operator.Lexeme, Message: "unknown unary operator"}
	}
}

func (interp *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := interp.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.eval(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Operator.Lexeme
	line := e.Operator.Line

	switch op {
	case "==":
		return isEqual(left, right), nil
	case "!=":
		return !isEqual(left, right), nil
	}

	switch op {
	case "+":
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Line: line, Lexeme: op, Message: "operands must be two numbers or two strings"}
	case "-", "*", "/":
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, &RuntimeError{Line: line, Lexeme: op, Message: "operands must be numbers"}
		}
		switch op {
		case "-":
			return ln - rn, nil
		case "*":
			return ln * rn, nil
		case "/":
			if rn == 0 {
				return nil, &RuntimeError{Line: line, Lexeme: op, Message: "division by zero"}
			}
			return ln / rn, nil
		}
	case ">", ">=", "<", "<=":
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, &RuntimeError{Line: line, Lexeme: op, Message: "operands must be numbers"}
		}
		switch op {
		case ">":
			return ln > rn, nil
		case ">=":
			return ln >= rn, nil
		case "<":
			return ln < rn, nil
		case "<=":
			return ln <= rn, nil
		}
	}

	return nil, &RuntimeError{Line: line, Lexeme: op, Message: "unknown binary operator"}
}

func (interp *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := interp.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := interp.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Line: e.Paren.Line, Message: "can only call functions and classes"}
	}
	if len(args) != callable.Arity() {
		return nil, &RuntimeError{Line: e.Paren.Line, Message: fmt.Sprintf("expected %d arguments but got %d", callable.Arity(), len(args))}
	}
	return callable.Call(interp, args)
}

// withLine fills in the line/lexeme of a *RuntimeError raised deep inside
// Environment, which has no access to the AST node that triggered it.
func withLine(err error, line int, lexeme string) error {
	if rerr, ok := err.(*RuntimeError); ok && rerr.Line == 0 {
		rerr.Line = line
		rerr.Lexeme = lexeme
	}
	return err
}
