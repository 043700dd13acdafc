package interp

import "github.com/loxscript/loxgo/internal/ast"

// Callable is anything that can appear on the left of a Call expression:
// user-defined Functions, Classes (acting as constructors), and natives.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// Function is a user-declared function or method: its declaration, the
// environment it closed over at definition time, and whether it is a class
// initializer (which changes its return semantics).
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewFunction builds a Function value from a FunctionStmt and the
// environment active at the point of its declaration.
func NewFunction(declaration *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

// Name returns the function's declared name, used for "<fn NAME>" rendering.
func (f *Function) Name() string { return f.declaration.Name.Lexeme }

// Arity returns the number of declared parameters.
func (f *Function) Arity() int { return len(f.declaration.Params) }

// Bind produces a new Function whose closure extends f's closure with
// "this" bound to instance. Per the design, bound methods are never cached:
// a fresh Function is created on every property access that resolves to a
// method, so instances never hold a direct reference back to their bound
// methods.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewChildEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

// Call runs the function body in a fresh environment chained off its
// closure, with parameters bound to args in order.
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewChildEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.declaration.Body, env)
	if ret, ok := err.(*returnUnwind); ok {
		if f.isInitializer {
			return f.closure.GetAt(0, "this"), nil
		}
		return ret.Value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// NativeFunction wraps a Go function as a Lox callable, used for built-ins
// like clock().
type NativeFunction struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.fn(interp, args)
}
