package interp

import (
	"fmt"
	"strconv"
)

// Value is the runtime representation of every Lox object. The concrete
// dynamic type is one of: nil, bool, float64, string, *Function,
// *NativeFunction, *Class, or *Instance. Primitives compare with Go's
// built-in equality; Function, Class, and Instance compare by pointer
// identity, which is exactly what Go's == already does for pointer types, so
// equality needs no custom code beyond a type-compatible guard (see isEqual
// below).
type Value = any

// RuntimeError is a Lox runtime fault: a type mismatch, an undefined name,
// an arity mismatch, or similar. Line is filled in by the interpreter from
// the AST node that raised it, since the error may originate deep inside a
// helper that has no token of its own.
type RuntimeError struct {
	Line    int
	Lexeme  string
	Message string
}

func (e *RuntimeError) Error() string {
	tok := e.Lexeme
	if tok == "" {
		tok = "end"
	}
	return fmt.Sprintf("[line %d] %s : %s", e.Line, tok, e.Message)
}

// returnUnwind is the sentinel used to carry a "return" statement's value up
// through nested statement execution to the enclosing function call. It is
// never surfaced to user code or to the CLI: executeBlock passes it up
// unchanged, Function.Call catches it, and if it ever escapes a call to the
// top-level driver, that is an interpreter bug, not a user-visible error
// (see Interpreter.Interpret).
type returnUnwind struct {
	Value Value
}

func (r *returnUnwind) Error() string { return "return outside of a function call (interpreter bug)" }

// isTruthy implements the authoritative Lox truthiness rule: only nil and
// the boolean false are falsey: everything else, including 0 and "", is
// truthy.
func isTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual implements Lox's "==": structural equality for primitives of the
// same dynamic type, identity for Function/Class/Instance, and false across
// mismatched types (including nil compared to anything else).
func isEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// stringify renders v the way "print" writes it to standard output.
func stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case string:
		return val
	case *Function:
		return "<fn " + val.Name() + ">"
	case *NativeFunction:
		return "<native " + val.name + ">"
	case *Class:
		return val.Name
	case *Instance:
		return val.Class.Name + " instance"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber renders a Lox number using the shortest round-trip decimal;
// strconv's 'g' format already drops the fractional part for integral
// values, so 3.0 prints as "3".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
