package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
)

// run scans, parses, resolves, and interprets src, returning captured
// stdout and any error from any phase.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks := lexer.New(src).ScanTokens()

	program, err := parser.New(toks).Parse()
	if err != nil {
		return "", err
	}

	locals, err := resolver.New().Resolve(program)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	interp := New()
	interp.SetStdout(&out)
	err = interp.Interpret(program, locals)
	return out.String(), err
}

func assertOutput(t *testing.T, src, want string) {
	t.Helper()
	got, err := run(t, src)
	if err != nil {
		t.Fatalf("run(%q) returned error: %v", src, err)
	}
	if strings.TrimSpace(got) != strings.TrimSpace(want) {
		t.Errorf("run(%q) output = %q, want %q", src, got, want)
	}
}

func TestInterpretClosuresCapture(t *testing.T) {
	src := `var a = "global";
{ fun show() { print a; } show(); var a = "inner"; show(); }`
	assertOutput(t, src, "global\nglobal")
}

func TestInterpretRecursiveFunction(t *testing.T) {
	src := `fun fib(n){ if (n<2) return n; return fib(n-1)+fib(n-2); }
print fib(10);`
	assertOutput(t, src, "55")
}

func TestInterpretClassInitAndMethod(t *testing.T) {
	src := `class Point { init(x,y){ this.x=x; this.y=y; } sum(){ return this.x+this.y; } }
print Point(3,4).sum();`
	assertOutput(t, src, "7")
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	src := `class A{ greet(){ print "A"; } }
class B < A { greet(){ super.greet(); print "B"; } }
B().greet();`
	assertOutput(t, src, "A\nB")
}

func TestInterpretShortCircuitReturnsOperand(t *testing.T) {
	src := `print nil or "x"; print 1 and 2;`
	assertOutput(t, src, "x\n2")
}

func TestInterpretDivisionByZero(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	if err == nil {
		t.Fatal("expected a runtime error for division by zero")
	}
}

func TestInterpretArithmeticRoundTrip(t *testing.T) {
	src := `var x = 7; var y = 3; print (x / y) * y;`
	got, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(got) != "7" {
		t.Errorf("(x/y)*y = %q, want 7", got)
	}
}

func TestInterpretStringConcatenation(t *testing.T) {
	assertOutput(t, `print "foo" + "bar";`, "foobar")
}

func TestInterpretMixedAdditionIsError(t *testing.T) {
	_, err := run(t, `print "foo" + 1;`)
	if err == nil {
		t.Fatal("expected a runtime error mixing string and number in +")
	}
}

func TestInterpretUndefinedVariable(t *testing.T) {
	_, err := run(t, `print undefined_name;`)
	if err == nil {
		t.Fatal("expected a runtime error for undefined variable")
	}
}

func TestInterpretCallArityMismatch(t *testing.T) {
	_, err := run(t, `fun f(a,b) { return a+b; } f(1);`)
	if err == nil {
		t.Fatal("expected a runtime error for arity mismatch")
	}
}

func TestInterpretCallingNonCallable(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	if err == nil {
		t.Fatal("expected a runtime error calling a non-callable value")
	}
}

func TestInterpretPrintNilAndBooleans(t *testing.T) {
	assertOutput(t, `print nil; print true; print false;`, "nil\ntrue\nfalse")
}

func TestInterpretPrintIntegerWithoutDecimalPoint(t *testing.T) {
	assertOutput(t, `print 3.0; print 3.5;`, "3\n3.5")
}

func TestInterpretClockArityZero(t *testing.T) {
	got, err := run(t, `print clock() >= 0;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(got) != "true" {
		t.Errorf("clock() >= 0 = %q, want true", got)
	}
}

func TestInterpretWhileLoop(t *testing.T) {
	src := `var i = 0; var sum = 0; while (i < 5) { sum = sum + i; i = i + 1; } print sum;`
	assertOutput(t, src, "10")
}

func TestInterpretForLoop(t *testing.T) {
	src := `var sum = 0; for (var i = 0; i < 5; i = i + 1) sum = sum + i; print sum;`
	assertOutput(t, src, "10")
}

func TestInterpretBoundMethodCapturesInstance(t *testing.T) {
	src := `class Counter { init() { this.n = 0; } inc() { this.n = this.n + 1; return this.n; } }
var c = Counter();
print c.inc();
print c.inc();`
	assertOutput(t, src, "1\n2")
}

func TestInterpretFunctionStringRendering(t *testing.T) {
	assertOutput(t, `fun f() {} print f;`, "<fn f>")
}

func TestInterpretClassAndInstanceStringRendering(t *testing.T) {
	src := `class Foo {} print Foo; print Foo();`
	assertOutput(t, src, "Foo\nFoo instance")
}
