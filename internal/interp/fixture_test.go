package interp

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
)

// TestExampleScripts runs a small set of representative Lox programs
// end-to-end and snapshots their stdout, covering closures, classes,
// inheritance, and control flow together rather than as isolated units.
func TestExampleScripts(t *testing.T) {
	scripts := []struct {
		name string
		src  string
	}{
		{
			name: "fibonacci",
			src: `fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }
for (var i = 0; i < 8; i = i + 1) print fib(i);`,
		},
		{
			name: "counter_closure",
			src: `fun makeCounter() {
  var count = 0;
  fun increment() { count = count + 1; return count; }
  return increment;
}
var c = makeCounter();
print c();
print c();
print c();`,
		},
		{
			name: "animal_hierarchy",
			src: `class Animal {
  init(name) { this.name = name; }
  speak() { print this.name + " makes a sound"; }
}
class Dog < Animal {
  speak() { super.speak(); print this.name + " barks"; }
}
Dog("Rex").speak();`,
		},
	}

	for _, s := range scripts {
		t.Run(s.name, func(t *testing.T) {
			output, err := runFixture(t, s.src)
			if err != nil {
				t.Fatalf("unexpected error running %s: %v", s.name, err)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", s.name), output)
		})
	}
}

// runFixture is the same lex/parse/resolve/interpret pipeline as the
// interpreter_test.go helper; duplicated here rather than shared, since
// go-snaps fixtures and table-driven unit tests are conceptually separate
// suites even though they drive the same machinery.
func runFixture(t *testing.T, src string) (string, error) {
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
