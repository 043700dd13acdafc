package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loxscript/loxgo/internal/testscript"
	"github.com/tidwall/gjson"
)

// captureStdout redirects os.Stdout for the duration of fn and returns what
// was written, since the cobra commands under test print directly to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestRunScriptWithEval(t *testing.T) {
	evalExpr = `print 1 + 2;`
	defer func() { evalExpr = "" }()

	out := captureStdout(t, func() {
		if err := runScript(nil, nil); err != nil {
			t.Fatalf("runScript: %v", err)
		}
	})
	if strings.TrimSpace(out) != "3" {
		t.Errorf("output = %q, want %q", out, "3")
	}
}

func TestRunScriptFromFile(t *testing.T) {
	path := writeScript(t, `fun greet(name) { print "hi " + name; } greet("lox");`)

	out := captureStdout(t, func() {
		if err := runScript(nil, []string{path}); err != nil {
			t.Fatalf("runScript: %v", err)
		}
	})
	if strings.TrimSpace(out) != "hi lox" {
		t.Errorf("output = %q, want %q", out, "hi lox")
	}
}

func TestRunScriptReportsRuntimeError(t *testing.T) {
	evalExpr = `print 1 / 0;`
	defer func() { evalExpr = "" }()

	err := runScript(nil, nil)
	if err == nil {
		t.Fatal("expected an error for division by zero")
	}
}

func TestLexScriptPrintsTokens(t *testing.T) {
	path := writeScript(t, `var x = 1;`)

	out := captureStdout(t, func() {
		if err := lexScript(nil, []string{path}); err != nil {
			t.Fatalf("lexScript: %v", err)
		}
	})
	if !strings.Contains(out, "VAR") || !strings.Contains(out, "NUMBER") {
		t.Errorf("output = %q, want it to mention VAR and NUMBER tokens", out)
	}
}

func TestParseScriptPrintsJSON(t *testing.T) {
	path := writeScript(t, `print "hi";`)
	parseJSON = true
	defer func() { parseJSON = false }()

	out := captureStdout(t, func() {
		if err := parseScript(nil, []string{path}); err != nil {
			t.Fatalf("parseScript: %v", err)
		}
	})
	stmt := gjson.Get(out, "statements.0")
	if stmt.Get("kind").String() != "PrintStmt" {
		t.Fatalf("statements.0.kind = %q, want %q (output: %s)", stmt.Get("kind").String(), "PrintStmt", out)
	}
	if got := stmt.Get("expression.kind").String(); got != "Literal" {
		t.Errorf("statements.0.expression.kind = %q, want %q", got, "Literal")
	}
	if got := stmt.Get("expression.value").String(); got != "hi" {
		t.Errorf("statements.0.expression.value = %q, want %q", got, "hi")
	}
}

func TestParseScriptReportsSyntaxError(t *testing.T) {
	path := writeScript(t, `print 1 +;`)
	err := parseScript(nil, []string{path})
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

// TestRunScriptMatchesTestHarnessContract cross-checks that the eval path
// driving "lox run -e" agrees with internal/testscript's independent
// pipeline, since both wrap the same lex/parse/resolve/interpret stages.
func TestRunScriptMatchesTestHarnessContract(t *testing.T) {
	s := testscript.Parse("sum.lox", `print 2 + 2;
------ output ------
4
`)
	if msg := testscript.Check(s); msg != "" {
		t.Fatalf("testscript.Check: %s", msg)
	}

	evalExpr = s.Source
	defer func() { evalExpr = "" }()
	out := captureStdout(t, func() {
		if err := runScript(nil, nil); err != nil {
			t.Fatalf("runScript: %v", err)
		}
	})
	if strings.TrimSpace(out) != "4" {
		t.Errorf("output = %q, want %q", out, "4")
	}
}
