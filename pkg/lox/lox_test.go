package lox

import (
	"bytes"
	"strings"
	"testing"
)

func TestEngineRunCapturesOutput(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithStdout(&buf))

	if err := e.Run(`print "hello, " + "lox";`); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "hello, lox" {
		t.Errorf("output = %q, want %q", got, "hello, lox")
	}
}

func TestEngineParseReportsParseError(t *testing.T) {
	e := New(WithStdout(&bytes.Buffer{}))
	if _, err := e.Parse(`print 1 +;`); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestEngineParseReportsScanError(t *testing.T) {
	e := New(WithStdout(&bytes.Buffer{}))
	if _, err := e.Parse(`print "unterminated;`); err == nil {
		t.Fatal("expected a scan error for an unterminated string")
	}
}

func TestEngineCompileThenRunProgram(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithStdout(&buf))

	program, err := e.Compile(`var x = 40; print x + 2;`)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if len(program.AST().Statements) != 2 {
		t.Errorf("AST has %d statements, want 2", len(program.AST().Statements))
	}

	if err := e.RunProgram(program); err != nil {
		t.Fatalf("RunProgram returned error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "42" {
		t.Errorf("output = %q, want %q", got, "42")
	}
}

func TestEnginePersistentEnvironmentSharesState(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithStdout(&buf), WithPersistentEnvironment())

	if err := e.Run(`var counter = 0;`); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if err := e.Run(`counter = counter + 1; print counter;`); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "1" {
		t.Errorf("output = %q, want %q", got, "1")
	}
}

func TestEngineWithoutPersistentEnvironmentStartsFresh(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithStdout(&buf))

	if err := e.Run(`var counter = 0;`); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	err := e.Run(`print counter;`)
	if err == nil {
		t.Fatal("expected an undefined-variable error since each Run gets fresh globals")
	}
}
