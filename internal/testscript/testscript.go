// Package testscript runs ".lox" test scripts against the full
// lex/parse/resolve/interpret pipeline and compares against an expected
// block embedded in the same file, per the test-harness contract: a script
// may carry a "------ output ------" marker followed by the expected
// stdout, or a "------ error ------" marker followed by the expected error
// text. Everything before the marker is fed to the interpreter; the actual
// result is compared against the expected block after trimming whitespace
// from both.
package testscript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/loxscript/loxgo/internal/errors"
	"github.com/loxscript/loxgo/internal/interp"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
)

const (
	outputMarker = "------ output ------"
	errorMarker  = "------ error ------"
)

// Kind identifies which marker a script used.
type Kind int

const (
	// KindOutput means the script expects the program to run to completion
	// and print the expected block to stdout.
	KindOutput Kind = iota
	// KindError means the script expects a scan, parse, resolve, or
	// runtime error whose compact rendering matches the expected block.
	KindError
)

// Script is a parsed test-script file: the Lox source to run and the
// expected result extracted from its marker block.
type Script struct {
	Name     string
	Source   string
	Kind     Kind
	Expected string
}

// Parse splits raw script text on its marker line. A script with neither
// marker is treated as KindOutput with an empty expected block (the
// program must run without producing output or erroring).
func Parse(name, raw string) Script {
	if idx := strings.Index(raw, outputMarker); idx >= 0 {
		return Script{
			Name:     name,
			Source:   raw[:idx],
			Kind:     KindOutput,
			Expected: raw[idx+len(outputMarker):],
		}
	}
	if idx := strings.Index(raw, errorMarker); idx >= 0 {
		return Script{
			Name:     name,
			Source:   raw[:idx],
			Kind:     KindError,
			Expected: raw[idx+len(errorMarker):],
		}
	}
	return Script{Name: name, Source: raw, Kind: KindOutput}
}

// Result is what actually happened when a Script was run.
type Result struct {
	Output string
	Err    error
}

// Run lexes, parses, resolves, and interprets src, capturing stdout. It
// never returns a Go-level error for a Lox-level failure: a RuntimeError,
// parse error, resolve error, or scan error all come back in Result.Err so
// the caller can render it the same way the CLI would.
func Run(src string) Result {
	l := lexer.New(src)
	toks := l.ScanTokens()
	if errs := l.Errors(); len(errs) > 0 {
		return Result{Err: errs[0]}
	}

	program, err := parser.New(toks).Parse()
	if err != nil {
		return Result{Err: err}
	}

	locals, err := resolver.New().Resolve(program)
	if err != nil {
		return Result{Err: err}
	}

	var out bytes.Buffer
	it := interp.New()
	it.SetStdout(&out)
	if err := it.Interpret(program, locals); err != nil {
		return Result{Output: out.String(), Err: err}
	}
	return Result{Output: out.String()}
}

// Check runs s and reports whether the actual result matches what the
// marker block declared, returning a human-readable mismatch description
// when it doesn't (empty string on match).
func Check(s Script) string {
	res := Run(s.Source)
	want := strings.TrimSpace(s.Expected)

	switch s.Kind {
	case KindOutput:
		if res.Err != nil {
			return fmt.Sprintf("%s: expected output %q, got error %v", s.Name, want, res.Err)
		}
		got := strings.TrimSpace(res.Output)
		if got != want {
			return fmt.Sprintf("%s: output mismatch\n got:  %q\n want: %q", s.Name, got, want)
		}
	case KindError:
		if res.Err == nil {
			return fmt.Sprintf("%s: expected error %q, program ran to completion with output %q", s.Name, want, res.Output)
		}
		got := strings.TrimSpace(compactError(res.Err, s.Source, s.Name))
		if got != want {
			return fmt.Sprintf("%s: error mismatch\n got:  %q\n want: %q", s.Name, got, want)
		}
	}
	return ""
}

// compactError renders err in the "[line N] TOKEN : MESSAGE" form shared
// by every phase, regardless of which phase raised it.
func compactError(err error, source, file string) string {
	line, lexeme := locate(err)
	return errors.From(err, line, lexeme, source, file).Compact()
}

// locate extracts the line and lexeme each phase error type carries, since
// none of them share a common interface beyond error.
func locate(err error) (int, string) {
	switch e := err.(type) {
	case lexer.Error:
		return e.Line, ""
	case *parser.Error:
		return e.Line, e.Lexeme
	case *resolver.Error:
		return e.Line, e.Lexeme
	case *interp.RuntimeError:
		return e.Line, e.Lexeme
	default:
		return 0, ""
	}
}
