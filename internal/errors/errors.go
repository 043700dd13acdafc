// Package errors renders interpreter diagnostics (scan, parse, resolve, and
// runtime errors) for the CLI, in both the compact wire format the test
// harness expects and the REPL prints, and a source-pointing format for the
// run and parse commands.
package errors

import (
	"fmt"
	"strings"
)

// SourceError is any diagnostic that names a source line, a token lexeme
// (empty at end of input), and a message. Every phase's error type
// (lexer.Error, parser.Error, resolver.Error, interp.RuntimeError) is
// rendered through this shape rather than each owning its own formatter.
type SourceError struct {
	Line    int
	Lexeme  string
	Message string
	Source  string // full program text, for the caret-pointing render
	File    string // source file name, empty for stdin/REPL input
}

// Compact renders the one-line format the test harness compares against and
// the REPL prints: "[line N] TOKEN : MESSAGE".
func (e SourceError) Compact() string {
	tok := e.Lexeme
	if tok == "" {
		tok = "end"
	}
	return fmt.Sprintf("[line %d] %s : %s", e.Line, tok, e.Message)
}

// Detailed renders a multi-line, human-facing diagnostic: the file:line
// location and the message, then, when source text is available, the
// offending line with a caret under the first occurrence of the lexeme.
func (e SourceError) Detailed() string {
	var b strings.Builder

	location := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		location = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	fmt.Fprintf(&b, "%s: %s\n", location, e.Message)

	if line, ok := sourceLine(e.Source, e.Line); ok {
		b.WriteString("  " + line + "\n")
		if col := strings.Index(line, e.Lexeme); e.Lexeme != "" && col >= 0 {
			b.WriteString("  " + strings.Repeat(" ", col) + "^\n")
		}
	}

	return b.String()
}

func sourceLine(source string, line int) (string, bool) {
	if source == "" || line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// From wraps any phase error into a SourceError carrying the given source
// text and file name for rendering. line and lexeme are taken from the
// error's own fields by the caller, since lexer.Error, parser.Error,
// resolver.Error, and interp.RuntimeError each expose them differently.
func From(err error, line int, lexeme string, source, file string) SourceError {
	return SourceError{Line: line, Lexeme: lexeme, Message: stripLocation(err.Error()), Source: source, File: file}
}

// stripLocation removes a leading "[line N] TOKEN : " prefix if the wrapped
// error already rendered one, so Detailed doesn't show the location twice.
func stripLocation(msg string) string {
	if !strings.HasPrefix(msg, "[line ") {
		return msg
	}
	if idx := strings.Index(msg, " : "); idx >= 0 {
		return msg[idx+3:]
	}
	return msg
}
