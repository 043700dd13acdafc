// Package lox is the public, embeddable entry point to the interpreter: an
// Engine that turns Lox source into a Program (scanned, parsed, and
// resolved) and can run it against a configurable stdout.
package lox

import (
	"io"
	"os"

	"github.com/loxscript/loxgo/internal/ast"
	"github.com/loxscript/loxgo/internal/interp"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
)

// Engine holds the configuration shared across Parse/Compile/Run calls: the
// stdout "print" statements write to, and the environment a Run call
// evaluates against.
type Engine struct {
	stdout     io.Writer
	interp     *interp.Interpreter
	persistEnv bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithStdout redirects "print" output away from os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithPersistentEnvironment makes successive Run calls on the same Engine
// share one top-level environment, the way the REPL does, instead of each
// Run starting from fresh globals.
func WithPersistentEnvironment() Option {
	return func(e *Engine) { e.persistEnv = true }
}

// New constructs an Engine. With no options, output goes to os.Stdout and
// every Run call gets a fresh top-level environment.
func New(opts ...Option) *Engine {
	e := &Engine{stdout: os.Stdout}
	for _, opt := range opts {
		opt(e)
	}
	e.interp = interp.New()
	e.interp.SetStdout(e.stdout)
	return e
}

// Program is a scanned, parsed, and resolved Lox source unit, ready to
// Run without repeating the scan/parse/resolve pipeline.
type Program struct {
	tree   *ast.Program
	locals map[ast.Expression]int
}

// AST returns the parsed syntax tree.
func (p *Program) AST() *ast.Program { return p.tree }

// Parse scans and parses source, stopping before resolution. It's useful
// for tooling that only needs the AST shape (formatters, linters) and
// doesn't care whether variable references are well-scoped.
func (e *Engine) Parse(source string) (*ast.Program, error) {
	l := lexer.New(source)
	tokens := l.ScanTokens()
	if errs := l.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return parser.New(tokens).Parse()
}

// Compile scans, parses, and resolves source into a runnable Program.
func (e *Engine) Compile(source string) (*Program, error) {
	tree, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	locals, err := resolver.New().Resolve(tree)
	if err != nil {
		return nil, err
	}
	return &Program{tree: tree, locals: locals}, nil
}

// Run compiles and executes source in one step.
func (e *Engine) Run(source string) error {
	program, err := e.Compile(source)
	if err != nil {
		return err
	}
	return e.RunProgram(program)
}

// RunProgram executes an already-compiled Program. If the Engine was built
// with WithPersistentEnvironment, the same top-level environment persists
// across calls, so declarations from one Run remain visible to the next.
func (e *Engine) RunProgram(program *Program) error {
	if !e.persistEnv {
		e.interp = interp.New()
		e.interp.SetStdout(e.stdout)
	}
	return e.interp.Interpret(program.tree, program.locals)
}

// RunFile reads path and runs its contents.
func (e *Engine) RunFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return e.Run(string(content))
}
