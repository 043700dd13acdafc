package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/loxscript/loxgo/internal/ast"
	"github.com/loxscript/loxgo/internal/config"
	"github.com/loxscript/loxgo/internal/errors"
	"github.com/loxscript/loxgo/internal/interp"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	evalExpr      string
	dumpAST       bool
	dumpJSON      bool
	traceResolver bool
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a Lox script",
	Long: `Execute a Lox program read from a file or given inline with -e.

With no script and no -e, run drops into the interactive REPL, the same
as invoking lox with no arguments at all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST instead of executing")
	runCmd.Flags().BoolVar(&dumpJSON, "json", false, "with --dump-ast, print the AST as JSON")
	runCmd.Flags().BoolVar(&traceResolver, "trace-resolver", false, "print each resolved local's scope distance")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string

	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filename, err)
		}
		source = string(content)
	default:
		return runREPL(nil, nil)
	}

	program, locals, cfg, err := compile(source, filename)
	if err != nil {
		return err
	}

	if dumpAST {
		return printAST(program)
	}

	if cfg.ClockEpoch == config.ClockEpochMonotonic {
		interp.SetClockEpoch(time.Now())
	}

	it := interp.New()
	it.SetStdout(os.Stdout)
	if err := it.Interpret(program, locals); err != nil {
		reportError(err, source, filename)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// compile runs source through the scan/parse/resolve pipeline used by the
// root command and "lox run", reporting the first error from whichever phase raised
// it in the CLI's detailed, caret-pointing format. It also returns the
// loaded .loxconfig.yaml so callers can act on fields beyond resolver
// tracing (e.g. clockEpoch) without reloading it themselves.
func compile(source, filename string) (*ast.Program, map[ast.Expression]int, *config.Config, error) {
	l := lexer.New(source)
	tokens := l.ScanTokens()
	if errs := l.Errors(); len(errs) > 0 {
		reportError(errs[0], source, filename)
		return nil, nil, nil, fmt.Errorf("scan failed with %d error(s)", len(errs))
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		reportError(err, source, filename)
		return nil, nil, nil, fmt.Errorf("parsing failed")
	}

	cfg, err := config.Load(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	r := resolver.New()
	locals, err := r.Resolve(program)
	if err != nil {
		reportError(err, source, filename)
		return nil, nil, nil, fmt.Errorf("resolution failed")
	}
	if traceResolver || cfg.TraceResolver {
		for expr, dist := range locals {
			fmt.Fprintf(os.Stderr, "resolved %T at line %d: distance %d\n", expr, expr.Line(), dist)
		}
	}

	return program, locals, cfg, nil
}

func printAST(program *ast.Program) error {
	if dumpJSON {
		doc, err := ast.ToJSON(program)
		if err != nil {
			return fmt.Errorf("failed to render AST as JSON: %w", err)
		}
		fmt.Println(doc)
		return nil
	}
	for _, stmt := range program.Statements {
		fmt.Println(stmt.String())
	}
	return nil
}

// reportError renders any phase error (lexer.Error, *parser.Error,
// *resolver.Error, *interp.RuntimeError) in the CLI's detailed form. Each
// phase error exposes Line/Lexeme differently, so errLocation extracts them
// with a type switch rather than a shared interface.
func reportError(err error, source, filename string) {
	line, lexeme := errLocation(err)
	se := errors.From(err, line, lexeme, source, filename)
	fmt.Fprint(os.Stderr, se.Detailed())
}

func errLocation(err error) (int, string) {
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
