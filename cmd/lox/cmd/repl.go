package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/loxscript/loxgo/internal/config"
	"github.com/loxscript/loxgo/internal/errors"
	"github.com/loxscript/loxgo/internal/interp"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/loxscript/loxgo/internal/resolver"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Lox prompt",
	Long: `Read Lox statements from standard input, one line at a time, and
evaluate each against a persistent top-level environment so that variables,
functions, and classes declared on one line remain visible on the next.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.ClockEpoch == config.ClockEpochMonotonic {
		interp.SetClockEpoch(time.Now())
	}

	it := interp.New()
	it.SetStdout(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, cfg.Prompt)
	for scanner.Scan() {
		line := scanner.Text()
		evalLine(it, line)
		fmt.Fprint(os.Stdout, cfg.Prompt)
	}
	fmt.Fprintln(os.Stdout)

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading standard input: %w", err)
	}
	return nil
}

// evalLine runs a single REPL line through the pipeline against it's
// existing environment, printing any error to standard error without
// aborting the session.
func evalLine(it *interp.Interpreter, line string) {
	if line == "" {
		return
	}

	l := lexer.New(line)
	tokens := l.ScanTokens()
	if errs := l.Errors(); len(errs) > 0 {
		printREPLError(errs[0], line)
		return
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		printREPLError(err, line)
		return
	}

	locals, err := resolver.New().Resolve(program)
	if err != nil {
		printREPLError(err, line)
		return
	}

	if err := it.Interpret(program, locals); err != nil {
		printREPLError(err, line)
	}
}

func printREPLError(err error, line string) {
	l, lexeme := errLocation(err)
	se := errors.From(err, l, lexeme, line, "")
	fmt.Fprintln(os.Stderr, se.Compact())
}
