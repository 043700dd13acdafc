package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, set by -ldflags at build time.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "lox [script]",
	Short: "An interpreter for the Lox language",
	Long: `lox is a tree-walking interpreter for Lox.

With no arguments it starts an interactive REPL. With one argument it
runs the given script file. Subcommands (lex, parse, repl, version)
expose the individual pipeline stages for debugging.`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runScript,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("lox version {{.Version}}\nCommit: %s\nBuilt:  %s\n", GitCommit, BuildDate))

	rootCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST instead of executing")
	rootCmd.Flags().BoolVar(&dumpJSON, "json", false, "with --dump-ast, print the AST as JSON")
	rootCmd.Flags().BoolVar(&traceResolver, "trace-resolver", false, "print each resolved local's scope distance")
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	return rootCmd.Execute()
}
