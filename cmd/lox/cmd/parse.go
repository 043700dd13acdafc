package cmd

import (
	"fmt"
	"os"

	"github.com/loxscript/loxgo/internal/ast"
	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/internal/parser"
	"github.com/spf13/cobra"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse <script>",
	Short: "Parse a Lox script and print its AST",
	Long:  `Scan and parse a Lox file and print the resulting AST, without resolving or executing it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the AST as JSON")
}

func parseScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	source := string(content)

	l := lexer.New(source)
	tokens := l.ScanTokens()
	if errs := l.Errors(); len(errs) > 0 {
		reportError(errs[0], source, filename)
		return fmt.Errorf("scan failed with %d error(s)", len(errs))
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		reportError(err, source, filename)
		return fmt.Errorf("parsing failed")
	}

	if parseJSON {
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
