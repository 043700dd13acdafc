package cmd

import (
	"fmt"
	"os"

	"github.com/loxscript/loxgo/internal/lexer"
	"github.com/loxscript/loxgo/pkg/token"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <script>",
	Short: "Print the token stream for a Lox script",
	Long:  `Scan a Lox file and print each token, one per line. Useful for debugging the scanner.`,
	Args:  cobra.ExactArgs(1),
	RunE:  lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func lexScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	l := lexer.New(string(content))
	for _, tok := range l.ScanTokens() {
		printToken(tok)
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("scanning failed with %d error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	if tok.Literal != nil {
		fmt.Printf("%-14s %-10q @line %d (%v)\n", tok.Kind, tok.Lexeme, tok.Line, tok.Literal)
		return
	}
	fmt.Printf("%-14s %-10q @line %d\n", tok.Kind, tok.Lexeme, tok.Line)
}
