// Command lox is the Lox interpreter's command-line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/loxscript/loxgo/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
