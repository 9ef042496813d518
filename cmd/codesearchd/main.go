// Command codesearchd is the CLI entrypoint for the code-search core.
package main

import (
	"fmt"
	"os"

	"github.com/codesearchcore/codesearchcore/cmd/codesearchd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
