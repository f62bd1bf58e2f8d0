// Command claimctl talks to the claims backend from a terminal: it submits
// claims described in YAML through the same form engine the browser uses,
// prints the document-number rules and searches locations and calling codes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
