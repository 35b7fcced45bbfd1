// Command tracker is the operator CLI: it applies the schema, tracks and
// untracks repositories and runs history sync passes without the HTTP
// server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
