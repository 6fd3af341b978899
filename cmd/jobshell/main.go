// Command jobshell is an interactive shell with job control.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jobshell: %v\n", err)
		os.Exit(1)
	}
}
