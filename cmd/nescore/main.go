// Command nescore loads iNES ROM images and runs them against the emulator
// core, either interactively or as a headless trace-diff harness.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
