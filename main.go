package main

import (
	"os"

	"github.com/rivalscan/rivalscan/internal/cmd"
)

func main() {
	// Cobra prints the error itself; just map it to the exit code.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
