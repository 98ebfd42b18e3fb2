package main

import (
	"fmt"
	"os"

	"github.com/nikolarss0n/legal-assistant/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
