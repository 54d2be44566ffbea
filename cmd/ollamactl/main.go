package main

import (
	"fmt"
	"os"

	"aictl/internal/ollamactl"
)

func main() {
	if err := ollamactl.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
