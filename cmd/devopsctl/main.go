package main

import (
	"fmt"
	"os"

	"aictl/internal/devopsctl"
)

func main() {
	if err := devopsctl.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
