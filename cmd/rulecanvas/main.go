package main

import (
	"os"

	"github.com/calder/rulecanvas/cmd/rulecanvas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
