package main

import (
	"os"

	"github.com/soniaklein/HRF-Dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
