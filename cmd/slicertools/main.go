package main

import (
	"os"

	"github.com/A2B-Technology-Corporation/SlicerTools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
