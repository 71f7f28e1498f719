package main

import (
	"os"

	"github.com/GriffinCanCode/nbtools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
