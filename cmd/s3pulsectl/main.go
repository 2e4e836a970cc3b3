package main

import (
	"os"

	"github.com/driftline-systems/s3pulse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
