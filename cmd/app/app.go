package main

import (
	"os"

	"github.com/DRSN-tech/image-search/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
