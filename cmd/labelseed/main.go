package main

import (
	"os"

	"github.com/pharmadex/labelseed/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
