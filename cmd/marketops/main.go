package main

import (
	"os"

	"github.com/marketops/console/cmd/marketops/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
