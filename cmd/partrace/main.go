package main

import (
	"os"

	"github.com/partrace/partrace/cmd/partrace/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
