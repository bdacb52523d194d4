package main

import (
	"os"

	"github.com/jhoicas/pos-api/cmd/posctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
