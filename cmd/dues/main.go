package main

import (
	"os"

	"github.com/mmynk/dues/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
