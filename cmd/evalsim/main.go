package main

import (
	"os"

	"github.com/rustyeddy/evalsim/cmd/evalsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
