package main

import (
	"os"

	"github.com/madun-it/portfolio/cmd/portfolio/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
