package main

import (
	"os"

	"github.com/andrej220/modexec/internal/cli"
)

func main() {
	os.Exit(cli.Execute(newRootCmd(defaultRunner), os.Stderr))
}
