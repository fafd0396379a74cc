package main

import (
	"os"

	"github.com/obentoo/bentoo-agents/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.NewUninstallCommand()))
}
