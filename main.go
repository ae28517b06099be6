package main

import (
	"os"

	"saleseda/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app := cli.NewCLIApp(version)
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
