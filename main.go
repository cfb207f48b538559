package main

import (
	"embed"
	"os"

	"todolist/internal/cli"
)

//go:embed templates static
var assetsFS embed.FS

func main() {
	if err := cli.Execute(cli.Assets{FS: assetsFS}); err != nil {
		os.Exit(1)
	}
}
