package main

import (
	"os"

	"formulastats/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
