package main

import (
	"os"

	"pet-market-engine/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stderr))
}
