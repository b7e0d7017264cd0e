package main

import (
	"os"

	"github.com/arthur-debert/atfile/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
