package main

import (
	"os"

	"github.com/fhuszti/medias-conversion-ms/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
