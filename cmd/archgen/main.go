// Command archgen compiles architecture plans into diagrams.
package main

import (
	"os"

	"github.com/archgen/archgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
