// Penman - LinkedIn posts in your own voice
package main

import (
	"os"

	"github.com/HartBrook/penman/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
