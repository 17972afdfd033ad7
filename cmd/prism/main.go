// Command prism converts quantities between units and standardizes meter readings.
package main

import (
	"os"

	"github.com/renjie/prism-qudt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
