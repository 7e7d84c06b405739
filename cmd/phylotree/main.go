// Package main provides the phylotree command.
package main

import (
	"os"

	"github.com/leapstack-labs/phylotree/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
