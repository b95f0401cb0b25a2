// Package main provides the LeapBridge CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
