// Package main is the entry point for gamepass-scanner.
package main

import (
	"os"

	"github.com/donaldgifford/gamepass-price-scanner/cmd/gamepass-scanner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
