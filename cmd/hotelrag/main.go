// Package main is the hotelrag CLI entry point.
package main

import (
	"os"

	"github.com/hyperjump/hotelrag/cmd/hotelrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
