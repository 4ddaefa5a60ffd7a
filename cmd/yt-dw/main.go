// Package main is the entry point for the yt-dw application.
package main

import (
	"os"

	"github.com/TEGAR-SRC/yt-dw/cmd/yt-dw/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
