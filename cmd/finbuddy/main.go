package main

import (
	"os"

	"finbuddy/cmd/finbuddy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
