package main

import (
	"os"

	"github.com/ecmalabs/espatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
