package main

import (
	"os"

	"github.com/inputscan/updater/client/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
