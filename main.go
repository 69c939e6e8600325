package main

import (
	"os"

	"github.com/randofan/varsitylink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
