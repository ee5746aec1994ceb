package main

import (
	"os"

	"github.com/omarselim/codeviz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
