package main

import (
	"os"

	"github.com/rskv-p/htree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
