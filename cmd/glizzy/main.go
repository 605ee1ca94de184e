package main

import (
	"os"

	"github.com/dogpound/glizzy/cmd/glizzy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
