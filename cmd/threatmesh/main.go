package main

import (
	"os"

	"github.com/threatmesh-systems/threatmesh/cmd/threatmesh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
