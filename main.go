package main

import (
	"os"

	"github.com/Claudio-NG/FROTAS/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
