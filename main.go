package main

import (
	"os"

	"github.com/fmuoria/interview-organizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
