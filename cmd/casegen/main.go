package main

import (
	"os"

	"github.com/JeremiahSanders/testingutils-xunit-extras/cmd/casegen/commands"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
