package main

import (
	"fmt"
	"os"

	"github.com/blazeintel/havf-core/cmd"
)

func main() {
	root := cmd.RootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cmd.ExitCode(err))
}
