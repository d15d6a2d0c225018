package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/bblfsh/codemod/cmd/codemod/cmd"
)

var version string
var build string

func main() {
	parser := flags.NewNamedParser("codemod", flags.Default)
	parser.AddCommand("parse", cmd.ParseCommandDescription, "", &cmd.ParseCommand{})
	parser.AddCommand("query", cmd.QueryCommandDescription, "", &cmd.QueryCommand{})
	parser.AddCommand("run", cmd.RunCommandDescription, "", &cmd.RunCommand{})
	parser.AddCommand("list", cmd.ListCommandDescription, "", &cmd.ListCommand{})

	if _, err := parser.Parse(); err != nil {
		if _, ok := err.(*flags.Error); ok {
			parser.WriteHelp(os.Stdout)
			fmt.Printf("\nBuild information\n  commit: %s\n  date:%s\n", version, build)
		}

		os.Exit(1)
	}
}
