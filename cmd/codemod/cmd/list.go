package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bblfsh/codemod/codemods"
)

const ListCommandDescription = "lists the registered codemods"

type ListCommand struct {
	out io.Writer
}

func (c *ListCommand) Execute(args []string) error {
	if c.out == nil {
		c.out = os.Stdout
	}
	for _, cm := range codemods.List() {
		notice.Fprint(c.out, cm.Name)
		if len(cm.Args) != 0 {
			fmt.Fprintf(c.out, " (%s)", strings.Join(cm.Args, ", "))
		}
		fmt.Fprintf(c.out, "\n    %s\n", cm.Description)
	}
	return nil
}
