package commands

import (
	"fmt"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/staging"
)

// DiffCommand prints the pending changes of one file.
type DiffCommand struct{}

func (c *DiffCommand) Name() string      { return "diff" }
func (c *DiffCommand) Usage() string     { return "diff [-cached] <file>" }
func (c *DiffCommand) Brief() string     { return "Show pending changes of a file" }
func (c *DiffCommand) Aliases() []string { return nil }
func (c *DiffCommand) Short() string     { return "d" }
func (c *DiffCommand) Help() string {
	return `Show the working-tree-vs-index diff of a file.
With -cached, show the index-vs-last-commit diff instead.`
}

func (c *DiffCommand) Run(ctx *cli.Context) error {
	args := ctx.Args
	dir := staging.DirectionStage
	if len(args) > 0 && args[0] == "-cached" {
		dir = staging.DirectionUnstage
		args = args[1:]
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	path := args[0]

	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	hunks, err := staging.HunksFor(r, path, dir)
	if err != nil {
		return err
	}

	for i := range hunks {
		hunk := &hunks[i]
		fmt.Println(hunk.Header())
		for _, line := range hunk.Lines {
			fmt.Printf("%c%s", line.Origin, line.Content)
			if len(line.Content) == 0 || line.Content[len(line.Content)-1] != '\n' {
				fmt.Println()
			}
		}
	}
	return nil
}

func init() {
	cli.RegisterCommand(&DiffCommand{})
}
