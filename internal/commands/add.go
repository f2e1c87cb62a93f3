package commands

import (
	"fmt"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
)

// AddCommand stages whole files for the next commit.
type AddCommand struct{}

func (c *AddCommand) Name() string      { return "add" }
func (c *AddCommand) Usage() string     { return "add <file...|.>" }
func (c *AddCommand) Brief() string     { return "Stage files for the next commit" }
func (c *AddCommand) Aliases() []string { return nil }
func (c *AddCommand) Short() string     { return "a" }
func (c *AddCommand) Help() string {
	return `Stage full file contents.
Use 'add .' to stage every file in the working tree.
Use 'stage' to stage individual diff lines instead.`
}

func (c *AddCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 0 {
		return fmt.Errorf("no files specified")
	}

	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range ctx.Args {
		if arg == "." {
			all, err := r.ListWorktreeFiles()
			if err != nil {
				return err
			}
			paths = append(paths, all...)
		} else {
			paths = append(paths, arg)
		}
	}

	for _, path := range paths {
		if _, err := r.StageFile(path); err != nil {
			return err
		}
	}

	fmt.Printf("Staged %d file(s)\n", len(paths))
	return nil
}

func init() {
	cli.RegisterCommand(&AddCommand{})
}
