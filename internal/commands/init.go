package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
)

// InitCommand creates a new repository in the current directory.
type InitCommand struct{}

func (c *InitCommand) Name() string      { return "init" }
func (c *InitCommand) Usage() string     { return "init" }
func (c *InitCommand) Brief() string     { return "Initialize a new repository" }
func (c *InitCommand) Aliases() []string { return nil }
func (c *InitCommand) Short() string     { return "" }
func (c *InitCommand) Help() string {
	return `Create an empty tvc repository in the current directory.`
}

func (c *InitCommand) Run(ctx *cli.Context) error {
	_, created, err := repo.InitAt(".", fs.NewOSFS())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("repository already exists")
		}
		return err
	}
	if created {
		fmt.Println("Initialized empty repository")
	}
	return nil
}

func init() {
	cli.RegisterCommand(&InitCommand{})
}
