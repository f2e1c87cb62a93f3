package commands

import (
	"fmt"
	"strings"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
)

// CommitCommand snapshots the index as a new commit.
type CommitCommand struct{}

func (c *CommitCommand) Name() string      { return "commit" }
func (c *CommitCommand) Usage() string     { return "commit <message>" }
func (c *CommitCommand) Brief() string     { return "Record the staged changes as a commit" }
func (c *CommitCommand) Aliases() []string { return nil }
func (c *CommitCommand) Short() string     { return "c" }
func (c *CommitCommand) Help() string {
	return `Create a commit from the current index on the current branch.`
}

func (c *CommitCommand) Run(ctx *cli.Context) error {
	message := strings.TrimSpace(strings.Join(ctx.Args, " "))
	if message == "" {
		return fmt.Errorf("commit message required")
	}

	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	commit, err := r.Commit(message)
	if err != nil {
		return err
	}

	fmt.Printf("[%s] %s (%d file(s))\n", commit.ID[:12], commit.Message, len(commit.Files))
	return nil
}

func init() {
	cli.RegisterCommand(cli.ApplyMiddlewares(&CommitCommand{}, cli.WithRepoCheck()))
}
