package commands

import (
	"fmt"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
)

// LogCommand lists the commits of the current branch.
type LogCommand struct{}

func (c *LogCommand) Name() string      { return "log" }
func (c *LogCommand) Usage() string     { return "log" }
func (c *LogCommand) Brief() string     { return "Show commit history" }
func (c *LogCommand) Aliases() []string { return nil }
func (c *LogCommand) Short() string     { return "l" }
func (c *LogCommand) Help() string {
	return `Show the commits of the current branch, latest first.`
}

func (c *LogCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	branch, err := r.Meta.CurrentBranch()
	if err != nil {
		return err
	}
	commits, err := r.Meta.GetCommitsForBranch(branch)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		fmt.Printf("No commits on branch %q yet\n", branch)
		return nil
	}

	for _, commit := range commits {
		fmt.Printf("%s  %s  %s\n", commit.ID[:12], commit.Timestamp, commit.Message)
	}
	return nil
}

func init() {
	cli.RegisterCommand(&LogCommand{})
}
