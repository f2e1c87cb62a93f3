package commands

import (
	"fmt"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
)

// StatusCommand shows staged, modified and untracked paths.
type StatusCommand struct{}

func (c *StatusCommand) Name() string      { return "status" }
func (c *StatusCommand) Usage() string     { return "status" }
func (c *StatusCommand) Brief() string     { return "Show the working tree status" }
func (c *StatusCommand) Aliases() []string { return nil }
func (c *StatusCommand) Short() string     { return "st" }
func (c *StatusCommand) Help() string {
	return `List paths whose index content differs from the last commit (staged),
paths whose working tree content differs from the index (modified), and
paths the index does not know about (untracked).`
}

func (c *StatusCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	st, err := r.Status()
	if err != nil {
		return err
	}

	printSection := func(title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Println(title)
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
	}

	printSection("Changes staged for commit:", st.Staged)
	printSection("Changes not staged:", st.Modified)
	printSection("Untracked files:", st.Untracked)

	if len(st.Staged)+len(st.Modified)+len(st.Untracked) == 0 {
		fmt.Println("Nothing to report, working tree clean")
	}
	return nil
}

func init() {
	cli.RegisterCommand(&StatusCommand{})
}
