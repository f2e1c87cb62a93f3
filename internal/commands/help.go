package commands

import (
	"fmt"
	"sort"

	"github.com/avoro/tvc/internal/cli"
)

// HelpCommand prints usage for one or all commands.
type HelpCommand struct{}

func (c *HelpCommand) Name() string      { return "help" }
func (c *HelpCommand) Usage() string     { return "help [command]" }
func (c *HelpCommand) Brief() string     { return "Show help for commands" }
func (c *HelpCommand) Aliases() []string { return nil }
func (c *HelpCommand) Short() string     { return "h" }
func (c *HelpCommand) Help() string {
	return `Without arguments, list all commands. With a command name, show its
usage and description.`
}

func (c *HelpCommand) Run(ctx *cli.Context) error {
	if len(ctx.Args) == 1 {
		cmd, ok := cli.GetCommand(ctx.Args[0])
		if !ok {
			return fmt.Errorf("unknown command: %s", ctx.Args[0])
		}
		fmt.Printf("Usage: tvc %s\n\n%s\n", cmd.Usage(), cmd.Help())
		return nil
	}

	cmds := cli.AllCommands()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })

	fmt.Println("Available commands:")
	for _, cmd := range cmds {
		fmt.Printf("  %-8s %s\n", cmd.Name(), cmd.Brief())
	}
	return nil
}

func init() {
	cli.RegisterCommand(&HelpCommand{})
}
