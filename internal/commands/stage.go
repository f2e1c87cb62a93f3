package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/diff"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/staging"
	"github.com/avoro/tvc/internal/tui"
)

// StageCommand stages or unstages individual diff lines of one file.
type StageCommand struct{}

func (c *StageCommand) Name() string      { return "stage" }
func (c *StageCommand) Usage() string     { return "stage [-unstage] [-lines +N,-N,...] [-i] <file>" }
func (c *StageCommand) Brief() string     { return "Stage or unstage individual diff lines" }
func (c *StageCommand) Aliases() []string { return nil }
func (c *StageCommand) Short() string     { return "s" }
func (c *StageCommand) Help() string {
	return `Move selected diff lines into the index (or, with -unstage, back out
of it toward the last commit).

Lines are addressed by their diff coordinates: +N selects the line at
line number N of the newer snapshot (an added line), -N the line at
line number N of the older snapshot (a removed line). Without -unstage
the diff is working-tree-vs-index; with -unstage it is
index-vs-last-commit.

With -i an interactive picker opens instead: move with arrows or j/k,
toggle lines with space, apply with enter, quit with q.`
}

func (c *StageCommand) Run(ctx *cli.Context) error {
	var (
		unstage     bool
		interactive bool
		lineSpec    string
	)

	args := ctx.Args
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		switch {
		case args[0] == "-unstage":
			unstage = true
			args = args[1:]
		case args[0] == "-i":
			interactive = true
			args = args[1:]
		case args[0] == "-lines":
			if len(args) < 2 {
				return fmt.Errorf("-lines requires an argument")
			}
			lineSpec = args[1]
			args = args[2:]
		default:
			return fmt.Errorf("unknown flag %q", args[0])
		}
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	path := args[0]

	dir := staging.DirectionStage
	if unstage {
		dir = staging.DirectionUnstage
	}

	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	if interactive {
		return tui.Run(r, path, dir)
	}

	selection, err := parseSelection(lineSpec)
	if err != nil {
		return err
	}
	if len(selection) == 0 {
		return fmt.Errorf("no lines selected; pass -lines or -i")
	}

	if err := staging.StageLines(r, path, dir, selection); err != nil {
		return err
	}
	fmt.Printf("%sd %d line(s) of %s\n", dir, len(selection), path)
	return nil
}

// parseSelection turns "+2,+3,-5" into diff positions: +N addresses new line
// number N, -N old line number N.
func parseSelection(spec string) ([]diff.LinePosition, error) {
	if spec == "" {
		return nil, nil
	}
	var selection []diff.LinePosition
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if len(token) < 2 || (token[0] != '+' && token[0] != '-') {
			return nil, fmt.Errorf("bad line selector %q (want +N or -N)", token)
		}
		n, err := strconv.Atoi(token[1:])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad line number in selector %q", token)
		}
		if token[0] == '+' {
			selection = append(selection, diff.LinePosition{NewLineno: n})
		} else {
			selection = append(selection, diff.LinePosition{OldLineno: n})
		}
	}
	return selection, nil
}

func init() {
	cli.RegisterCommand(&StageCommand{})
}
