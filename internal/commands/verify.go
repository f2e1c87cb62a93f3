package commands

import (
	"fmt"

	"github.com/avoro/tvc/internal/cli"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/repo/object"
	"github.com/avoro/tvc/internal/util"
)

// VerifyCommand checks the integrity of every stored object.
type VerifyCommand struct{}

func (c *VerifyCommand) Name() string      { return "verify" }
func (c *VerifyCommand) Usage() string     { return "verify" }
func (c *VerifyCommand) Brief() string     { return "Check object store integrity" }
func (c *VerifyCommand) Aliases() []string { return nil }
func (c *VerifyCommand) Short() string     { return "" }
func (c *VerifyCommand) Help() string {
	return `Rehash every object in the store and report missing or damaged ones.`
}

func (c *VerifyCommand) Run(ctx *cli.Context) error {
	r, err := repo.OpenAt(".", fs.NewOSFS())
	if err != nil {
		return err
	}

	refs, err := r.Objects.List()
	if err != nil {
		return err
	}

	var ok, missing, damaged int
	for check := range r.Objects.Verify(refs, util.WorkerCount()) {
		switch check.Status {
		case object.OK:
			ok++
		case object.Missing:
			missing++
			fmt.Printf("missing: %s\n", check.Ref)
		case object.Damaged:
			damaged++
			fmt.Printf("damaged: %s\n", check.Ref)
		}
	}

	fmt.Printf("%d object(s) checked: %d ok, %d missing, %d damaged\n",
		len(refs), ok, missing, damaged)
	if missing+damaged > 0 {
		return fmt.Errorf("object store verification failed")
	}
	return nil
}

func init() {
	cli.RegisterCommand(&VerifyCommand{})
}
