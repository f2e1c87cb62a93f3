package cli

import (
	"fmt"

	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/repo/object"
	"github.com/avoro/tvc/internal/util"
)

// WithRepoCheck verifies object integrity before running the command
func WithRepoCheck() Middleware {
	return func(cmd Command) Command {
		return &WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *Context) error {
				r, err := repo.OpenAt(".", fs.NewOSFS())
				if err != nil {
					return err
				}
				refs, err := r.Objects.List()
				if err != nil {
					return err
				}
				for check := range r.Objects.Verify(refs, util.WorkerCount()) {
					if check.Status != object.OK {
						return fmt.Errorf(
							"object %q failed integrity check; run `tvc verify` before continuing",
							check.Ref,
						)
					}
				}
				return cmd.Run(ctx)
			},
		}
	}
}
