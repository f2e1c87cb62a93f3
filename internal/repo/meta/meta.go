package meta

import (
	"fmt"
	"path/filepath"

	"github.com/avoro/tvc/internal/config"
	"github.com/avoro/tvc/internal/fs"
)

// MetaContext gives access to commit metadata, branches and HEAD.
type MetaContext struct {
	Config *config.RepoConfig
	FS     fs.FS
}

// NewMeta ensures a repository meta structure exists at the configured root.
// It will create all necessary structure if missing.
func NewMeta(cfg *config.RepoConfig, fsys fs.FS) (*MetaContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}

	mc := &MetaContext{Config: cfg, FS: fsys}

	if mc.Exists() {
		return mc, nil
	}

	if err := mc.createStructure(); err != nil {
		return nil, err
	}
	return mc, nil
}

// createStructure builds a fresh meta layout and writes defaults.
func (mc *MetaContext) createStructure() error {
	dirs := []string{
		mc.Config.Root,
		mc.Config.CommitsPath(),
		mc.Config.BranchesPath(),
		mc.Config.ObjectsPath(),
	}
	for _, d := range dirs {
		if err := mc.FS.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create dir %q: %w", d, err)
		}
	}

	mainBranch := filepath.Join(mc.Config.BranchesPath(), config.DefaultBranch)
	if err := mc.FS.WriteFile(mainBranch, []byte(""), 0o644); err != nil {
		return fmt.Errorf("failed to create default branch: %w", err)
	}

	headContent := "ref: branches/" + config.DefaultBranch
	if err := mc.FS.WriteFile(mc.Config.HeadPath(), []byte(headContent), 0o644); err != nil {
		return fmt.Errorf("failed to write HEAD: %w", err)
	}

	return nil
}

// Exists checks whether the configured root holds an initialized repository.
func (mc *MetaContext) Exists() bool {
	fi, err := mc.FS.Stat(mc.Config.HeadPath())
	return err == nil && !fi.IsDir()
}
