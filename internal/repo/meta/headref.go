package meta

import (
	"fmt"
	"strings"

	"github.com/avoro/tvc/internal/config"
)

const branchRefPrefix = "ref: branches/"

// CurrentBranch resolves the branch HEAD points at.
func (mc *MetaContext) CurrentBranch() (string, error) {
	data, err := mc.FS.ReadFile(mc.Config.HeadPath())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	ref := strings.TrimSpace(string(data))
	if !strings.HasPrefix(ref, branchRefPrefix) {
		return "", fmt.Errorf("unsupported HEAD ref %q", ref)
	}
	branch := strings.TrimPrefix(ref, branchRefPrefix)
	if branch == "" {
		return "", fmt.Errorf("empty branch name in HEAD")
	}
	return branch, nil
}

// SetHead points HEAD at the given branch.
func (mc *MetaContext) SetHead(branch string) error {
	if branch == "" {
		branch = config.DefaultBranch
	}
	content := branchRefPrefix + branch
	if err := mc.FS.WriteFile(mc.Config.HeadPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write HEAD: %w", err)
	}
	return nil
}
