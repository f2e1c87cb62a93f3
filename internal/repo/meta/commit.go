package meta

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"github.com/avoro/tvc/internal/util"
)

// FileRef records the staged content of one path inside a commit.
type FileRef struct {
	Blob string      `json:"blob"`
	Size int64       `json:"size"`
	Mode os.FileMode `json:"mode"`
}

type Commit struct {
	ID        string             `json:"id"`
	Parents   []string           `json:"parents"`
	Branch    string             `json:"branch"`
	Message   string             `json:"message"`
	Timestamp string             `json:"timestamp"`
	Files     map[string]FileRef `json:"files"`
}

// ComputeID derives the commit id from everything the commit snapshots.
func (c *Commit) ComputeID() string {
	h := xxh3.New()
	for _, p := range c.Parents {
		io.WriteString(h, p)
		io.WriteString(h, "\n")
	}
	io.WriteString(h, c.Branch)
	io.WriteString(h, c.Message)
	io.WriteString(h, c.Timestamp)
	for _, p := range util.SortedKeys(c.Files) {
		fr := c.Files[p]
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00%o\n", p, fr.Blob, fr.Size, fr.Mode)
	}
	sum := h.Sum128().Bytes()
	return hex.EncodeToString(sum[:])
}

// GetCommit reads a commit by ID.
func (mc *MetaContext) GetCommit(commitID string) (*Commit, error) {
	var c Commit
	path := filepath.Join(mc.Config.CommitsPath(), commitID+".json")
	if err := util.ReadJSON(mc.FS, path, &c); err != nil {
		return nil, fmt.Errorf("failed to read commit %q: %w", commitID, err)
	}
	return &c, nil
}

// CreateCommit writes a commit to the store.
func (mc *MetaContext) CreateCommit(commit *Commit) (string, error) {
	path := filepath.Join(mc.Config.CommitsPath(), commit.ID+".json")
	if err := util.WriteJSON(mc.FS, path, commit); err != nil {
		return "", fmt.Errorf("failed to write commit %q: %w", commit.ID, err)
	}
	return commit.ID, nil
}

// SetLastCommitID writes the branch last-commit pointer.
func (mc *MetaContext) SetLastCommitID(branch, commitID string) error {
	path := filepath.Join(mc.Config.BranchesPath(), branch)
	if err := mc.FS.WriteFile(path, []byte(commitID), 0o644); err != nil {
		return fmt.Errorf("failed to set last commit for branch %q: %w", branch, err)
	}
	return nil
}

// GetLastCommitID returns the last commit ID for branch, or "" when the
// branch has no commits yet.
func (mc *MetaContext) GetLastCommitID(branch string) (string, error) {
	path := filepath.Join(mc.Config.BranchesPath(), branch)
	data, err := mc.FS.ReadFile(path)
	if err != nil {
		if mc.FS.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read last commit for branch %q: %w", branch, err)
	}
	return string(data), nil
}

// AllCommitIDs returns all commit IDs for branch (latest -> oldest).
func (mc *MetaContext) AllCommitIDs(branch string) ([]string, error) {
	lastID, err := mc.GetLastCommitID(branch)
	if err != nil {
		return nil, err
	}
	if lastID == "" {
		return nil, nil
	}
	var ids []string
	seen := map[string]bool{}
	for id := lastID; id != ""; {
		if seen[id] {
			break
		}
		seen[id] = true
		ids = append(ids, id)

		c, err := mc.GetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %q: %w", id, err)
		}
		if len(c.Parents) == 0 || c.Parents[0] == "" {
			break
		}
		id = c.Parents[0]
	}
	return ids, nil
}

// GetCommitsForBranch returns []*Commit (latest -> oldest).
func (mc *MetaContext) GetCommitsForBranch(branch string) ([]*Commit, error) {
	ids, err := mc.AllCommitIDs(branch)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	commits := make([]*Commit, 0, len(ids))
	for _, id := range ids {
		c, err := mc.GetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %q: %w", id, err)
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// GetLastCommitForBranch returns the last commit for branch, or nil when the
// branch has no commits.
func (mc *MetaContext) GetLastCommitForBranch(branch string) (*Commit, error) {
	lastID, err := mc.GetLastCommitID(branch)
	if err != nil {
		return nil, err
	}
	if lastID == "" {
		return nil, nil
	}
	return mc.GetCommit(lastID)
}
