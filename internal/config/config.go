package config

import "path/filepath"

const (
	RepoDir     = ".tvc"
	CommitsDir  = "commits"
	BranchesDir = "branches"
	ObjectsDir  = "objects"
	HeadFile    = "HEAD"
	IndexFile   = "index.json"
)

const (
	DefaultBranch = "main"
)

// IgnoredNames are worktree entries never tracked or scanned.
var IgnoredNames = []string{RepoDir}

// RepoConfig resolves all paths of one repository. It is an explicit value
// passed around instead of a process-global root.
type RepoConfig struct {
	WorkDir string // working tree root
	Root    string // repository dir (<WorkDir>/.tvc)
}

// NewRepoConfig builds a RepoConfig rooted at the given working tree.
func NewRepoConfig(workDir string) *RepoConfig {
	return &RepoConfig{
		WorkDir: workDir,
		Root:    filepath.Join(workDir, RepoDir),
	}
}

func (c *RepoConfig) CommitsPath() string  { return filepath.Join(c.Root, CommitsDir) }
func (c *RepoConfig) BranchesPath() string { return filepath.Join(c.Root, BranchesDir) }
func (c *RepoConfig) ObjectsPath() string  { return filepath.Join(c.Root, ObjectsDir) }
func (c *RepoConfig) HeadPath() string     { return filepath.Join(c.Root, HeadFile) }
func (c *RepoConfig) IndexPath() string    { return filepath.Join(c.Root, IndexFile) }
