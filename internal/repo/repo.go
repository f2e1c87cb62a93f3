package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avoro/tvc/internal/config"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo/index"
	"github.com/avoro/tvc/internal/repo/meta"
	"github.com/avoro/tvc/internal/repo/object"
)

// Repository is an explicit handle to one repository: its config plus the
// object, index and meta contexts. All operations go through it; there is no
// process-global repository state.
type Repository struct {
	Config  *config.RepoConfig
	FS      fs.FS
	Objects *object.Context
	Index   *index.Context
	Meta    *meta.MetaContext
}

func newRepository(workDir string, fsys fs.FS) *Repository {
	cfg := config.NewRepoConfig(workDir)
	return &Repository{
		Config:  cfg,
		FS:      fsys,
		Objects: object.NewContext(cfg.ObjectsPath(), fsys),
		Index:   index.NewContext(cfg.IndexPath(), fsys),
		Meta:    &meta.MetaContext{Config: cfg, FS: fsys},
	}
}

// InitAt initializes a repository at the provided working tree path.
// Returns (*Repository, created, error).
func InitAt(workDir string, fsys fs.FS) (*Repository, bool, error) {
	r := newRepository(workDir, fsys)

	if r.Meta.Exists() {
		return r, false, os.ErrExist
	}

	mc, err := meta.NewMeta(r.Config, fsys)
	if err != nil {
		return nil, false, fmt.Errorf("failed to init repository at %q: %w", workDir, err)
	}
	r.Meta = mc

	return r, true, nil
}

// OpenAt opens an existing repository.
func OpenAt(workDir string, fsys fs.FS) (*Repository, error) {
	r := newRepository(workDir, fsys)

	if !r.Meta.Exists() {
		return nil, fmt.Errorf("not a repository (missing %s)", config.HeadFile)
	}
	return r, nil
}

// WorktreePath resolves a repo-relative path inside the working tree.
func (r *Repository) WorktreePath(rel string) string {
	return filepath.Join(r.Config.WorkDir, filepath.FromSlash(rel))
}

// ReadWorktreeFile reads a file from the working tree. A missing file reads
// as empty content, which is how deletions enter a diff.
func (r *Repository) ReadWorktreeFile(rel string) ([]byte, error) {
	path := r.WorktreePath(rel)
	data, err := r.FS.ReadFile(path)
	if err != nil {
		if r.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read worktree file %q: %w", rel, err)
	}
	return data, nil
}

// HeadCommit returns the last commit of the current branch, or nil when the
// branch has no commits yet.
func (r *Repository) HeadCommit() (*meta.Commit, error) {
	branch, err := r.Meta.CurrentBranch()
	if err != nil {
		return nil, err
	}
	return r.Meta.GetLastCommitForBranch(branch)
}

// HeadFileContent returns the last-commit content of a path and whether the
// path exists in the last commit at all.
func (r *Repository) HeadFileContent(rel string) ([]byte, bool, error) {
	commit, err := r.HeadCommit()
	if err != nil {
		return nil, false, err
	}
	if commit == nil {
		return nil, false, nil
	}
	fr, ok := commit.Files[rel]
	if !ok {
		return nil, false, nil
	}
	data, err := r.Objects.Read(fr.Blob)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// StageFile stages the full working-tree content of a path: writes its blob
// and replaces the index entry.
func (r *Repository) StageFile(rel string) (index.Entry, error) {
	data, err := r.FS.ReadFile(r.WorktreePath(rel))
	if err != nil {
		return index.Entry{}, fmt.Errorf("stage %q: %w", rel, err)
	}

	blob, err := r.Objects.Write(data)
	if err != nil {
		return index.Entry{}, fmt.Errorf("stage %q: %w", rel, err)
	}

	entry := index.Entry{
		Path: rel,
		Blob: blob,
		Size: int64(len(data)),
		Mode: 0o644,
	}
	if err := r.Index.Set(entry); err != nil {
		return index.Entry{}, fmt.Errorf("stage %q: %w", rel, err)
	}
	return entry, nil
}

// ResetPathToHead reverts a path's index entry to the last-commit version,
// or removes the entry when the last commit does not contain the path.
func (r *Repository) ResetPathToHead(rel string) error {
	commit, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if commit != nil {
		if fr, ok := commit.Files[rel]; ok {
			return r.Index.Set(index.Entry{
				Path: rel,
				Blob: fr.Blob,
				Size: fr.Size,
				Mode: fr.Mode,
			})
		}
	}
	return r.Index.Remove(rel)
}

// Commit snapshots the current index as a new commit on the current branch.
// Intent-to-add entries have no content and are left pending.
func (r *Repository) Commit(message string) (*meta.Commit, error) {
	entries, err := r.Index.Load()
	if err != nil {
		return nil, err
	}

	files := make(map[string]meta.FileRef)
	for _, e := range entries {
		if e.IntentToAdd() {
			continue
		}
		files[e.Path] = meta.FileRef{Blob: e.Blob, Size: e.Size, Mode: e.Mode}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to commit")
	}

	branch, err := r.Meta.CurrentBranch()
	if err != nil {
		return nil, err
	}
	parentID, err := r.Meta.GetLastCommitID(branch)
	if err != nil {
		return nil, err
	}

	commit := &meta.Commit{
		Branch:    branch,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Files:     files,
	}
	if parentID != "" {
		commit.Parents = []string{parentID}
	}
	commit.ID = commit.ComputeID()

	if _, err := r.Meta.CreateCommit(commit); err != nil {
		return nil, err
	}
	if err := r.Meta.SetLastCommitID(branch, commit.ID); err != nil {
		return nil, err
	}
	return commit, nil
}

// ListWorktreeFiles walks the working tree and returns all file paths
// relative to the repository root, ignoring the repository dir itself.
func (r *Repository) ListWorktreeFiles() ([]string, error) {
	var files []string

	var walk func(rel string) error
	walk = func(rel string) error {
		abs := r.WorktreePath(rel)
		entries, err := r.FS.ReadDir(abs)
		if err != nil {
			return fmt.Errorf("read dir %q: %w", rel, err)
		}
		for _, e := range entries {
			if ignoredName(e.Name()) {
				continue
			}
			child := e.Name()
			if rel != "" {
				child = rel + "/" + e.Name()
			}
			if e.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			files = append(files, child)
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	return files, nil
}

func ignoredName(name string) bool {
	for _, ignored := range config.IgnoredNames {
		if name == ignored {
			return true
		}
	}
	return false
}
