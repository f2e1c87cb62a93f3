package repo

import (
	"sort"

	"github.com/avoro/tvc/internal/repo/object"
)

// Status is the per-path comparison of last commit, index and working tree.
type Status struct {
	Staged    []string // index differs from last commit
	Modified  []string // working tree differs from index
	Untracked []string // working tree paths unknown to the index
}

// Status computes the repository status.
func (r *Repository) Status() (*Status, error) {
	entries, err := r.Index.Load()
	if err != nil {
		return nil, err
	}
	indexed := make(map[string]string, len(entries)) // path -> blob ref
	intent := make(map[string]bool)
	for _, e := range entries {
		indexed[e.Path] = e.Blob
		if e.IntentToAdd() {
			intent[e.Path] = true
		}
	}

	commit, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	headFiles := map[string]string{}
	if commit != nil {
		for p, fr := range commit.Files {
			headFiles[p] = fr.Blob
		}
	}

	worktree, err := r.ListWorktreeFiles()
	if err != nil {
		return nil, err
	}

	st := &Status{}

	for path, blob := range indexed {
		if intent[path] {
			continue // tracked but nothing staged yet
		}
		if headFiles[path] != blob {
			st.Staged = append(st.Staged, path)
		}
	}

	seen := make(map[string]bool, len(worktree))
	for _, path := range worktree {
		seen[path] = true
		blob, ok := indexed[path]
		if !ok {
			st.Untracked = append(st.Untracked, path)
			continue
		}
		data, err := r.ReadWorktreeFile(path)
		if err != nil {
			return nil, err
		}
		if intent[path] || object.Hash(data) != blob {
			st.Modified = append(st.Modified, path)
		}
	}

	// indexed paths deleted from the working tree are pending modifications
	for path := range indexed {
		if !seen[path] && !intent[path] {
			st.Modified = append(st.Modified, path)
		}
	}

	sort.Strings(st.Staged)
	sort.Strings(st.Modified)
	sort.Strings(st.Untracked)
	return st, nil
}
