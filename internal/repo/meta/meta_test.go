package meta_test

import (
	"testing"

	"github.com/avoro/tvc/internal/config"
	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo/meta"
)

func newMeta(t *testing.T) *meta.MetaContext {
	t.Helper()
	cfg := config.NewRepoConfig("work")
	mc, err := meta.NewMeta(cfg, fs.NewMemoryFS())
	if err != nil {
		t.Fatalf("NewMeta: %v", err)
	}
	return mc
}

func TestNewMetaCreatesStructure(t *testing.T) {
	mc := newMeta(t)

	if !mc.Exists() {
		t.Fatal("Exists() = false after NewMeta")
	}
	for _, p := range []string{
		mc.Config.CommitsPath(),
		mc.Config.BranchesPath(),
		mc.Config.ObjectsPath(),
	} {
		if !mc.FS.Exists(p) {
			t.Fatalf("missing %q", p)
		}
	}

	branch, err := mc.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != config.DefaultBranch {
		t.Fatalf("CurrentBranch = %q, want %q", branch, config.DefaultBranch)
	}
}

func TestNewMetaIsIdempotent(t *testing.T) {
	cfg := config.NewRepoConfig("work")
	fsys := fs.NewMemoryFS()

	if _, err := meta.NewMeta(cfg, fsys); err != nil {
		t.Fatalf("NewMeta: %v", err)
	}
	if _, err := meta.NewMeta(cfg, fsys); err != nil {
		t.Fatalf("second NewMeta: %v", err)
	}
}

func TestCommitRoundTrip(t *testing.T) {
	mc := newMeta(t)

	c := &meta.Commit{
		Branch:    "main",
		Message:   "first",
		Timestamp: "2026-01-02T03:04:05Z",
		Files: map[string]meta.FileRef{
			"a.txt": {Blob: "abc123", Size: 3, Mode: 0o644},
		},
	}
	c.ID = c.ComputeID()

	if _, err := mc.CreateCommit(c); err != nil {
		t.Fatalf("CreateCommit: %v", err)
	}

	got, err := mc.GetCommit(c.ID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if got.Message != c.Message || got.Timestamp != c.Timestamp {
		t.Fatalf("GetCommit = %+v, want %+v", got, c)
	}
	if got.Files["a.txt"].Blob != "abc123" {
		t.Fatalf("Files = %v", got.Files)
	}
}

func TestComputeIDDependsOnContent(t *testing.T) {
	base := meta.Commit{
		Branch:    "main",
		Message:   "msg",
		Timestamp: "2026-01-02T03:04:05Z",
		Files:     map[string]meta.FileRef{"a": {Blob: "x"}},
	}

	other := base
	other.Message = "different"
	if base.ComputeID() == other.ComputeID() {
		t.Fatal("commits with different messages must not share an ID")
	}

	same := base
	if base.ComputeID() != same.ComputeID() {
		t.Fatal("ComputeID must be deterministic")
	}
}

func TestLastCommitID(t *testing.T) {
	mc := newMeta(t)

	id, err := mc.GetLastCommitID("main")
	if err != nil {
		t.Fatalf("GetLastCommitID: %v", err)
	}
	if id != "" {
		t.Fatalf("fresh branch id = %q, want empty", id)
	}

	if err := mc.SetLastCommitID("main", "c1"); err != nil {
		t.Fatalf("SetLastCommitID: %v", err)
	}
	id, err = mc.GetLastCommitID("main")
	if err != nil {
		t.Fatalf("GetLastCommitID: %v", err)
	}
	if id != "c1" {
		t.Fatalf("id = %q, want c1", id)
	}

	id, err = mc.GetLastCommitID("no-such-branch")
	if err != nil {
		t.Fatalf("GetLastCommitID(unknown): %v", err)
	}
	if id != "" {
		t.Fatalf("unknown branch id = %q, want empty", id)
	}
}

func TestAllCommitIDsWalksParentChain(t *testing.T) {
	mc := newMeta(t)

	first := &meta.Commit{Branch: "main", Message: "one", Timestamp: "t1"}
	first.ID = first.ComputeID()
	second := &meta.Commit{Branch: "main", Message: "two", Timestamp: "t2", Parents: []string{first.ID}}
	second.ID = second.ComputeID()

	for _, c := range []*meta.Commit{first, second} {
		if _, err := mc.CreateCommit(c); err != nil {
			t.Fatalf("CreateCommit: %v", err)
		}
	}
	if err := mc.SetLastCommitID("main", second.ID); err != nil {
		t.Fatalf("SetLastCommitID: %v", err)
	}

	ids, err := mc.AllCommitIDs("main")
	if err != nil {
		t.Fatalf("AllCommitIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != second.ID || ids[1] != first.ID {
		t.Fatalf("AllCommitIDs = %v, want [%s %s]", ids, second.ID, first.ID)
	}
}

func TestSetHead(t *testing.T) {
	mc := newMeta(t)

	if err := mc.SetHead("feature"); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	branch, err := mc.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "feature" {
		t.Fatalf("CurrentBranch = %q, want feature", branch)
	}

	if err := mc.SetHead(""); err != nil {
		t.Fatalf("SetHead(\"\"): %v", err)
	}
	branch, err = mc.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != config.DefaultBranch {
		t.Fatalf("CurrentBranch = %q, want default", branch)
	}
}
