package repo_test

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/repo/object"
)

func initRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, created, err := repo.InitAt(t.TempDir(), fs.NewOSFS())
	if err != nil {
		t.Fatalf("InitAt: %v", err)
	}
	if !created {
		t.Fatal("InitAt reported created = false for a fresh dir")
	}
	return r
}

func write(t *testing.T, r *repo.Repository, rel, content string) {
	t.Helper()
	if err := r.FS.WriteFile(r.WorktreePath(rel), []byte(content), 0o644); err != nil {
		t.Fatalf("write %q: %v", rel, err)
	}
}

func TestInitAtExisting(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := repo.InitAt(dir, fs.NewOSFS()); err != nil {
		t.Fatalf("InitAt: %v", err)
	}

	_, created, err := repo.InitAt(dir, fs.NewOSFS())
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("second InitAt err = %v, want os.ErrExist", err)
	}
	if created {
		t.Fatal("second InitAt reported created = true")
	}
}

func TestOpenAt(t *testing.T) {
	dir := t.TempDir()
	if _, err := repo.OpenAt(dir, fs.NewOSFS()); err == nil {
		t.Fatal("OpenAt succeeded on a non-repository dir")
	}

	if _, _, err := repo.InitAt(dir, fs.NewOSFS()); err != nil {
		t.Fatalf("InitAt: %v", err)
	}
	if _, err := repo.OpenAt(dir, fs.NewOSFS()); err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
}

func TestStageFileAndCommit(t *testing.T) {
	r := initRepo(t)
	write(t, r, "a.txt", "hello\n")

	entry, err := r.StageFile("a.txt")
	if err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if entry.Blob != object.Hash([]byte("hello\n")) {
		t.Fatalf("entry blob = %q, want content hash", entry.Blob)
	}

	commit, err := r.Commit("initial")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if commit.ID == "" {
		t.Fatal("commit has empty ID")
	}
	if len(commit.Parents) != 0 {
		t.Fatalf("first commit has parents %v", commit.Parents)
	}

	data, ok, err := r.HeadFileContent("a.txt")
	if err != nil {
		t.Fatalf("HeadFileContent: %v", err)
	}
	if !ok || string(data) != "hello\n" {
		t.Fatalf("HeadFileContent = %q, %v", data, ok)
	}
}

func TestCommitChainsParents(t *testing.T) {
	r := initRepo(t)

	write(t, r, "a.txt", "one\n")
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	first, err := r.Commit("one")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	write(t, r, "a.txt", "two\n")
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	second, err := r.Commit("two")
	if err != nil {
		t.Fatalf("second Commit: %v", err)
	}

	if len(second.Parents) != 1 || second.Parents[0] != first.ID {
		t.Fatalf("second commit parents = %v, want [%s]", second.Parents, first.ID)
	}

	ids, err := r.Meta.AllCommitIDs("main")
	if err != nil {
		t.Fatalf("AllCommitIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != second.ID || ids[1] != first.ID {
		t.Fatalf("AllCommitIDs = %v", ids)
	}
}

func TestCommitNothingStaged(t *testing.T) {
	r := initRepo(t)
	if _, err := r.Commit("empty"); err == nil {
		t.Fatal("Commit succeeded with an empty index")
	}
}

func TestReadWorktreeFileMissing(t *testing.T) {
	r := initRepo(t)
	data, err := r.ReadWorktreeFile("absent.txt")
	if err != nil {
		t.Fatalf("ReadWorktreeFile: %v", err)
	}
	if data != nil {
		t.Fatalf("missing file read as %q, want nil", data)
	}
}

func TestResetPathToHead(t *testing.T) {
	r := initRepo(t)
	write(t, r, "a.txt", "committed\n")
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	write(t, r, "a.txt", "changed\n")
	if _, err := r.StageFile("a.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}

	if err := r.ResetPathToHead("a.txt"); err != nil {
		t.Fatalf("ResetPathToHead: %v", err)
	}
	entry, err := r.Index.Get("a.txt")
	if err != nil {
		t.Fatalf("Index.Get: %v", err)
	}
	if entry == nil || entry.Blob != object.Hash([]byte("committed\n")) {
		t.Fatalf("entry after reset = %+v", entry)
	}

	// a path the last commit does not know leaves the index entirely
	write(t, r, "b.txt", "new\n")
	if _, err := r.StageFile("b.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if err := r.ResetPathToHead("b.txt"); err != nil {
		t.Fatalf("ResetPathToHead: %v", err)
	}
	entry, err = r.Index.Get("b.txt")
	if err != nil {
		t.Fatalf("Index.Get: %v", err)
	}
	if entry != nil {
		t.Fatalf("entry after reset = %+v, want nil", entry)
	}
}

func TestStatus(t *testing.T) {
	r := initRepo(t)

	write(t, r, "committed.txt", "c\n")
	if _, err := r.StageFile("committed.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	write(t, r, "staged.txt", "s\n")
	if _, err := r.StageFile("staged.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	write(t, r, "committed.txt", "modified\n")
	write(t, r, "untracked.txt", "u\n")

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if !reflect.DeepEqual(st.Staged, []string{"staged.txt"}) {
		t.Fatalf("Staged = %v", st.Staged)
	}
	if !reflect.DeepEqual(st.Modified, []string{"committed.txt"}) {
		t.Fatalf("Modified = %v", st.Modified)
	}
	if !reflect.DeepEqual(st.Untracked, []string{"untracked.txt"}) {
		t.Fatalf("Untracked = %v", st.Untracked)
	}
}

func TestStatusDeletedIndexedFile(t *testing.T) {
	r := initRepo(t)

	write(t, r, "gone.txt", "g\n")
	if _, err := r.StageFile("gone.txt"); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if _, err := r.Commit("initial"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.FS.Remove(r.WorktreePath("gone.txt")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !reflect.DeepEqual(st.Modified, []string{"gone.txt"}) {
		t.Fatalf("Modified = %v", st.Modified)
	}
}

func TestListWorktreeFilesSkipsRepoDir(t *testing.T) {
	r := initRepo(t)
	write(t, r, "top.txt", "t\n")
	if err := r.FS.MkdirAll(r.WorktreePath("sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	write(t, r, "sub/nested.txt", "n\n")

	files, err := r.ListWorktreeFiles()
	if err != nil {
		t.Fatalf("ListWorktreeFiles: %v", err)
	}

	want := map[string]bool{"top.txt": true, "sub/nested.txt": true}
	if len(files) != len(want) {
		t.Fatalf("ListWorktreeFiles = %v", files)
	}
	for _, f := range files {
		if !want[f] {
			t.Fatalf("unexpected file %q", f)
		}
	}
}
