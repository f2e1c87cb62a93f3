package object

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/exp/mmap"

	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/util"
)

// Objects at or above this size are verified through a memory map instead of
// a full read into the heap.
const mmapThreshold = 8 * 1024 * 1024

// Status indicates the state of an object on disk.
type Status int

const (
	OK Status = iota
	Missing
	Damaged
)

// Check contains the verification result for a single object.
type Check struct {
	Ref    string
	Status Status
}

// Context handles all object-level storage operations (.tvc/objects).
// Objects are immutable and content-addressed: the ref of an object is the
// xxh3-128 hex digest of its exact byte content.
type Context struct {
	ObjectsDir string
	FS         fs.FS
}

// NewContext creates a new object Context.
func NewContext(dir string, fsys fs.FS) *Context {
	return &Context{ObjectsDir: dir, FS: fsys}
}

// Hash computes the content address of data.
func Hash(data []byte) string {
	h := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(h[:])
}

func (oc *Context) objectPath(ref string) string {
	return filepath.Join(oc.ObjectsDir, ref+".bin")
}

// Read retrieves an object by its ref.
func (oc *Context) Read(ref string) ([]byte, error) {
	data, err := oc.FS.ReadFile(oc.objectPath(ref))
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", ref, err)
	}
	return data, nil
}

// Write stores data as a new object and returns its ref. Writing content
// that already exists is a no-op; objects are never mutated in place.
func (oc *Context) Write(data []byte) (string, error) {
	ref := Hash(data)
	dst := oc.objectPath(ref)

	// Skip if object exists
	if fi, err := oc.FS.Stat(dst); err == nil && fi.Size() == int64(len(data)) {
		return ref, nil
	}

	if err := oc.FS.MkdirAll(oc.ObjectsDir, 0o755); err != nil {
		return "", fmt.Errorf("create objects dir: %w", err)
	}

	tmp, tmpPath, err := oc.FS.CreateTempFile(oc.ObjectsDir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp object in %q: %w", oc.ObjectsDir, err)
	}
	defer oc.FS.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp object: %w", err)
	}

	if err := oc.FS.Rename(tmpPath, dst); err != nil {
		return "", fmt.Errorf("rename temp %q to %q: %w", tmpPath, dst, err)
	}

	return ref, nil
}

// List returns the refs of all stored objects.
func (oc *Context) List() ([]string, error) {
	entries, err := oc.FS.ReadDir(oc.ObjectsDir)
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read objects dir: %w", err)
	}

	var refs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".bin") || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		refs = append(refs, strings.TrimSuffix(name, ".bin"))
	}
	return refs, nil
}

// Verify checks a set of object refs concurrently and streams results.
// VerifyObject maps errors into Status, so the worker always returns nil to
// ensure the whole set is processed.
func (oc *Context) Verify(refs []string, workers int) <-chan Check {
	out := make(chan Check, 128)
	if workers <= 0 {
		workers = util.WorkerCount()
	}

	go func() {
		defer close(out)
		_ = util.Parallel(refs, workers, func(ref string) error {
			status, _ := oc.VerifyObject(ref)
			out <- Check{Ref: ref, Status: status}
			return nil
		})
	}()

	return out
}

// VerifyObject checks a single object for integrity by rehashing its content.
func (oc *Context) VerifyObject(ref string) (Status, error) {
	path := oc.objectPath(ref)

	fi, err := oc.FS.Stat(path)
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return Missing, nil
		}
		return Damaged, err
	}

	var data []byte
	if fi.Size() >= mmapThreshold {
		r, err := mmap.Open(path)
		if err != nil {
			return Damaged, err
		}
		defer r.Close()
		data = make([]byte, r.Len())
		if _, err := r.ReadAt(data, 0); err != nil {
			return Damaged, err
		}
	} else {
		data, err = oc.FS.ReadFile(path)
		if err != nil {
			return Damaged, err
		}
	}

	if Hash(data) != ref {
		return Damaged, nil
	}
	return OK, nil
}

// CleanupTemp removes orphaned temp files from the objects dir.
func (oc *Context) CleanupTemp() error {
	entries, err := oc.FS.ReadDir(oc.ObjectsDir)
	if err != nil {
		if oc.FS.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), ".tmp-") {
			_ = oc.FS.Remove(filepath.Join(oc.ObjectsDir, e.Name()))
		}
	}
	return nil
}
