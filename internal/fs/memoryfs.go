package fs

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemoryFS is a pure in-memory filesystem for tests or lightweight storage.
type MemoryFS struct {
	files  map[string][]byte
	dirs   map[string]struct{}
	tmpSeq int
}

func NewMemoryFS() *MemoryFS {
	f := &MemoryFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
	f.dirs["/"] = struct{}{}
	f.dirs["."] = struct{}{}
	return f
}

// normalize paths
func clean(p string) string {
	if p == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func (f *MemoryFS) ensureDirExists(p string) error {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return fs.ErrNotExist
	}
	return nil
}

// FS interface implementation

func (f *MemoryFS) Open(p string) (io.ReadSeekCloser, error) {
	p = clean(p)
	data, ok := f.files[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &memReadSeekCloser{Reader: bytes.NewReader(data)}, nil
}

type memReadSeekCloser struct {
	*bytes.Reader
}

func (m *memReadSeekCloser) Close() error { return nil }

func (f *MemoryFS) ReadFile(p string) ([]byte, error) {
	p = clean(p)
	data, ok := f.files[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (f *MemoryFS) WriteFile(p string, data []byte, perm os.FileMode) error {
	p = clean(p)
	dir := path.Dir(p)
	if err := f.ensureDirExists(dir); err != nil {
		return fmt.Errorf("write: dir %q does not exist", dir)
	}
	f.files[p] = append([]byte(nil), data...)
	return nil
}

func (f *MemoryFS) MkdirAll(p string, perm os.FileMode) error {
	p = clean(p)
	parts := strings.Split(p, "/")
	cur := ""
	for _, seg := range parts {
		if seg == "" || seg == "." {
			continue
		}
		cur = path.Join(cur, seg)
		if _, ok := f.dirs[cur]; !ok {
			f.dirs[cur] = struct{}{}
		}
	}
	return nil
}

func (f *MemoryFS) Remove(p string) error {
	p = clean(p)
	if _, ok := f.files[p]; ok {
		delete(f.files, p)
		return nil
	}
	if _, ok := f.dirs[p]; ok {
		delete(f.dirs, p)
		return nil
	}
	return fs.ErrNotExist
}

func (f *MemoryFS) Rename(oldp, newp string) error {
	oldp, newp = clean(oldp), clean(newp)

	// file rename
	if data, ok := f.files[oldp]; ok {
		dir := path.Dir(newp)
		if f.ensureDirExists(dir) != nil {
			return fs.ErrNotExist
		}
		delete(f.files, oldp)
		f.files[newp] = data
		return nil
	}

	// dir rename
	if _, ok := f.dirs[oldp]; ok {
		delete(f.dirs, oldp)
		f.dirs[newp] = struct{}{}
		return nil
	}

	return fs.ErrNotExist
}

func (f *MemoryFS) Stat(p string) (os.FileInfo, error) {
	p = clean(p)
	if data, ok := f.files[p]; ok {
		return &fakeInfo{name: filepath.Base(p), size: int64(len(data)), dir: false}, nil
	}
	if _, ok := f.dirs[p]; ok {
		return &fakeInfo{name: filepath.Base(p), dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *MemoryFS) ReadDir(p string) ([]os.DirEntry, error) {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return nil, fs.ErrNotExist
	}

	prefix := p
	if prefix != "/" && prefix != "." {
		prefix += "/"
	}

	seen := map[string]bool{}
	var out []os.DirEntry

	for fp, data := range f.files {
		if p != "." && !strings.HasPrefix(fp, prefix) {
			continue
		}
		rest := fp
		if p != "." {
			rest = strings.TrimPrefix(fp, prefix)
		}
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		if !seen[rest] {
			seen[rest] = true
			out = append(out, &fakeDirEntry{info: fakeInfo{name: rest, size: int64(len(data))}})
		}
	}
	for dp := range f.dirs {
		if p != "." && !strings.HasPrefix(dp, prefix) {
			continue
		}
		rest := dp
		if p != "." {
			rest = strings.TrimPrefix(dp, prefix)
		}
		if rest == "" || rest == "." || rest == "/" || strings.Contains(rest, "/") {
			continue
		}
		if !seen[rest] {
			seen[rest] = true
			out = append(out, &fakeDirEntry{info: fakeInfo{name: rest, dir: true}})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (f *MemoryFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	dir = clean(dir)
	if err := f.ensureDirExists(dir); err != nil {
		return nil, "", err
	}
	f.tmpSeq++
	name := strings.Replace(pattern, "*", fmt.Sprintf("%d", f.tmpSeq), 1)
	p := path.Join(dir, name)
	f.files[p] = nil
	return &memTempFile{fs: f, path: p}, p, nil
}

type memTempFile struct {
	fs   *MemoryFS
	path string
	buf  bytes.Buffer
}

func (m *memTempFile) Write(p []byte) (int, error) { return m.buf.Write(p) }

func (m *memTempFile) Close() error {
	m.fs.files[m.path] = append([]byte(nil), m.buf.Bytes()...)
	return nil
}

func (f *MemoryFS) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (f *MemoryFS) Exists(p string) bool {
	p = clean(p)
	if _, ok := f.files[p]; ok {
		return true
	}
	_, ok := f.dirs[p]
	return ok
}

// fakeInfo implements os.FileInfo for MemoryFS entries.
type fakeInfo struct {
	name string
	size int64
	dir  bool
}

func (i *fakeInfo) Name() string { return i.name }
func (i *fakeInfo) Size() int64  { return i.size }
func (i *fakeInfo) Mode() os.FileMode {
	if i.dir {
		return os.ModeDir | 0o755
	}
	return 0o644
}
func (i *fakeInfo) ModTime() time.Time { return time.Time{} }
func (i *fakeInfo) IsDir() bool        { return i.dir }
func (i *fakeInfo) Sys() any           { return nil }

type fakeDirEntry struct {
	info fakeInfo
}

func (e *fakeDirEntry) Name() string               { return e.info.name }
func (e *fakeDirEntry) IsDir() bool                { return e.info.dir }
func (e *fakeDirEntry) Type() os.FileMode          { return e.info.Mode().Type() }
func (e *fakeDirEntry) Info() (os.FileInfo, error) { return &e.info, nil }
