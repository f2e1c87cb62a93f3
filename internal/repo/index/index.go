// Package index implements the staging area: the set of entries that will
// become the next commit. One JSON file per repository, rewritten atomically
// on every change.
package index

import (
	"fmt"
	"os"
	"sort"

	"github.com/avoro/tvc/internal/fs"
	"github.com/avoro/tvc/internal/util"
)

// EntryFlags describe the state of an index entry. A normal entry has no
// flags set.
type EntryFlags uint8

const (
	// FlagIntentToAdd marks a path as tracked with no staged content yet.
	// It is what allows line-level staging of brand-new files: the entry
	// exists, its blob ref is empty, and its baseline content is empty.
	FlagIntentToAdd EntryFlags = 1 << iota
)

// Entry is the staging-area record for one file path.
type Entry struct {
	Path  string      `json:"path"`
	Blob  string      `json:"blob,omitempty"`
	Size  int64       `json:"size"`
	Mode  os.FileMode `json:"mode"`
	Flags EntryFlags  `json:"flags,omitempty"`
}

// IntentToAdd reports whether the entry is a content-less placeholder.
func (e *Entry) IntentToAdd() bool {
	return e.Flags&FlagIntentToAdd != 0
}

// Equal compares two entries by staged content.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil && other == nil {
		return true
	}
	if e == nil || other == nil {
		return false
	}
	return e.Path == other.Path &&
		e.Blob == other.Blob &&
		e.Size == other.Size &&
		e.Flags == other.Flags
}

// BootstrapEntry builds the intent-to-add entry recorded for a previously
// untracked path before line-level staging can target it.
func BootstrapEntry(path string) Entry {
	return Entry{
		Path:  path,
		Mode:  0o644,
		Flags: FlagIntentToAdd,
	}
}

// Context manages the on-disk index file.
type Context struct {
	IndexPath string
	FS        fs.FS
}

// NewContext creates a new index Context.
func NewContext(indexPath string, fsys fs.FS) *Context {
	return &Context{IndexPath: indexPath, FS: fsys}
}

// Load reads all staged entries. A missing index file is an empty index.
func (ic *Context) Load() ([]Entry, error) {
	if _, err := ic.FS.Stat(ic.IndexPath); ic.FS.IsNotExist(err) {
		return nil, nil
	}
	var entries []Entry
	if err := util.ReadJSON(ic.FS, ic.IndexPath, &entries); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return entries, nil
}

// Save overwrites the index completely. Entries are kept sorted by path so
// the file is byte-stable for identical content.
func (ic *Context) Save(entries []Entry) error {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	if err := util.WriteJSON(ic.FS, ic.IndexPath, entries); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Clear removes the staging index.
func (ic *Context) Clear() error {
	if _, err := ic.FS.Stat(ic.IndexPath); ic.FS.IsNotExist(err) {
		return nil
	}
	return ic.FS.Remove(ic.IndexPath)
}

// Get returns the entry for path, or nil when the path is not staged.
func (ic *Context) Get(path string) (*Entry, error) {
	entries, err := ic.Load()
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Path == path {
			e := entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

// Set inserts or replaces the entry for its path and persists the index.
func (ic *Context) Set(entry Entry) error {
	entries, err := ic.Load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Path == entry.Path {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return ic.Save(entries)
}

// Remove deletes the entry for path, if present, and persists the index.
func (ic *Context) Remove(path string) error {
	entries, err := ic.Load()
	if err != nil {
		return err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Path != path {
			out = append(out, e)
		}
	}
	return ic.Save(out)
}
