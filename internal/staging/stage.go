// Package staging implements line-level staging: moving individual diff
// lines between the working tree, the index and the last commit.
package staging

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/avoro/tvc/internal/diff"
	"github.com/avoro/tvc/internal/repo"
	"github.com/avoro/tvc/internal/repo/index"
)

var (
	// ErrEntryNotFound means the path could not be located in the index
	// even after a bootstrap attempt.
	ErrEntryNotFound = errors.New("index entry not found")
	// ErrMalformedSelection means a selected position matches no line in
	// the current diff; the caller holds a stale selection and must
	// re-fetch hunks.
	ErrMalformedSelection = errors.New("selection does not match current diff")
	// ErrBinaryContent means the content is not valid UTF-8 text; binary
	// files cannot be staged line by line.
	ErrBinaryContent = errors.New("content is not valid text")
	// ErrBootstrap means recording an untracked path as intent-to-add
	// failed.
	ErrBootstrap = errors.New("intent-to-add bootstrap failed")
)

// StageLines applies exactly the selected line changes of filePath to the
// index, leaving every unselected change pending. An empty selection is a
// no-op. Untracked paths are first recorded as intent-to-add entries. When
// the resulting index content is empty, the path's entry is reset to its
// last-commit version (or removed when the last commit does not know the
// path).
//
// The operation runs as one sequential read-modify-write against the index;
// the caller is responsible for serializing concurrent staging requests
// against the same repository.
func StageLines(r *repo.Repository, filePath string, dir Direction, selection []diff.LinePosition) error {
	if len(selection) == 0 {
		return nil
	}

	entry, err := r.Index.Get(filePath)
	if err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}
	if entry == nil {
		if err := r.Index.Set(index.BootstrapEntry(filePath)); err != nil {
			return fmt.Errorf("stage lines %q: %w: %w", filePath, ErrBootstrap, err)
		}
		entry, err = r.Index.Get(filePath)
		if err != nil {
			return fmt.Errorf("stage lines %q: %w", filePath, err)
		}
		if entry == nil {
			return fmt.Errorf("stage lines %q: %w", filePath, ErrEntryNotFound)
		}
	}

	indexed, err := indexedContent(r, entry)
	if err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}

	hunks, err := HunksFor(r, filePath, dir)
	if err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}

	newContent, err := ApplySelection(selection, hunks, diff.SplitLines(indexed), dir)
	if err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}

	blob, err := r.Objects.Write([]byte(newContent))
	if err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}

	entry.Blob = blob
	entry.Size = int64(len(newContent))
	entry.Flags = 0
	if entry.Mode == 0 {
		entry.Mode = 0o644
	}
	if err := r.Index.Set(*entry); err != nil {
		return fmt.Errorf("stage lines %q: %w", filePath, err)
	}

	if newContent == "" {
		// A fully emptied file goes back to its natural unmodified or
		// untracked state instead of staying a zero-byte staged entry.
		if err := r.ResetPathToHead(filePath); err != nil {
			return fmt.Errorf("stage lines %q: %w", filePath, err)
		}
	}

	return nil
}

// HunksFor computes the hunk list whose coordinates a selection for filePath
// must use under the given direction.
func HunksFor(r *repo.Repository, filePath string, dir Direction) ([]diff.Hunk, error) {
	entry, err := r.Index.Get(filePath)
	if err != nil {
		return nil, err
	}

	indexed, err := indexedContent(r, entry)
	if err != nil {
		return nil, err
	}

	switch dir {
	case DirectionUnstage:
		head, _, err := r.HeadFileContent(filePath)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(head) {
			return nil, ErrBinaryContent
		}
		return diff.Hunks(string(head), indexed, diff.DefaultContext), nil
	default:
		work, err := r.ReadWorktreeFile(filePath)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(work) {
			return nil, ErrBinaryContent
		}
		return diff.Hunks(indexed, string(work), diff.DefaultContext), nil
	}
}

// indexedContent reads the text the entry currently stages. A nil or
// intent-to-add entry stages nothing.
func indexedContent(r *repo.Repository, entry *index.Entry) (string, error) {
	if entry == nil || entry.Blob == "" {
		return "", nil
	}
	data, err := r.Objects.Read(entry.Blob)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrBinaryContent
	}
	return string(data), nil
}
