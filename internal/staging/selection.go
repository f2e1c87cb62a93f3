package staging

import (
	"fmt"
	"strings"

	"github.com/avoro/tvc/internal/diff"
)

// Direction tells which snapshot pair the selection's coordinates are drawn
// from, and therefore which side of the diff the index baseline is.
type Direction int

const (
	// DirectionStage moves selected working-tree lines into the index.
	// Hunks describe worktree-vs-index; the baseline is the old side.
	DirectionStage Direction = iota
	// DirectionUnstage moves selected lines out of the index back toward
	// the last commit. Hunks describe index-vs-last-commit; the baseline
	// is the new side.
	DirectionUnstage
)

func (d Direction) String() string {
	if d == DirectionUnstage {
		return "unstage"
	}
	return "stage"
}

// ApplySelection reconstructs the full content of the baseline snapshot as if
// only the selected lines' changes had been applied, leaving every other
// change exactly as it was. Pure: no I/O, no mutation of its inputs.
//
// baselineLines must be the terminator-preserving split of exactly the
// content the hunks were computed against; a stale baseline produces
// misaligned output that cannot be detected here.
func ApplySelection(selection []diff.LinePosition, hunks []diff.Hunk, baselineLines []string, dir Direction) (string, error) {
	selected := make(map[diff.LinePosition]bool, len(selection))
	for _, pos := range selection {
		selected[pos] = false
	}

	// The origin that would add content to the baseline. In stage mode
	// additions bring worktree content in; in unstage mode deletions bring
	// last-commit content back.
	addOrigin := diff.Addition
	if dir == DirectionUnstage {
		addOrigin = diff.Deletion
	}

	var out strings.Builder
	base := 0 // cursor into baselineLines

	copyBaseline := func(upto int) {
		for base < upto && base < len(baselineLines) {
			out.WriteString(baselineLines[base])
			base++
		}
	}

	for i := range hunks {
		hunk := &hunks[i]

		start := hunk.OldStart
		if dir == DirectionUnstage {
			start = hunk.NewStart
		}
		copyBaseline(start - 1)

		for _, line := range hunk.Lines {
			isSelected := false
			if _, ok := selected[line.Position]; ok {
				selected[line.Position] = true
				isSelected = true
			}

			switch {
			case line.Origin == diff.Context:
				copyBaseline(base + 1)
			case line.Origin == addOrigin:
				// would add content to the baseline
				if isSelected {
					out.WriteString(line.Content)
				}
			default:
				// would remove content from the baseline
				if isSelected {
					base++ // drop the baseline line
				} else {
					copyBaseline(base + 1)
				}
			}
		}
	}

	copyBaseline(len(baselineLines))

	for pos, matched := range selected {
		if !matched {
			return "", fmt.Errorf("%w: old=%d new=%d", ErrMalformedSelection, pos.OldLineno, pos.NewLineno)
		}
	}

	return out.String(), nil
}
