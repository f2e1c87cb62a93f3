// Package diff computes line-oriented diffs between two text snapshots and
// exposes them as ordered hunks. Every line carries its origin, its exact
// content including the newline terminator (when the snapshot has one), and
// its coordinates in both snapshots. Hunks are produced fresh on every call;
// nothing here holds state.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

// Origin tags a diff line.
type Origin byte

const (
	Context  Origin = ' '
	Addition Origin = '+'
	Deletion Origin = '-'
)

// LinePosition identifies one line of a diff by its coordinates in the old
// and new snapshot. Zero means "no coordinate on that side": a pure addition
// has only NewLineno, a pure deletion only OldLineno, a context line both.
type LinePosition struct {
	OldLineno int `json:"old_lineno"`
	NewLineno int `json:"new_lineno"`
}

// Line is one line of a hunk.
type Line struct {
	Origin   Origin
	Content  string // terminator included, absent only on an unterminated final line
	Position LinePosition
}

// Hunk is an ordered, contiguous run of lines belonging to one diff.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header renders the unified-diff hunk header.
func (h *Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// SplitLines splits text into lines, each keeping its trailing terminator.
// The final line has no terminator when the text does not end in one.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Hunks diffs oldText against newText and returns the ordered hunk list with
// context unchanged lines around each change. Identical texts yield no hunks.
func Hunks(oldText, newText string, context int) []Hunk {
	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)

	matcher := difflib.NewMatcher(oldLines, newLines)

	var hunks []Hunk
	for _, group := range matcher.GetGroupedOpCodes(context) {
		if len(group) == 0 {
			continue
		}
		first, last := group[0], group[len(group)-1]
		h := Hunk{
			OldStart: first.I1 + 1,
			OldCount: last.I2 - first.I1,
			NewStart: first.J1 + 1,
			NewCount: last.J2 - first.J1,
		}

		for _, op := range group {
			switch op.Tag {
			case 'e':
				for k := op.I1; k < op.I2; k++ {
					h.Lines = append(h.Lines, Line{
						Origin:  Context,
						Content: oldLines[k],
						Position: LinePosition{
							OldLineno: k + 1,
							NewLineno: op.J1 + (k - op.I1) + 1,
						},
					})
				}
			case 'r', 'd':
				for k := op.I1; k < op.I2; k++ {
					h.Lines = append(h.Lines, Line{
						Origin:   Deletion,
						Content:  oldLines[k],
						Position: LinePosition{OldLineno: k + 1},
					})
				}
				if op.Tag == 'r' {
					for k := op.J1; k < op.J2; k++ {
						h.Lines = append(h.Lines, Line{
							Origin:   Addition,
							Content:  newLines[k],
							Position: LinePosition{NewLineno: k + 1},
						})
					}
				}
			case 'i':
				for k := op.J1; k < op.J2; k++ {
					h.Lines = append(h.Lines, Line{
						Origin:   Addition,
						Content:  newLines[k],
						Position: LinePosition{NewLineno: k + 1},
					})
				}
			}
		}

		hunks = append(hunks, h)
	}
	return hunks
}
