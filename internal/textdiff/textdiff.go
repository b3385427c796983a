// Package textdiff computes line diffs used to preview an AI suggestion
// against the current document.
package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line types.
const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// Line is one line of a diff. OldLine and NewLine are 1-based and zero when
// the line does not exist on that side.
type Line struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// Hunk is a run of changed lines with surrounding context.
type Hunk struct {
	Lines []Line `json:"lines"`
}

// Stats counts changed lines.
type Stats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// ContextLines is the number of unchanged lines kept around each change.
const ContextLines = 3

// MaxLines is the default line budget of DiffWithLimit.
const MaxLines = 5000

// Diff returns the hunks turning before into after. Identical inputs have no
// hunks.
func Diff(before, after string) ([]Hunk, Stats) {
	lines, stats := diffLines(before, after)
	return group(lines, ContextLines), stats
}

// DiffWithLimit is Diff unless the inputs together exceed maxLines lines, in
// which case it reports skipped. maxLines <= 0 uses MaxLines.
func DiffWithLimit(before, after string, maxLines int) (hunks []Hunk, stats Stats, skipped bool) {
	if maxLines <= 0 {
		maxLines = MaxLines
	}
	if lineCount(before)+lineCount(after) > maxLines {
		return nil, Stats{}, true
	}
	hunks, stats = Diff(before, after)
	return hunks, stats, false
}

func diffLines(before, after string) ([]Line, Stats) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	var stats Stats
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				oldLine++
				stats.Removed++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Text: text, NewLine: newLine})
				newLine++
				stats.Added++
			}
		}
	}
	return lines, stats
}

// group splits lines into hunks, keeping at most ctx context lines around
// each change. Changes separated by up to 2*ctx context lines share a hunk.
func group(lines []Line, ctx int) []Hunk {
	var hunks []Hunk
	var cur []Line
	lastChange := -1
	for i, l := range lines {
		if l.Type == LineContext {
			continue
		}
		start := max(i-ctx, 0)
		if lastChange >= 0 && start <= lastChange+ctx+1 {
			start = lastChange + 1
		} else {
			if cur != nil {
				end := min(lastChange+ctx+1, len(lines))
				cur = append(cur, lines[lastChange+1:end]...)
				hunks = append(hunks, Hunk{Lines: cur})
			}
			cur = nil
		}
		cur = append(cur, lines[start:i+1]...)
		lastChange = i
	}
	if cur != nil {
		end := min(lastChange+ctx+1, len(lines))
		cur = append(cur, lines[lastChange+1:end]...)
		hunks = append(hunks, Hunk{Lines: cur})
	}
	return hunks
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
