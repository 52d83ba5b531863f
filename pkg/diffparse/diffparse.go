// Package diffparse turns unified-diff text into the ordered InputDiff
// values pkg/hunkdep ingests. It is a thin adapter over
// sourcegraph/go-diff for full file patches, plus a hand-rolled header
// parser for callers that only have a bare "@@ ... @@" line.
package diffparse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/sourcegraph/go-diff/diff"
)

// ParseFileDiff parses a single unified-diff file patch and returns its
// hunks as InputDiff values ordered by OldStart, as pkg/hunkdep.Add
// requires.
func ParseFileDiff(patch []byte) ([]hunkdep.InputDiff, error) {
	fileDiff, err := diff.ParseFileDiff(patch)
	if err != nil {
		return nil, fmt.Errorf("diffparse: parse file diff: %w", err)
	}

	out := make([]hunkdep.InputDiff, 0, len(fileDiff.Hunks))
	for _, h := range fileDiff.Hunks {
		out = append(out, hunkdep.InputDiff{
			OldStart: uint32(h.OrigStartLine),
			OldLines: uint32(h.OrigLines),
			NewStart: uint32(h.NewStartLine),
			NewLines: uint32(h.NewLines),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].OldStart < out[j].OldStart })
	return out, nil
}

// ParseHunkHeader parses a bare "@@ -A,B +C,D @@" line. Omitted counts
// default to 1, per the unified diff convention.
func ParseHunkHeader(header string) (hunkdep.InputDiff, error) {
	fields := strings.Fields(header)
	if len(fields) < 3 || fields[0] != "@@" || !strings.HasPrefix(fields[1], "-") || !strings.HasPrefix(fields[2], "+") {
		return hunkdep.InputDiff{}, fmt.Errorf("diffparse: invalid hunk header %q", header)
	}

	oldStart, oldLines, err := parseRange(fields[1][1:])
	if err != nil {
		return hunkdep.InputDiff{}, fmt.Errorf("diffparse: invalid old range in %q: %w", header, err)
	}
	newStart, newLines, err := parseRange(fields[2][1:])
	if err != nil {
		return hunkdep.InputDiff{}, fmt.Errorf("diffparse: invalid new range in %q: %w", header, err)
	}

	return hunkdep.InputDiff{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
	}, nil
}

// parseRange parses "start,count" or bare "start" (count defaults to 1).
func parseRange(s string) (start, count uint32, err error) {
	parts := strings.SplitN(s, ",", 2)

	startVal, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}

	if len(parts) == 1 {
		return uint32(startVal), 1, nil
	}

	countVal, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("count: %w", err)
	}
	return uint32(startVal), uint32(countVal), nil
}
