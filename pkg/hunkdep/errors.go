package hunkdep

import "errors"

// ErrDuplicateCommit is returned by PathRanges.Add when commit_id has
// already been ingested for this path.
var ErrDuplicateCommit = errors.New("hunkdep: commit already ingested for this path")

// ErrInvalidDiff is returned when an InputDiff is inconsistent with the
// state it is being merged against: arithmetic that would overflow
// net_lines, or a pre-image that does not fit inside the HunkRange it is
// claimed to split.
var ErrInvalidDiff = errors.New("hunkdep: diff inconsistent with prior state")
