package hunkdep

import (
	"github.com/benchhq/hunkdep/pkg/ids"
)

// HunkRange is an interval in the current post-image coordinate space of a
// path, attributed to the commit that most recently wrote the lines it
// covers.
type HunkRange struct {
	StackID  ids.StackID  `json:"stack_id"`
	CommitID ids.CommitID `json:"commit_id"`

	// Start is 1-based; 0 is reserved for creation/deletion sentinels.
	Start uint32 `json:"start"`
	Lines uint32 `json:"lines"`

	// LineShift is the signed net contribution of the owning commit's diff
	// that produced this range, used to translate later pre-image
	// coordinates into the current post-image space.
	LineShift int32 `json:"line_shift"`
}

// end is the exclusive end of the range, start+lines.
func (h HunkRange) end() uint32 {
	return h.Start + h.Lines
}

// contains reports whether the pre-image interval [start, start+lines)
// fits entirely inside h.
func (h HunkRange) contains(start, lines uint32) bool {
	return h.Start <= start && start+lines <= h.end()
}

// coveredBy reports whether h fits entirely inside [start, start+lines).
func (h HunkRange) coveredBy(start, lines uint32) bool {
	return start <= h.Start && h.end() <= start+lines
}

// intersects reports whether h overlaps the closed-open interval
// [start, start+lines). A zero-length query is a point query: it matches h
// iff start falls inside h. A zero-length h never intersects anything,
// regardless of the query - it carries no lines to overlap with, point
// query or not.
func (h HunkRange) intersects(start, lines uint32) bool {
	if h.Lines == 0 {
		return false
	}
	if lines == 0 {
		return h.Start <= start && start < h.end()
	}
	return h.Start < start+lines && start < h.end()
}

// isSentinel reports whether h is a creation/deletion marker: it carries no
// lines at all, at position 0.
func (h HunkRange) isSentinel() bool {
	return h.end() == 0
}

// addSigned performs saturating signed addition of shift onto base,
// clamping at 0 rather than underflowing.
func addSigned(base uint32, shift int32) uint32 {
	if shift >= 0 {
		return base + uint32(shift)
	}
	dec := uint32(-shift)
	if dec > base {
		return 0
	}
	return base - dec
}
