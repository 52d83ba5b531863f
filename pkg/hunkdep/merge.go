package hunkdep

import "github.com/benchhq/hunkdep/pkg/ids"

// addNew determines how a diff from the commit currently being ingested
// enters the output, given the range most recently emitted (nil if none
// yet). It returns 1-3 ranges; the caller holds back the last one as the
// next "previous" so it can still be mutated or absorbed by whatever comes
// next.
func addNew(d InputDiff, prev *HunkRange, stackID ids.StackID, commitID ids.CommitID) ([]HunkRange, error) {
	shift, err := d.NetLines()
	if err != nil {
		return nil, err
	}
	fresh := HunkRange{
		StackID:   stackID,
		CommitID:  commitID,
		Start:     d.NewStart,
		Lines:     d.NewLines,
		LineShift: shift,
	}

	if prev == nil {
		return []HunkRange{fresh}, nil
	}
	p := *prev

	if p.end() < d.OldStart {
		// No overlap with the previous range; emit both in order.
		return []HunkRange{p, fresh}, nil
	}

	if p.contains(d.OldStart, d.OldLines) {
		head := HunkRange{
			CommitID: p.CommitID,
			StackID:  p.StackID,
			Start:    p.Start,
			Lines:    d.NewStart - p.Start,
		}
		tailLines := p.Lines - d.OldLines - (d.OldStart - p.Start)
		tail := HunkRange{
			CommitID:  p.CommitID,
			StackID:   p.StackID,
			Start:     d.NewStart + d.NewLines,
			Lines:     tailLines,
			LineShift: p.LineShift,
		}
		return []HunkRange{head, fresh, tail}, nil
	}

	if p.coveredBy(d.OldStart, d.OldLines) {
		// The new diff completely overwrites the previous range.
		return []HunkRange{fresh}, nil
	}

	// Tail overlap: truncate the previous range to where the new one starts.
	if d.NewStart < p.Start {
		return nil, ErrInvalidDiff
	}
	truncated := HunkRange{
		CommitID:  p.CommitID,
		StackID:   p.StackID,
		Start:     p.Start,
		Lines:     d.NewStart - p.Start,
		LineShift: p.LineShift,
	}
	return []HunkRange{truncated, fresh}, nil
}

// addExisting determines how a pre-existing range, shifted into current
// post-image coordinates by the cumulative net_lines of diffs already
// consumed from the new commit, enters the output.
func addExisting(h HunkRange, prev *HunkRange, shift int32) []HunkRange {
	if prev == nil {
		return []HunkRange{h}
	}
	p := *prev

	if h.isSentinel() {
		// Creation/deletion marker: passes through unshifted. A sentinel
		// always sorts first (start 0), so prev is never set when this
		// branch runs; both are still emitted for defensiveness.
		return []HunkRange{p, h}
	}

	shifted := addSigned(h.Start, shift)

	if shifted > p.end() {
		h.Start = shifted
		return []HunkRange{p, h}
	}

	if p.coveredBy(shifted, h.Lines) {
		// The previously emitted range lies entirely within shifted h (as
		// the zero-length marker of a whole-file deletion does once later
		// ranges have shifted down to line 0); h is dropped.
		return []HunkRange{p}
	}

	// Head of h overlaps the tail of p; truncate the head.
	overlap := p.end() - shifted
	h.Start = shifted
	if overlap >= h.Lines {
		h.Lines = 0
	} else {
		h.Lines -= overlap
	}
	return []HunkRange{p, h}
}
