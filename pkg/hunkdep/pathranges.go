package hunkdep

import (
	"github.com/benchhq/hunkdep/pkg/ids"
)

// PathRanges is the ordered, non-overlapping sequence of HunkRange values
// for one file path, plus the set of commits already folded into it. It is
// created empty, mutated only by Add, and owned by a single analysis
// session for the duration of ingestion - it is not safe for concurrent
// use by multiple goroutines (see pkg/tracker for that boundary).
type PathRanges struct {
	Hunks     []HunkRange
	commitIDs map[ids.CommitID]struct{}
}

// NewPathRanges returns an empty PathRanges ready to ingest its first
// commit.
func NewPathRanges() *PathRanges {
	return &PathRanges{
		commitIDs: make(map[ids.CommitID]struct{}),
	}
}

// Restore reconstructs a PathRanges from a previously saved hunk list and
// commit id set, for callers (pkg/store) restoring a cached snapshot
// rather than replaying every commit. The caller is responsible for the
// hunks having been produced by this same algebra; Restore does not
// re-validate the ordering/overlap invariants.
func Restore(hunks []HunkRange, commitIDs []ids.CommitID) *PathRanges {
	p := NewPathRanges()
	p.Hunks = hunks
	for _, id := range commitIDs {
		p.commitIDs[id] = struct{}{}
	}
	return p
}

// CommitIDs returns the set of commit ids ingested so far, for debugging.
func (p *PathRanges) CommitIDs() []ids.CommitID {
	out := make([]ids.CommitID, 0, len(p.commitIDs))
	for id := range p.commitIDs {
		out = append(out, id)
	}
	return out
}

// Add folds a single commit's diffs, ordered by OldStart, into the current
// hunk list, replacing it wholesale with the post-image of applying this
// commit on top of every commit ingested so far. Diffs within one commit
// must not mutually overlap.
func (p *PathRanges) Add(stackID ids.StackID, commitID ids.CommitID, diffs []InputDiff) error {
	if _, seen := p.commitIDs[commitID]; seen {
		return ErrDuplicateCommit
	}

	var netLines int32
	out := make([]HunkRange, 0, len(diffs)+len(p.Hunks))
	var prev *HunkRange

	i, j := 0, 0
	for i < len(diffs) || j < len(p.Hunks) {
		var emitted []HunkRange

		fromNew := (i < len(diffs) && j < len(p.Hunks) && diffs[i].OldStart < p.Hunks[j].Start) ||
			(i < len(diffs) && j >= len(p.Hunks))

		if fromNew {
			d := diffs[i]
			i++
			r, err := addNew(d, prev, stackID, commitID)
			if err != nil {
				return err
			}
			emitted = r
			shift, err := d.NetLines()
			if err != nil {
				return err
			}
			netLines += shift
		} else {
			h := p.Hunks[j]
			j++
			emitted = addExisting(h, prev, netLines)
		}

		last := emitted[len(emitted)-1]
		out = append(out, emitted[:len(emitted)-1]...)
		prev = &last
	}

	if prev != nil {
		out = append(out, *prev)
	}

	p.Hunks = out
	p.commitIDs[commitID] = struct{}{}
	return nil
}

// Intersection returns, in Hunks order, every range overlapping the
// closed-open interval [start, start+lines). A zero-length query is a
// point query and matches a range iff it contains start.
func (p *PathRanges) Intersection(start, lines uint32) []HunkRange {
	var out []HunkRange
	for _, h := range p.Hunks {
		if h.intersects(start, lines) {
			out = append(out, h)
		}
	}
	return out
}
