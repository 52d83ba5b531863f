package hunkdep

import "fmt"

// InputDiff is one hunk of a commit's patch against a single path, in the
// pre-image/post-image line numbering unified diffs use. OldStart/OldLines
// describe the content before the commit, NewStart/NewLines the content
// after it.
type InputDiff struct {
	OldStart uint32
	OldLines uint32
	NewStart uint32
	NewLines uint32
}

// NetLines is the signed line count the commit's diff contributes at this
// hunk. It is used both as the HunkRange's line_shift and as the running
// shift applied to pre-existing ranges that sit after this diff.
func (d InputDiff) NetLines() (int32, error) {
	net := int64(d.NewLines) - int64(d.OldLines)
	if net > int64(1<<31-1) || net < -int64(1<<31) {
		return 0, fmt.Errorf("%w: net line delta %d overflows int32", ErrInvalidDiff, net)
	}
	return int32(net), nil
}
