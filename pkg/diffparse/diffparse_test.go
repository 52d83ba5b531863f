package diffparse_test

import (
	"testing"

	"github.com/benchhq/hunkdep/pkg/diffparse"
	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHunkHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected hunkdep.InputDiff
	}{
		{
			name:     "explicit counts on both sides",
			header:   "@@ -1,6 +1,7 @@",
			expected: hunkdep.InputDiff{OldStart: 1, OldLines: 6, NewStart: 1, NewLines: 7},
		},
		{
			name:     "pure creation, old side is 0,0",
			header:   "@@ -0,0 +1,7 @@",
			expected: hunkdep.InputDiff{OldStart: 0, OldLines: 0, NewStart: 1, NewLines: 7},
		},
		{
			name:     "pure deletion, new side is 0,0",
			header:   "@@ -1,7 +0,0 @@",
			expected: hunkdep.InputDiff{OldStart: 1, OldLines: 7, NewStart: 0, NewLines: 0},
		},
		{
			name:     "omitted counts default to 1",
			header:   "@@ -5 +5 @@",
			expected: hunkdep.InputDiff{OldStart: 5, OldLines: 1, NewStart: 5, NewLines: 1},
		},
		{
			name:     "trailing section heading is ignored",
			header:   "@@ -10,6 +10,9 @@ func example() {",
			expected: hunkdep.InputDiff{OldStart: 10, OldLines: 6, NewStart: 10, NewLines: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := diffparse.ParseHunkHeader(tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseHunkHeaderInvalid(t *testing.T) {
	_, err := diffparse.ParseHunkHeader("not a hunk header")
	assert.Error(t, err)
}

func TestParseFileDiffOrdersByOldStart(t *testing.T) {
	patch := []byte(`--- a/file.txt
+++ b/file.txt
@@ -6,3 +7,4 @@
 6
 7
 8
+9
@@ -1,3 +1,4 @@
 1
+1.5
 2
 3
`)

	diffs, err := diffparse.ParseFileDiff(patch)
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.Equal(t, uint32(1), diffs[0].OldStart)
	assert.Equal(t, uint32(6), diffs[1].OldStart)
}
