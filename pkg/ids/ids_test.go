package ids_test

import (
	"testing"

	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackIDRoundTrip(t *testing.T) {
	s := ids.NewStackID()
	parsed, err := ids.ParseStackID(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestParseStackIDInvalid(t *testing.T) {
	_, err := ids.ParseStackID("not-a-uuid")
	assert.Error(t, err)
}

func TestCommitIDRoundTripSHA1(t *testing.T) {
	const hex40 = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	c, err := ids.ParseCommitID(hex40)
	require.NoError(t, err)
	assert.Equal(t, hex40, c.String())
	assert.Len(t, c.Bytes(), 20)
}

func TestCommitIDRoundTripSHA256(t *testing.T) {
	hex64 := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	c, err := ids.ParseCommitID(hex64)
	require.NoError(t, err)
	assert.Equal(t, hex64, c.String())
	assert.Len(t, c.Bytes(), 32)
}

func TestCommitIDRejectsWrongLength(t *testing.T) {
	_, err := ids.ParseCommitID("abcd")
	assert.Error(t, err)
}

func TestCommitIDComparable(t *testing.T) {
	a, err := ids.ParseCommitID("da39a3ee5e6b4b0d3255bfef95601890afd80709")
	require.NoError(t, err)
	b, err := ids.ParseCommitID("da39a3ee5e6b4b0d3255bfef95601890afd80709")
	require.NoError(t, err)
	c, err := ids.ParseCommitID("000000000000000000000000000000000000000a")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	set := map[ids.CommitID]bool{a: true}
	assert.True(t, set[b])
	assert.False(t, set[c])
}
