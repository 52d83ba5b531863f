// Package ids defines the two opaque identifiers the hunk-dependency
// tracker attributes ranges to: a StackID naming the logical branch, and a
// CommitID naming the git object that wrote a range.
package ids

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StackID is a 128-bit identifier for a logical branch/stack.
type StackID uuid.UUID

// NewStackID generates a random v4 StackID.
func NewStackID() StackID {
	return StackID(uuid.New())
}

// ParseStackID parses the canonical UUID text form.
func ParseStackID(s string) (StackID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return StackID{}, fmt.Errorf("parse stack id %q: %w", s, err)
	}
	return StackID(u), nil
}

func (s StackID) String() string {
	return uuid.UUID(s).String()
}

// MarshalJSON renders a StackID as its canonical UUID text form rather
// than the raw byte array a plain defined-type conversion would produce.
func (s StackID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *StackID) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseStackID(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CommitID is a git object id: 20 raw bytes for SHA-1, 32 for SHA-256.
type CommitID struct {
	raw [32]byte
	n   int
}

// ParseCommitID hex-decodes a 40 or 64 character object id.
func ParseCommitID(s string) (CommitID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return CommitID{}, fmt.Errorf("parse commit id %q: %w", s, err)
	}
	return NewCommitID(b)
}

// NewCommitID wraps raw object-id bytes, which must be 20 or 32 bytes long.
func NewCommitID(raw []byte) (CommitID, error) {
	switch len(raw) {
	case 20, 32:
	default:
		return CommitID{}, fmt.Errorf("commit id must be 20 or 32 bytes, got %d", len(raw))
	}
	var c CommitID
	copy(c.raw[:], raw)
	c.n = len(raw)
	return c, nil
}

func (c CommitID) String() string {
	return hex.EncodeToString(c.raw[:c.n])
}

// Bytes returns the raw object-id bytes.
func (c CommitID) Bytes() []byte {
	out := make([]byte, c.n)
	copy(out, c.raw[:c.n])
	return out
}

// IsZero reports whether c is the zero value (never a valid commit id).
func (c CommitID) IsZero() bool {
	return c.n == 0
}

// MarshalJSON renders a CommitID as its hex text form. Without this,
// encoding/json would see only the type's unexported fields and emit "{}".
func (c CommitID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CommitID) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseCommitID(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
