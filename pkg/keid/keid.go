package keid

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTimestamp is the largest millisecond timestamp a KEID can carry (2^48-1).
	MaxTimestamp int64 = 1<<48 - 1

	// MaxCount bounds GenerateMany.
	MaxCount = 1_000_000

	// CanonicalLength is the length of the hyphenated hex form.
	CanonicalLength = 36

	timestampBytes = 6
	randomBytes    = 10
	hexLength      = 32
)

var (
	ErrInvalidTimestamp  = errors.New("timestamp is below 0 or exceeds the maximum of 281474976710655")
	ErrInvalidCount      = errors.New("count is below 1 or exceeds the maximum of 1000000")
	ErrInvalidIdentifier = errors.New("invalid KEID")
)

// ID is the 16-byte binary form of a KEID.
type ID [16]byte

// String returns the canonical hyphenated form.
func (i ID) String() string { return addHyphens(hex.EncodeToString(i[:])) }

// Bytes returns a copy of the raw 16 bytes.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// Timestamp returns the embedded millisecond timestamp.
func (i ID) Timestamp() uint64 {
	var ms uint64
	for _, b := range i[:timestampBytes] {
		ms = ms<<8 | uint64(b)
	}
	return ms
}

// Time returns the embedded timestamp as a UTC time.
func (i ID) Time() time.Time { return time.UnixMilli(int64(i.Timestamp())).UTC() }

// Compare returns -1, 0, 1 based on byte-wise comparison.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < len(i); idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// Parse strictly validates a canonical KEID and returns its binary form.
// Uppercase hex, braces and urn: prefixes are rejected even though they
// would be acceptable UUID spellings.
func Parse(s string) (ID, error) {
	if len(s) != CanonicalLength || strings.ToLower(s) != s {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, s, err)
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Validate reports whether s is a well-formed canonical KEID.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

// Timestamp extracts the millisecond timestamp from a canonical KEID.
// The input is not validated; malformed input yields 0.
func Timestamp(id string) uint64 {
	if len(id) < 13 {
		return 0
	}
	ms, err := strconv.ParseUint(strings.Replace(id[:13], "-", "", 1), 16, 64)
	if err != nil {
		return 0
	}
	return ms
}

// Date returns the timestamp of a canonical KEID as a UTC time.
// Like Timestamp, it assumes well-formed input.
func Date(id string) time.Time {
	return time.UnixMilli(int64(Timestamp(id))).UTC()
}

// addHyphens lays out 32 hex digits as 8-4-4-4-12.
func addHyphens(h string) string {
	var b strings.Builder
	b.Grow(len(h) + 4)
	b.WriteString(h[0:8])
	b.WriteByte('-')
	b.WriteString(h[8:12])
	b.WriteByte('-')
	b.WriteString(h[12:16])
	b.WriteByte('-')
	b.WriteString(h[16:20])
	b.WriteByte('-')
	b.WriteString(h[20:])
	return b.String()
}

// stripHyphens returns the 32-digit hex payload of a canonical KEID.
func stripHyphens(id string) (string, error) {
	h := strings.ReplaceAll(id, "-", "")
	if len(h) != hexLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return h, nil
}
