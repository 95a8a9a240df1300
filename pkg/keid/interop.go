package keid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ULID returns the ULID with the same 128 bits. KEIDs and ULIDs share the
// 48-bit timestamp / 80-bit entropy layout, so the conversion is lossless.
func (i ID) ULID() ulid.ULID { return ulid.ULID(i) }

// UUID returns the same bits as a uuid.UUID. The result carries no valid
// version or variant.
func (i ID) UUID() uuid.UUID { return uuid.UUID(i) }

// FromULID converts a ULID to a KEID.
func FromULID(u ulid.ULID) ID { return ID(u) }

// ParseULID parses a Crockford base32 ULID string into a KEID.
func ParseULID(s string) (ID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: ulid %q: %v", ErrInvalidIdentifier, s, err)
	}
	return FromULID(u), nil
}
