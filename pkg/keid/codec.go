package keid

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidEncodedLength = errors.New("invalid encoded KEID length")
	ErrInvalidSymbol        = errors.New("invalid symbol in encoded KEID")
	ErrMalformedPayload     = errors.New("decoded KEID payload is not 16 bytes")
)

// Alphabet selects one of the supported encodings.
type Alphabet int

const (
	Base64URL Alphabet = iota
	Base58
	Base62
)

type alphabetSpec struct {
	name    string
	symbols string
	minLen  int
	maxLen  int

	// byteChunked alphabets map raw bytes directly instead of doing
	// big-integer conversion.
	byteChunked bool
}

var alphabets = map[Alphabet]alphabetSpec{
	Base64URL: {
		name:        "base64url",
		symbols:     "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_",
		minLen:      22,
		maxLen:      22,
		byteChunked: true,
	},
	Base58: {
		name:    "base58",
		symbols: "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz",
		minLen:  16,
		maxLen:  22,
	},
	Base62: {
		name:    "base62",
		symbols: "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		minLen:  16,
		maxLen:  22,
	},
}

// Alphabets lists every supported alphabet.
func Alphabets() []Alphabet { return []Alphabet{Base64URL, Base58, Base62} }

func (a Alphabet) String() string {
	if s, ok := alphabets[a]; ok {
		return s.name
	}
	return fmt.Sprintf("Alphabet(%d)", int(a))
}

// ParseAlphabet resolves an alphabet by name. Matching is case-insensitive
// and accepts "base64" as a synonym for base64url.
func ParseAlphabet(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "base64url", "base64", "b64":
		return Base64URL, nil
	case "base58", "b58":
		return Base58, nil
	case "base62", "b62":
		return Base62, nil
	default:
		return 0, fmt.Errorf("unknown alphabet %q (expected base64url, base58 or base62)", name)
	}
}

// DecodeError describes why an encoded KEID was rejected.
type DecodeError struct {
	Alphabet Alphabet
	Input    string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %q: %v", e.Alphabet, e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Codec converts between canonical KEIDs and one encoded form. A Codec is
// immutable and safe for concurrent use.
type Codec struct {
	alphabet Alphabet
	spec     alphabetSpec
	b64      *base64.Encoding
	digits   *digitTable
}

// NewCodec returns a Codec for a. It panics if a is not one of the
// declared alphabets.
func NewCodec(a Alphabet) *Codec {
	spec, ok := alphabets[a]
	if !ok {
		panic(fmt.Sprintf("keid: unknown alphabet %d", int(a)))
	}
	c := &Codec{alphabet: a, spec: spec}
	if spec.byteChunked {
		c.b64 = base64.NewEncoding(spec.symbols).WithPadding(base64.NoPadding).Strict()
	} else {
		c.digits = newDigitTable(spec.symbols)
	}
	return c
}

func (c *Codec) Alphabet() Alphabet    { return c.alphabet }
func (c *Codec) MinEncodedLength() int { return c.spec.minLen }
func (c *Codec) MaxEncodedLength() int { return c.spec.maxLen }

// HasValidEncodedLength reports whether s has a length this codec accepts.
func (c *Codec) HasValidEncodedLength(s string) bool {
	return len(s) >= c.spec.minLen && len(s) <= c.spec.maxLen
}

// Encode converts a canonical KEID to its encoded form.
func (c *Codec) Encode(id string) (string, error) {
	h, err := stripHyphens(id)
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidIdentifier, id, err)
	}
	return c.encodeHex(h, raw), nil
}

// EncodeID converts a binary KEID to its encoded form.
func (c *Codec) EncodeID(id ID) string {
	return c.encodeHex(hex.EncodeToString(id[:]), id[:])
}

func (c *Codec) encodeHex(h string, raw []byte) string {
	if c.b64 != nil {
		return c.b64.EncodeToString(raw)
	}
	return c.digits.encode(reverse(h), c.spec.maxLen)
}

// Decode converts an encoded KEID back to canonical form. It returns ""
// when s is not a valid encoding.
func (c *Codec) Decode(s string) string {
	id, _ := c.decode(s, false)
	return id
}

// DecodeOrError is like Decode but reports why s was rejected. The error
// is a *DecodeError wrapping ErrInvalidEncodedLength, ErrInvalidSymbol or
// ErrMalformedPayload.
func (c *Codec) DecodeOrError(s string) (string, error) {
	return c.decode(s, true)
}

// DecodeID is DecodeOrError returning the binary form.
func (c *Codec) DecodeID(s string) (ID, error) {
	h, err := c.decodeHex(s)
	if err != nil {
		return ID{}, &DecodeError{Alphabet: c.alphabet, Input: s, Err: err}
	}
	var id ID
	if _, err := hex.Decode(id[:], []byte(h)); err != nil {
		return ID{}, &DecodeError{Alphabet: c.alphabet, Input: s, Err: ErrMalformedPayload}
	}
	return id, nil
}

func (c *Codec) decode(s string, report bool) (string, error) {
	h, err := c.decodeHex(s)
	if err != nil {
		if !report {
			return "", nil
		}
		return "", &DecodeError{Alphabet: c.alphabet, Input: s, Err: err}
	}
	return addHyphens(h), nil
}

// decodeHex returns the 32-digit hex payload encoded by s.
func (c *Codec) decodeHex(s string) (string, error) {
	if !c.HasValidEncodedLength(s) {
		return "", ErrInvalidEncodedLength
	}

	if c.b64 != nil {
		raw, err := c.b64.DecodeString(s)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSymbol, err)
		}
		if len(raw) != len(ID{}) {
			return "", ErrMalformedPayload
		}
		return hex.EncodeToString(raw), nil
	}

	h, err := c.digits.decode(s)
	if err != nil {
		return "", err
	}
	if len(h) > hexLength {
		return "", ErrMalformedPayload
	}
	return reverse(strings.Repeat("0", hexLength-len(h)) + h), nil
}
