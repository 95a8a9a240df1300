// Package keid generates compact, time-sortable 128-bit identifiers and
// converts them to and from short printable encodings.
//
// # Format
//
// A KEID is 16 bytes big-endian: [6 bytes ms_timestamp][10 bytes random].
// The canonical textual form is 32 lowercase hex digits hyphenated 8-4-4-4-12,
// e.g. 018be67c-c4d9-449b-20d2-68caad2cf564.
//
// # Monotonicity
//
// A Generator remembers the last timestamp and random payload it produced.
// When asked for another ID in the same millisecond it adds a random
// increment in [1, 65535] to the previous payload instead of drawing a new
// one, so IDs from one Generator sort in creation order. If the payload would
// reach 2^80-1 it restarts from the increment.
//
// A Generator is not safe for concurrent use. Use one per goroutine, or wrap
// it in a SyncGenerator.
//
// # Encodings
//
// A Codec converts canonical IDs to 22-character tokens:
//   - Base64URL maps the raw bytes directly. Tokens keep ID order when
//     compared by symbol rank in the alphabet, not by raw byte value.
//   - Base58 and Base62 treat the digit-reversed hex as a big integer and
//     left-pad with the alphabet's zero symbol.
//
// Usage
//
//	g := keid.NewGenerator()
//	id, err := g.Generate()
//	c := keid.NewCodec(keid.Base58)
//	token, err := c.Encode(id)
//	back := c.Decode(token) // "" when token is invalid
package keid
