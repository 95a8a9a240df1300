package keid

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"math/bits"
	mrand "math/rand/v2"
	"sync"
	"time"
)

// maxIncrement is the upper bound (inclusive) of the same-millisecond step.
const maxIncrement = 65535

// payload is an unsigned 80-bit integer.
type payload struct {
	hi uint16
	lo uint64
}

// add returns p+r and whether the sum reached 2^80-1 or beyond.
func (p payload) add(r uint64) (payload, bool) {
	lo, carry := bits.Add64(p.lo, r, 0)
	hi := uint32(p.hi) + uint32(carry)
	if hi > math.MaxUint16 || (hi == math.MaxUint16 && lo == math.MaxUint64) {
		return payload{}, true
	}
	return payload{hi: uint16(hi), lo: lo}, false
}

func (p payload) put(b []byte) {
	b[0] = byte(p.hi >> 8)
	b[1] = byte(p.hi)
	for i := 0; i < 8; i++ {
		b[2+i] = byte(p.lo >> (56 - 8*i))
	}
}

func payloadFrom(b []byte) payload {
	p := payload{hi: uint16(b[0])<<8 | uint16(b[1])}
	for i := 0; i < 8; i++ {
		p.lo = p.lo<<8 | uint64(b[2+i])
	}
	return p
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the wall clock used by Generate.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithEntropy overrides the source of fresh random payloads.
func WithEntropy(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.entropy = r
		}
	}
}

// WithIncrement overrides the same-millisecond step. The function must
// return a value in [1, 65535].
func WithIncrement(next func() uint64) Option {
	return func(g *Generator) {
		if next != nil {
			g.increment = next
		}
	}
}

// Generator produces KEIDs that sort in creation order within one instance.
// It holds no lock; see SyncGenerator.
type Generator struct {
	now       func() time.Time
	entropy   io.Reader
	increment func() uint64

	hasLast       bool
	lastTimestamp int64
	lastRandom    payload
}

// NewGenerator creates a Generator backed by crypto/rand and the system clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:       time.Now,
		entropy:   rand.Reader,
		increment: randomIncrement,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func randomIncrement() uint64 { return mrand.Uint64N(maxIncrement) + 1 }

// NewID returns a KEID for the current millisecond. It fails with
// ErrInvalidTimestamp if the clock reads outside [0, MaxTimestamp].
func (g *Generator) NewID() (ID, error) {
	return g.NewIDAt(g.now().UnixMilli())
}

// NewIDAt returns a KEID carrying the given millisecond timestamp.
func (g *Generator) NewIDAt(ts int64) (ID, error) {
	if ts < 0 || ts > MaxTimestamp {
		return ID{}, fmt.Errorf("generate: %w (got %d)", ErrInvalidTimestamp, ts)
	}
	return g.next(ts)
}

// Generate returns a canonical KEID for the current millisecond.
func (g *Generator) Generate() (string, error) {
	id, err := g.NewID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateAt returns a canonical KEID for the given millisecond timestamp.
func (g *Generator) GenerateAt(ts int64) (string, error) {
	id, err := g.NewIDAt(ts)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateMany returns count KEIDs, each stamped with the clock at the time
// it was produced.
func (g *Generator) GenerateMany(count int) ([]string, error) {
	return g.many(count, g.Generate)
}

// GenerateManyAt returns count KEIDs that all carry ts and differ only by
// their increasing random payload.
func (g *Generator) GenerateManyAt(count int, ts int64) ([]string, error) {
	return g.many(count, func() (string, error) { return g.GenerateAt(ts) })
}

func (g *Generator) many(count int, gen func() (string, error)) ([]string, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("generate many: %w (got %d)", ErrInvalidCount, count)
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := gen()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (g *Generator) next(ts int64) (ID, error) {
	var rnd payload
	if g.hasLast && ts == g.lastTimestamp {
		r := g.increment()
		sum, wrapped := g.lastRandom.add(r)
		if wrapped {
			sum = payload{lo: r}
		}
		rnd = sum
	} else {
		var buf [randomBytes]byte
		if _, err := io.ReadFull(g.entropy, buf[:]); err != nil {
			return ID{}, fmt.Errorf("generate: read entropy: %w", err)
		}
		rnd = payloadFrom(buf[:])
	}

	g.hasLast = true
	g.lastTimestamp = ts
	g.lastRandom = rnd

	return makeID(ts, rnd), nil
}

func makeID(ts int64, rnd payload) ID {
	var id ID
	ms := uint64(ts)
	for i := timestampBytes - 1; i >= 0; i-- {
		id[i] = byte(ms & 0xff)
		ms >>= 8
	}
	rnd.put(id[timestampBytes:])
	return id
}

// SyncGenerator serializes access to a Generator so it can be shared
// between goroutines.
type SyncGenerator struct {
	mu sync.Mutex
	g  *Generator
}

// NewSyncGenerator wraps a new Generator configured with opts.
func NewSyncGenerator(opts ...Option) *SyncGenerator {
	return &SyncGenerator{g: NewGenerator(opts...)}
}

func (s *SyncGenerator) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Generate()
}

func (s *SyncGenerator) GenerateAt(ts int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.GenerateAt(ts)
}

// GenerateMany holds the lock for the whole batch, so the result is a
// contiguous run from the underlying Generator.
func (s *SyncGenerator) GenerateMany(count int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.GenerateMany(count)
}

func (s *SyncGenerator) GenerateManyAt(count int, ts int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.GenerateManyAt(count, ts)
}
