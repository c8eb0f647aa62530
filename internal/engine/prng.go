package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Rand is the randomness the generator needs. *Stream satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// SeedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a deterministic child seed based on a base seed and a label using HMAC-SHA256.
// Labels should be stable strings such as "day:2024-03-01" or "cmd:42".
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

// Seed holds the canonical seed text of a save and hands out deterministic streams.
type Seed struct {
	Text string
	root uint64
}

// NewSeed creates a Seed from text. Empty text is rejected.
func NewSeed(text string) (Seed, error) {
	if text == "" {
		return Seed{}, fmt.Errorf("seed text must not be empty")
	}
	return Seed{Text: text, root: SeedFromString(text)}, nil
}

// Stream returns a new deterministic stream derived from the root seed.
func (r Seed) Stream(label string) *Stream {
	return newStream(Derive(r.root, label))
}

// splitMix64 PRNG used by every stream.
type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream provides deterministic random numbers with support for labelled child streams.
type Stream struct {
	base uint64
	sm   *splitMix64
}

func newStream(seed uint64) *Stream {
	return &Stream{base: seed, sm: &splitMix64{state: seed}}
}

// NewStream builds a stream straight from a numeric seed; handy in tests.
func NewStream(seed uint64) *Stream { return newStream(seed) }

// Intn mirrors math/rand.Intn but is deterministic per stream. n <= 0 yields 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

// Float64 returns a float in [0,1).
func (s *Stream) Float64() float64 { return float64(s.sm.next()>>11) / (1 << 53) }

// Read fills p from the stream so it can back uuid.NewRandomFromReader. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], s.sm.next())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// Child creates a stable sub-stream derived from this stream's base seed and label.
func (s *Stream) Child(label string) *Stream { return newStream(Derive(s.base, label)) }
