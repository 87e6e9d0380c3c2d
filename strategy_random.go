// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// randomAlphabet is used for unconstrained random strings.
const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomDateSpanDays bounds random dates to 2000-01-01 plus about thirty years.
const randomDateSpanDays = 30 * 365

// randomDateBase is the earliest random date.
var randomDateBase = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Randomized picks uniformly over permitted ranges from an injected source.
// Calls are serialized, so one value may be shared between goroutines.
type Randomized struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Strategy = (*Randomized)(nil)

// NewRandomized returns randomized strategy drawing from source.
// A nil source is seeded from the current time.
func NewRandomized(source rand.Source) *Randomized {
	if source == nil {
		now := uint64(time.Now().UnixNano())
		source = rand.NewPCG(now, now^0x9e3779b97f4a7c15)
	}

	return &Randomized{rng: rand.New(source)}
}

// NewSeededRandomized returns reproducible randomized strategy.
func NewSeededRandomized(seed uint64) *Randomized {
	return NewRandomized(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PickBoolean returns fair coin flip.
func (random *Randomized) PickBoolean() bool {
	random.mu.Lock()
	defer random.mu.Unlock()

	return random.rng.IntN(2) == 1
}

// PickNumber returns uniform value within inclusive bounds.
func (random *Randomized) PickNumber(minimum, maximum float64, integer bool) float64 {
	random.mu.Lock()
	defer random.mu.Unlock()

	if integer {
		minimum = math.Ceil(minimum)
		maximum = math.Floor(maximum)
	}

	if maximum <= minimum {
		return minimum
	}

	if integer {
		span := maximum - minimum
		if span < math.MaxInt64 {
			return minimum + float64(random.rng.Int64N(int64(span)+1))
		}

		return math.Floor(minimum + random.rng.Float64()*span)
	}

	return minimum + random.rng.Float64()*(maximum-minimum)
}

// PickString returns alphanumeric string with uniform length.
func (random *Randomized) PickString(minLength, maxLength int) string {
	random.mu.Lock()
	defer random.mu.Unlock()

	minLength, maxLength = normalizeLengthBounds(minLength, maxLength)
	return random.text(minLength + random.rng.IntN(maxLength-minLength+1))
}

// PickFormat returns random value for known format.
func (random *Randomized) PickFormat(format string) (string, bool) {
	random.mu.Lock()
	defer random.mu.Unlock()

	switch normalizeFormat(format) {
	case FormatUUID:
		id, err := uuid.NewRandomFromReader(rngReader{rng: random.rng})
		if err != nil {
			return FormatLiteral(FormatUUID)
		}

		return id.String(), true
	case FormatEmail:
		return random.text(8) + "@example.com", true
	case FormatURI:
		return "https://example.com/" + random.text(8), true
	case FormatDate:
		return random.date().Format(time.DateOnly), true
	case FormatDateTime:
		moment := random.date().Add(time.Duration(random.rng.Int64N(int64(24 * time.Hour))))
		return moment.Truncate(time.Millisecond).Format(dateTimeLayout), true
	case FormatPhone:
		return "+1555" + strconv.Itoa(1000000+random.rng.IntN(9000000)), true
	default:
		return "", false
	}
}

// PickPattern returns random string matching pattern.
func (random *Randomized) PickPattern(pattern string) (string, bool) {
	random.mu.Lock()
	seed := random.rng.Int64()
	random.mu.Unlock()

	return patternString(pattern, seed)
}

// PickEnum returns uniformly chosen value.
func (random *Randomized) PickEnum(values []any) any {
	if len(values) == 0 {
		return nil
	}

	random.mu.Lock()
	defer random.mu.Unlock()

	return values[random.rng.IntN(len(values))]
}

// PickArrayLength returns uniform count within inclusive bounds.
func (random *Randomized) PickArrayLength(minItems, maxItems int) int {
	random.mu.Lock()
	defer random.mu.Unlock()

	minItems = max(minItems, 0)
	if maxItems <= minItems {
		return minItems
	}

	return minItems + random.rng.IntN(maxItems-minItems+1)
}

// PickUnionBranch returns uniform branch index.
func (random *Randomized) PickUnionBranch(count int) int {
	if count <= 1 {
		return 0
	}

	random.mu.Lock()
	defer random.mu.Unlock()

	return random.rng.IntN(count)
}

// PickInclusion includes property with given probability.
func (random *Randomized) PickInclusion(probability float64) bool {
	random.mu.Lock()
	defer random.mu.Unlock()

	return random.rng.Float64() < probability
}

// text returns random alphanumeric string; caller holds the lock.
func (random *Randomized) text(length int) string {
	out := make([]byte, length)
	for index := range out {
		out[index] = randomAlphabet[random.rng.IntN(len(randomAlphabet))]
	}

	return string(out)
}

// date returns random UTC midnight; caller holds the lock.
func (random *Randomized) date() time.Time {
	return randomDateBase.AddDate(0, 0, random.rng.IntN(randomDateSpanDays))
}

// rngReader adapts random source to io.Reader for uuid generation.
type rngReader struct {
	rng *rand.Rand
}

// Read fills buffer with random bytes.
func (reader rngReader) Read(buffer []byte) (int, error) {
	var chunk [8]byte
	for offset := 0; offset < len(buffer); offset += len(chunk) {
		binary.LittleEndian.PutUint64(chunk[:], reader.rng.Uint64())
		copy(buffer[offset:], chunk[:])
	}

	return len(buffer), nil
}
