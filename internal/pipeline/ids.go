package pipeline

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator yields suffixes that keep policy statement ids and permission ids unique.
type IDGenerator interface {
	Next() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) Next() string { return f() }

// TimestampIDs produces millisecond Unix timestamps. Values are strictly increasing for a
// given generator: when the clock has not advanced since the last call the previous value
// is bumped by one.
type TimestampIDs struct {
	mu    sync.Mutex
	clock func() time.Time
	last  int64
}

func NewTimestampIDs(clock func() time.Time) *TimestampIDs {
	if clock == nil {
		clock = time.Now
	}
	return &TimestampIDs{clock: clock}
}

func (g *TimestampIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return strconv.FormatInt(now, 10)
}

// UUIDIDs returns a generator of random v4 UUIDs.
func UUIDIDs() IDGenerator {
	return IDGeneratorFunc(func() string { return uuid.New().String() })
}

// FixedID always returns s. Redeploying with the same suffix replaces the previous grants
// instead of adding new ones next to them.
func FixedID(s string) IDGenerator {
	return IDGeneratorFunc(func() string { return s })
}

// defaultIDs is shared by every Define call in the process, so two graphs built in the
// same millisecond still get distinct ids.
var defaultIDs IDGenerator = NewTimestampIDs(time.Now)
