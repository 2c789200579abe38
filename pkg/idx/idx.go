// Package idx generates the sortable identifiers used across leavedesk:
// storage scopes for a client tab, OTP challenge ids and request ids.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero is the empty ID. It never identifies anything.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	genOnce sync.Once
	gen     *generator
)

// generator hands out monotonic ULIDs, safe for concurrent callers.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) at(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}

func initGenerator() {
	gen = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a new ULID-based ID stamped with the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns an ID stamped with t. Tests use it to build ordered ids.
func NewAt(t time.Time) ID {
	genOnce.Do(initGenerator)
	return gen.at(t)
}

// Parse validates s as a ULID. Surrounding whitespace is ignored.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}

	return ID(s), nil
}

// ParseOrNew parses s when it is set, otherwise mints a fresh ID. A pinned
// but malformed value is an error rather than silently replaced.
func ParseOrNew(s string) (ID, error) {
	if strings.TrimSpace(s) == "" {
		return New(), nil
	}
	return Parse(s)
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time extracts the embedded UTC timestamp, or the zero time for invalid ids.
func (id ID) Time() time.Time {
	if id.IsZero() {
		return time.Time{}
	}

	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(u.Time()).UTC()
}
