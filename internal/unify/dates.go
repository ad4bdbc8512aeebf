package unify

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/ppiankov/crimeetl/internal/cache"
)

const dateNamespace = "date"

// raw values longer than this are hashed before keying the cache
const maxKeyLen = 64

// dateResult is what the cache stores per raw value, failures included
type dateResult struct {
	t   time.Time
	err error
}

// DateParser parses incident dates in any of the common layouts
// (1/2/2009, 2009-01-02, 01/02/2009 13:45, RFC 3339, ...). Month-first is
// assumed for ambiguous slash dates. Results, failures included, are
// memoized per raw string.
type DateParser struct {
	cache cache.Cache
	loc   *time.Location
}

// NewDateParser creates a parser; a nil cache disables memoization
func NewDateParser(c cache.Cache) *DateParser {
	if c == nil {
		c = cache.Nop{}
	}
	return &DateParser{cache: c, loc: time.UTC}
}

// Parse parses raw
func (p *DateParser) Parse(raw string) (time.Time, error) {
	key := cache.Key(dateNamespace, raw)
	if len(raw) > maxKeyLen {
		key = cache.HashKey(dateNamespace, raw)
	}
	if v, ok := p.cache.Get(key); ok {
		res := v.(dateResult)
		return res.t, res.err
	}

	t, err := dateparse.ParseIn(raw, p.loc)
	_ = p.cache.Set(key, dateResult{t: t, err: err}, 0)
	return t, err
}

// Cached returns the number of memoized values
func (p *DateParser) Cached() int {
	return p.cache.Len()
}

// hasClock reports whether t carries a non-midnight time of day
func hasClock(t time.Time) bool {
	h, m, s := t.Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}
