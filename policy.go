package hoard

import "time"

// Policy selects the eviction strategy for the cache.
type Policy int

const (
	// LRU evicts the entry with the oldest access time.
	LRU Policy = iota
	// LFU evicts the entry with the lowest access count,
	// breaking ties by oldest insertion.
	LFU
	// TTL evicts the entry closest to expiry. Entries without a TTL are
	// treated as expiring last and compared by insertion time.
	TTL
)

// strategy is the capability set behind a Policy. Strategies keep no state
// of their own and hold no reference to the cache or backend; all the
// information they need lives on the entries themselves.
type strategy interface {
	// onInsert is called after an entry has been stored.
	onInsert(e *Entry)

	// onAccess is called on every live read of an entry.
	onAccess(e *Entry, now time.Time)

	// selectVictim picks the key to evict from a read-only view of the
	// current entries. Returns false when the view is empty.
	selectVictim(entries map[string]*Entry) (string, bool)
}

// Compile-time interface assertions.
var (
	_ strategy = (*lruStrategy)(nil)
	_ strategy = (*lfuStrategy)(nil)
	_ strategy = (*ttlStrategy)(nil)
)

// lruStrategy evicts by oldest LastAccessedAt.
type lruStrategy struct{}

func (lruStrategy) onInsert(*Entry) {}

func (lruStrategy) onAccess(e *Entry, now time.Time) {
	e.LastAccessedAt = now
	e.AccessCount++
}

func (lruStrategy) selectVictim(entries map[string]*Entry) (string, bool) {
	var victim string
	var oldest time.Time
	found := false
	for key, e := range entries {
		if !found || e.LastAccessedAt.Before(oldest) {
			victim = key
			oldest = e.LastAccessedAt
			found = true
		}
	}
	return victim, found
}

// lfuStrategy evicts by lowest AccessCount, ties broken by oldest CreatedAt.
type lfuStrategy struct{}

func (lfuStrategy) onInsert(*Entry) {}

func (lfuStrategy) onAccess(e *Entry, now time.Time) {
	e.LastAccessedAt = now
	e.AccessCount++
}

func (lfuStrategy) selectVictim(entries map[string]*Entry) (string, bool) {
	var victim *Entry
	var victimKey string
	for key, e := range entries {
		if victim == nil {
			victim, victimKey = e, key
			continue
		}
		if e.AccessCount < victim.AccessCount ||
			(e.AccessCount == victim.AccessCount && e.CreatedAt.Before(victim.CreatedAt)) {
			victim, victimKey = e, key
		}
	}
	return victimKey, victim != nil
}

// ttlStrategy evicts by earliest effective expiry.
type ttlStrategy struct{}

func (ttlStrategy) onInsert(*Entry) {}

func (ttlStrategy) onAccess(e *Entry, now time.Time) {
	e.LastAccessedAt = now
	e.AccessCount++
}

func (ttlStrategy) selectVictim(entries map[string]*Entry) (string, bool) {
	var victim *Entry
	var victimKey string
	for key, e := range entries {
		if victim == nil || expiresSooner(e, victim) {
			victim, victimKey = e, key
		}
	}
	return victimKey, victim != nil
}

// expiresSooner reports whether a should be evicted before b under the TTL
// policy. An entry without a TTL never expires, so any expiring entry sorts
// ahead of it; within a cohort the comparison falls back to CreatedAt.
func expiresSooner(a, b *Entry) bool {
	aExp, aOK := a.expiresAt()
	bExp, bOK := b.expiresAt()
	switch {
	case aOK && bOK:
		if !aExp.Equal(bExp) {
			return aExp.Before(bExp)
		}
	case aOK:
		return true
	case bOK:
		return false
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func newStrategy(p Policy) strategy {
	switch p {
	case LFU:
		return lfuStrategy{}
	case TTL:
		return ttlStrategy{}
	default:
		return lruStrategy{}
	}
}
