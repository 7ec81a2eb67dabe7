package hoard

import "time"

// Entry is a stored record together with the metadata the cache keeps about
// it. SizeBytes is fixed when the entry is inserted and never recomputed.
type Entry struct {
	Key            string
	Value          any
	SizeBytes      int64
	CreatedAt      time.Time
	TTL            time.Duration // zero means no expiry, negative means already expired
	LastAccessedAt time.Time
	AccessCount    int64
	Metadata       map[string]string
}

// isExpired reports whether the entry is logically absent at the given time.
func (e *Entry) isExpired(now time.Time) bool {
	if e.TTL == 0 {
		return false
	}
	return now.After(e.CreatedAt.Add(e.TTL))
}

// expiresAt returns the effective expiry time and whether one exists.
func (e *Entry) expiresAt() (time.Time, bool) {
	if e.TTL == 0 {
		return time.Time{}, false
	}
	return e.CreatedAt.Add(e.TTL), true
}
