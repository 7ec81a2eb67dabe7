package hoard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(key string, created time.Time) *Entry {
	return &Entry{
		Key:            key,
		CreatedAt:      created,
		LastAccessedAt: created,
	}
}

func TestLRUSelectVictim(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	strat := newStrategy(LRU)

	a := testEntry("a", base)
	b := testEntry("b", base.Add(time.Second))
	c := testEntry("c", base.Add(2*time.Second))

	// a is touched last, so b becomes the oldest access
	strat.onAccess(a, base.Add(10*time.Second))

	victim, ok := strat.selectVictim(map[string]*Entry{"a": a, "b": b, "c": c})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestLRUSelectVictimEmpty(t *testing.T) {
	strat := newStrategy(LRU)
	_, ok := strat.selectVictim(map[string]*Entry{})
	assert.False(t, ok)
}

func TestLFUSelectVictim(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	strat := newStrategy(LFU)

	a := testEntry("a", base)
	b := testEntry("b", base.Add(time.Second))

	strat.onAccess(a, base.Add(10*time.Second))
	strat.onAccess(a, base.Add(11*time.Second))
	strat.onAccess(b, base.Add(12*time.Second))

	victim, ok := strat.selectVictim(map[string]*Entry{"a": a, "b": b})
	require.True(t, ok)
	assert.Equal(t, "b", victim)
}

func TestLFUTieBreaksByOldestInsertion(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	strat := newStrategy(LFU)

	older := testEntry("older", base)
	newer := testEntry("newer", base.Add(time.Minute))

	victim, ok := strat.selectVictim(map[string]*Entry{"older": older, "newer": newer})
	require.True(t, ok)
	assert.Equal(t, "older", victim)
}

func TestTTLSelectVictimByEarliestExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	strat := newStrategy(TTL)

	soon := testEntry("soon", base)
	soon.TTL = time.Minute
	later := testEntry("later", base)
	later.TTL = time.Hour
	forever := testEntry("forever", base.Add(-time.Hour)) // oldest, but no TTL

	victim, ok := strat.selectVictim(map[string]*Entry{
		"soon": soon, "later": later, "forever": forever,
	})
	require.True(t, ok)
	assert.Equal(t, "soon", victim)
}

func TestTTLSelectVictimFallsBackToOldestCreated(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	strat := newStrategy(TTL)

	old := testEntry("old", base)
	newer := testEntry("newer", base.Add(time.Minute))

	victim, ok := strat.selectVictim(map[string]*Entry{"old": old, "newer": newer})
	require.True(t, ok)
	assert.Equal(t, "old", victim)
}

func TestOnAccessUpdatesEntryMetadata(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, p := range []Policy{LRU, LFU, TTL} {
		e := testEntry("a", base)
		strat := newStrategy(p)

		strat.onAccess(e, base.Add(time.Minute))

		assert.Equal(t, base.Add(time.Minute), e.LastAccessedAt)
		assert.Equal(t, int64(1), e.AccessCount)
	}
}

func TestEntryExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	noTTL := testEntry("a", base)
	assert.False(t, noTTL.isExpired(base.Add(100*time.Hour)))

	withTTL := testEntry("b", base)
	withTTL.TTL = time.Minute
	assert.False(t, withTTL.isExpired(base.Add(time.Minute)))
	assert.True(t, withTTL.isExpired(base.Add(time.Minute+time.Nanosecond)))

	expired := testEntry("c", base)
	expired.TTL = -1
	assert.True(t, expired.isExpired(base))
}
