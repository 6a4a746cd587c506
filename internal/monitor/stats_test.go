package monitor

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

func sampleEvents() []securitylog.Event {
	return []securitylog.Event{
		{Key: "UNAUTHORIZED_ACCESS_BLOCKED", Severity: securitylog.SeverityHigh, Source: "secure", Resource: "/api/orders/1"},
		{Key: "UNAUTHORIZED_DELETE_BLOCKED", Severity: securitylog.SeverityHigh, Source: "secure", Resource: "/api/orders/2"},
		{Key: "ADMIN_ACCESS_GRANTED", Severity: securitylog.SeverityLow, Source: "secure", Resource: "/api/orders/3"},
		{Key: "ORDER_ACCESS_BOLA", Severity: securitylog.SeverityCritical, Source: "vulnerable", Resource: "/api/orders/1"},
		{Key: "LOGIN_ATTEMPT", Severity: securitylog.SeverityLow, Source: "vulnerable", Resource: "/api/auth/login"},
		{Key: "RATE_LIMIT_EXCEEDED", Severity: securitylog.SeverityMedium, Source: "secure", Resource: "/api/auth/login"},
	}
}

func TestFoldCounters(t *testing.T) {
	agg := NewAggregator()
	for _, ev := range sampleEvents() {
		agg.Fold(ev)
	}

	secure := agg.Source("secure")
	assert.Equal(t, int64(4), secure.Total)
	assert.Equal(t, int64(2), secure.Blocked)
	assert.Equal(t, int64(2), secure.Critical)

	vulnerable := agg.Source("vulnerable")
	assert.Equal(t, int64(2), vulnerable.Total)
	assert.Equal(t, int64(0), vulnerable.Blocked, "served BOLA reads are not enforcement actions")
	assert.Equal(t, int64(1), vulnerable.Critical)

	_, byCategory := agg.Snapshot()
	assert.Equal(t, int64(1), byCategory[CategoryBOLA])
	assert.Equal(t, int64(3), byCategory[CategoryOrders])
	assert.Equal(t, int64(2), byCategory[CategoryAuth])
}

// Folding a fixed multiset of events in any order yields identical totals.
func TestFoldIsCommutative(t *testing.T) {
	events := sampleEvents()

	reference := NewAggregator()
	for _, ev := range events {
		reference.Fold(ev)
	}
	wantSources, wantCategories := reference.Snapshot()

	for seed := range 10 {
		shuffled := make([]securitylog.Event, len(events))
		copy(shuffled, events)
		rand.New(rand.NewSource(int64(seed))).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		agg := NewAggregator()
		for _, ev := range shuffled {
			agg.Fold(ev)
		}
		gotSources, gotCategories := agg.Snapshot()
		require.Equal(t, wantSources, gotSources)
		require.Equal(t, wantCategories, gotCategories)
	}
}

// Two concurrent deny events for different subjects on the same resource
// increment blocked by exactly 2, regardless of interleaving.
func TestConcurrentFoldsLoseNoUpdates(t *testing.T) {
	agg := NewAggregator()

	const workers = 8
	const perWorker = 250

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for range perWorker {
				agg.Fold(securitylog.Event{
					Key:       "UNAUTHORIZED_ACCESS_BLOCKED",
					Severity:  securitylog.SeverityHigh,
					Source:    "secure",
					SubjectID: int64(n + 1),
					Resource:  "/api/orders/1",
				})
			}
		}(w)
	}
	wg.Wait()

	stats := agg.Source("secure")
	assert.Equal(t, int64(workers*perWorker), stats.Total)
	assert.Equal(t, int64(workers*perWorker), stats.Blocked)
	assert.Equal(t, int64(workers*perWorker), stats.Critical)
}
