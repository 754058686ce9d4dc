package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndQuery(t *testing.T) {
	assert := assert.New(t)
	l := NewLog(100)

	l.Append(Entry{Action: "block", Actor: "actor-1"})
	l.Append(Entry{Action: "report", Actor: "actor-2"})
	l.Append(Entry{Action: "block", Actor: "actor-3"})

	assert.Equal(3, l.Len())

	blocks := l.Query(QueryFilters{Action: "block"})
	require.Len(t, blocks, 2)
	// newest first
	assert.Equal("actor-3", blocks[0].Actor)
	assert.Equal("actor-1", blocks[1].Actor)

	limited := l.Query(QueryFilters{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal("actor-3", limited[0].Actor)
}

func TestQuerySince(t *testing.T) {
	assert := assert.New(t)
	l := NewLog(100)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.Append(Entry{Timestamp: base, Action: "block", Actor: "old"})
	l.Append(Entry{Timestamp: base.Add(time.Hour), Action: "block", Actor: "new"})

	recent := l.Query(QueryFilters{Since: base.Add(30 * time.Minute)})
	require.Len(t, recent, 1)
	assert.Equal("new", recent[0].Actor)
}

func TestBoundedEviction(t *testing.T) {
	assert := assert.New(t)
	capacity := 10
	l := NewLog(capacity)

	for i := 0; i < capacity+1; i++ {
		l.Append(Entry{Action: "evaluate", Actor: fmt.Sprintf("actor-%d", i)})
	}

	// one append past capacity evicts the oldest capacity/2 in one pass
	assert.LessOrEqual(l.Len(), capacity)
	assert.Equal(capacity/2+1, l.Len())

	entries := l.Query(QueryFilters{})
	require.NotEmpty(t, entries)
	// the retained entries are the most recent ones
	assert.Equal(fmt.Sprintf("actor-%d", capacity), entries[0].Actor)
	assert.Equal(fmt.Sprintf("actor-%d", capacity/2), entries[len(entries)-1].Actor)
}

func TestDefaultCapacityBound(t *testing.T) {
	assert := assert.New(t)
	l := NewLog(0)

	for i := 0; i < DefaultCapacity+1; i++ {
		l.Append(Entry{Action: "evaluate"})
	}
	assert.LessOrEqual(l.Len(), DefaultCapacity)
}

func TestComplianceReport(t *testing.T) {
	assert := assert.New(t)
	l := NewLog(100)

	now := time.Now().UTC()
	l.Append(Entry{Timestamp: now.Add(-10 * time.Minute), Action: "block", Actor: "a"})
	l.Append(Entry{Timestamp: now.Add(-20 * time.Minute), Action: "block", Actor: "b"})
	l.Append(Entry{Timestamp: now.Add(-30 * time.Minute), Action: "report", Actor: "c"})
	// outside the trailing window
	l.Append(Entry{Timestamp: now.Add(-48 * time.Hour), Action: "block", Actor: "d"})

	report := l.GenerateComplianceReport(24 * time.Hour)
	assert.Equal(3, report.TotalActions)
	assert.Equal(2, report.ByAction["block"])
	assert.Equal(1, report.ByAction["report"])

	hours := 0
	for _, n := range report.ByHour {
		hours += n
	}
	assert.Equal(3, hours)
}

func TestConcurrentAppendQuery(t *testing.T) {
	assert := assert.New(t)
	l := NewLog(50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Append(Entry{Action: "evaluate", Actor: fmt.Sprintf("w%d", n)})
				_ = l.Query(QueryFilters{Limit: 5})
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(l.Len(), 50)
	assert.Greater(l.Len(), 0)
}
