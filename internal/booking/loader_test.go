package booking

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls []string
	slots map[string][]string // keyed by YYYY-MM-DD
	errs  map[string]error
	delay map[string]time.Duration
}

func (f *stubFetcher) AvailableSlots(_ context.Context, _ int64, date time.Time, _ int, _ string) ([]string, error) {
	key := date.Format("2006-01-02")

	f.mu.Lock()
	f.calls = append(f.calls, key)
	delay := f.delay[key]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.slots[key], nil
}

type resultSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *resultSink) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) wait(t *testing.T, n int) []Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		got := len(s.results)
		s.mu.Unlock()
		if got >= n {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) < n {
		t.Fatalf("expected %d results, got %d", n, len(s.results))
	}
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

var testLogger = zerolog.New(io.Discard)

func futureDate() time.Time {
	d := time.Now().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
}

func TestLoader_DeliversPartialThenComplete(t *testing.T) {
	date := futureDate()
	next := date.AddDate(0, 0, 1)
	fetcher := &stubFetcher{
		slots: map[string][]string{
			date.Format("2006-01-02"): {"11:00 PM"},
			next.Format("2006-01-02"): {"12:00 AM", "1:00 AM"},
		},
		delay: map[string]time.Duration{
			next.Format("2006-01-02"): 50 * time.Millisecond,
		},
	}
	sink := &resultSink{}
	l := NewLoader(fetcher, 0, &testLogger, sink.deliver)

	id := l.Request(context.Background(), 7, date, 3, "")
	results := sink.wait(t, 2)

	partial, complete := results[0], results[1]
	assert.Equal(t, id, partial.ID)
	assert.False(t, partial.NextDayResolved, "first delivery degrades to same-day-only")
	assert.Empty(t, partial.NextDay)
	assert.Len(t, partial.Current, 1)

	assert.True(t, complete.NextDayResolved)
	assert.Len(t, complete.NextDay, 2)
}

func TestLoader_LatestRequestWins(t *testing.T) {
	slow := futureDate()
	fast := slow.AddDate(0, 0, 2)
	fetcher := &stubFetcher{
		slots: map[string][]string{
			slow.Format("2006-01-02"): {"9:00 AM"},
			fast.Format("2006-01-02"): {"5:00 PM"},
		},
		delay: map[string]time.Duration{
			slow.Format("2006-01-02"): 100 * time.Millisecond,
		},
	}
	sink := &resultSink{}
	l := NewLoader(fetcher, 0, &testLogger, sink.deliver)

	l.Request(context.Background(), 7, slow, 2, "")
	latest := l.Request(context.Background(), 7, fast, 2, "")

	// Give the superseded fetch time to finish; its results must be dropped.
	time.Sleep(300 * time.Millisecond)
	results := sink.wait(t, 1)
	for _, r := range results {
		assert.Equal(t, latest, r.ID, "only the latest request may deliver")
		assert.Equal(t, fast.Format("2006-01-02"), r.Date.Format("2006-01-02"))
	}
}

func TestLoader_DebounceCoalescesRapidChanges(t *testing.T) {
	date := futureDate()
	fetcher := &stubFetcher{
		slots: map[string][]string{date.Format("2006-01-02"): {"9:00 AM"}},
	}
	sink := &resultSink{}
	l := NewLoader(fetcher, 60*time.Millisecond, &testLogger, sink.deliver)

	// Three selection changes inside the debounce window: only the last fires.
	l.Request(context.Background(), 7, date, 1, "")
	l.Request(context.Background(), 7, date, 2, "")
	id := l.Request(context.Background(), 7, date, 3, "")

	results := sink.wait(t, 2)
	fetcher.mu.Lock()
	calls := len(fetcher.calls)
	fetcher.mu.Unlock()

	assert.Equal(t, 2, calls, "one current-day and one next-day fetch")
	for _, r := range results {
		assert.Equal(t, id, r.ID)
		assert.Equal(t, 3, r.DurationHours)
	}
}

func TestLoader_FetchErrorYieldsEmptyWindow(t *testing.T) {
	date := futureDate()
	next := date.AddDate(0, 0, 1)
	fetcher := &stubFetcher{
		slots: map[string][]string{next.Format("2006-01-02"): {"12:00 AM"}},
		errs:  map[string]error{date.Format("2006-01-02"): context.DeadlineExceeded},
	}
	sink := &resultSink{}
	l := NewLoader(fetcher, 0, &testLogger, sink.deliver)

	l.Request(context.Background(), 7, date, 2, "")
	results := sink.wait(t, 2)

	complete := results[1]
	assert.Error(t, complete.CurrentErr)
	assert.Empty(t, complete.Current, "failed fetch must surface as an explicit empty window")
	assert.Len(t, complete.NextDay, 1)
}

func TestLoader_ClampsDuration(t *testing.T) {
	date := futureDate()
	fetcher := &stubFetcher{slots: map[string][]string{}}
	sink := &resultSink{}
	l := NewLoader(fetcher, 0, &testLogger, sink.deliver)

	l.Request(context.Background(), 7, date, 99, "")
	results := sink.wait(t, 2)
	assert.Equal(t, 12, results[0].DurationHours)
}
