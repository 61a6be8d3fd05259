package booking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"venuehub/internal/metrics"
	"venuehub/internal/timeslot"
)

// minFutureLead is how far in the future a slot of today's date must start
// to remain bookable. Fixed at one hour by the platform rules.
const minFutureLead = time.Hour

// AvailabilityFetcher fetches the bookable start labels of one space for one
// calendar date under one requested duration.
type AvailabilityFetcher interface {
	AvailableSlots(ctx context.Context, spaceID int64, date time.Time, durationHours int, excludeBookingID string) ([]string, error)
}

// Result is one delivery of fetched availability. A result with
// NextDayResolved false carries only the current date's window; feasibility
// checks degrade to same-day-only until the completing result arrives.
// Windows are already canonicalised and today-filtered; a failed fetch is an
// explicit empty window, never stale data.
type Result struct {
	ID              uint64
	SpaceID         int64
	Date            time.Time
	DurationHours   int
	Current         timeslot.Window
	NextDay         timeslot.Window
	NextDayResolved bool
	CurrentErr      error
	NextDayErr      error
}

// Loader coalesces availability fetches for a booking form. Rapid date or
// duration changes reset a debounce timer, every request gets a monotonically
// increasing id, and deliveries whose id is no longer the latest are dropped,
// so the most recent (date, duration) pair always wins regardless of response
// ordering. The current-date and next-date windows are fetched concurrently;
// the next-date window exists only because a booking may run past midnight.
type Loader struct {
	fetcher  AvailabilityFetcher
	debounce time.Duration
	deliver  func(Result)
	logger   *zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	latest uint64
	timer  *time.Timer
}

// NewLoader constructs a loader delivering results to the given callback.
// The callback runs on the loader's fetch goroutines.
func NewLoader(fetcher AvailabilityFetcher, debounce time.Duration, logger *zerolog.Logger, deliver func(Result)) *Loader {
	return &Loader{
		fetcher:  fetcher,
		debounce: debounce,
		deliver:  deliver,
		logger:   logger,
		now:      time.Now,
	}
}

// Request schedules a fetch for the selection and returns its request id.
// A pending debounce timer from an earlier request is cancelled; in-flight
// fetches are not interrupted, their results are discarded on delivery.
func (l *Loader) Request(ctx context.Context, spaceID int64, date time.Time, durationHours int, excludeBookingID string) uint64 {
	durationHours = timeslot.ClampDurationHours(durationHours)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.latest++
	id := l.latest

	if l.timer != nil {
		l.timer.Stop()
	}
	run := func() { l.fetch(ctx, id, spaceID, date, durationHours, excludeBookingID) }
	if l.debounce <= 0 {
		go run()
	} else {
		l.timer = time.AfterFunc(l.debounce, run)
	}
	return id
}

// Stop cancels a pending debounce timer.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *Loader) isLatest(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return id == l.latest
}

func (l *Loader) fetch(ctx context.Context, id uint64, spaceID int64, date time.Time, durationHours int, excludeBookingID string) {
	if !l.isLatest(id) {
		metrics.IncAvailabilityStaleDropped()
		return
	}

	type fetched struct {
		window timeslot.Window
		err    error
	}
	nextDate := date.AddDate(0, 0, 1)
	nextCh := make(chan fetched, 1)

	go func() {
		w, err := l.fetchWindow(ctx, spaceID, nextDate, durationHours, excludeBookingID)
		nextCh <- fetched{window: w, err: err}
	}()

	current, currentErr := l.fetchWindow(ctx, spaceID, date, durationHours, excludeBookingID)

	partial := Result{
		ID:            id,
		SpaceID:       spaceID,
		Date:          date,
		DurationHours: durationHours,
		Current:       current,
		CurrentErr:    currentErr,
	}
	l.emit(partial)

	next := <-nextCh
	complete := partial
	complete.NextDay = next.window
	complete.NextDayErr = next.err
	complete.NextDayResolved = true
	l.emit(complete)
}

// fetchWindow fetches, canonicalises and today-filters one date's window.
// Any fetch error yields an empty window so downstream feasibility results
// never mix dates.
func (l *Loader) fetchWindow(ctx context.Context, spaceID int64, date time.Time, durationHours int, excludeBookingID string) (timeslot.Window, error) {
	raw, err := l.fetcher.AvailableSlots(ctx, spaceID, date, durationHours, excludeBookingID)
	if err != nil {
		metrics.IncAvailabilityFetch("error")
		l.logger.Warn().Err(err).
			Int64("space_id", spaceID).
			Str("date", date.Format("2006-01-02")).
			Msg("availability fetch failed, treating as empty window")
		return timeslot.Window{}, err
	}
	metrics.IncAvailabilityFetch("ok")
	return timeslot.FilterPast(timeslot.NewWindow(raw), date, l.now(), minFutureLead), nil
}

func (l *Loader) emit(res Result) {
	if !l.isLatest(res.ID) {
		metrics.IncAvailabilityStaleDropped()
		l.logger.Debug().
			Uint64("request_id", res.ID).
			Msg("dropping superseded availability result")
		return
	}
	l.deliver(res)
}
