package bot

import (
	"sync"

	"venuehub/internal/api"
	"venuehub/internal/booking"
	"venuehub/internal/timeslot"
)

type bookingStep string

const (
	stepNone          bookingStep = "none"
	stepVenue         bookingStep = "venue"
	stepSpace         bookingStep = "space"
	stepDate          bookingStep = "date"
	stepTime          bookingStep = "time"
	stepDuration      bookingStep = "duration"
	stepClientName    bookingStep = "client_name"
	stepClientPhone   bookingStep = "client_phone"
	stepConfirm       bookingStep = "confirm"
	stepContestAnswer bookingStep = "contest_answer"
)

// availability is the latest delivered pair of windows for a user's form.
// Cleared on every date or duration change so feasibility is never computed
// against a previous selection.
type availability struct {
	FetchID         uint64
	Current         timeslot.Window
	NextDay         timeslot.Window
	NextDayResolved bool
	Failed          bool
	Loaded          bool
}

type userState struct {
	mu sync.Mutex

	Step      bookingStep
	ChatID    int64
	Selection *booking.SelectionState
	Avail     availability

	Venue api.Venue
	Space api.Space

	ClientName  string
	ClientPhone string

	ContestID    int64
	ContestTitle string
}

func (st *userState) setAvailability(a availability) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Avail = a
}

func (st *userState) clearAvailability() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Avail = availability{}
}

func (st *userState) snapshotAvailability() availability {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.Avail
}

type stateStore struct {
	mu sync.Mutex
	m  map[int64]*userState
}

func newStateStore() *stateStore {
	return &stateStore{m: make(map[int64]*userState)}
}

func (s *stateStore) get(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.m[userID]
	if st == nil {
		st = &userState{
			Step:      stepNone,
			Selection: booking.NewSelectionState(booking.Selection{}),
		}
		s.m[userID] = st
	}
	return st
}

// reset tears the form down: a fresh state also drops the one-shot duration
// pin and the auto-adjust bookkeeping.
func (s *stateStore) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
