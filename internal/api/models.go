package api

import (
	"venuehub/internal/pricing"
)

// Venue is a bookable venue from the catalogue API.
type Venue struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Description string  `json:"description,omitempty"`
	Spaces      []Space `json:"spaces"`
}

// Space is a bookable unit inside a venue (hall, court, room).
type Space struct {
	ID              int64          `json:"id"`
	VenueID         int64          `json:"venue_id"`
	Name            string         `json:"name"`
	Capacity        int            `json:"capacity"`
	HourlyRate      float64        `json:"hourly_rate"`
	DurationOptions []int          `json:"duration_options,omitempty"`
	RawOverrides    map[string]any `json:"pricing_overrides,omitempty"`

	// Overrides is the canonical form of RawOverrides, filled in by the
	// client after decoding. Nothing past this package sees the raw shape.
	Overrides pricing.Overrides `json:"-"`
}

// Program is a scheduled activity hosted at a venue (yoga, zumba, live show).
type Program struct {
	ID          int64   `json:"id"`
	VenueID     int64   `json:"venue_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	Schedule    string  `json:"schedule,omitempty"`
	Price       float64 `json:"price"`
}

// AvailableSlotsResponse is the availability API payload. Metadata fields
// other than available_slots are not consumed by the calculator.
type AvailableSlotsResponse struct {
	SpaceID        int64    `json:"space_id"`
	SelectedDate   string   `json:"selected_date"`
	DurationHours  int      `json:"duration_hours"`
	AvailableSlots []string `json:"available_slots"`
}

// ValidateSlotRequest asks the platform to confirm a concrete interval.
type ValidateSlotRequest struct {
	SpaceID       int64  `json:"space_id"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// ValidateSlotResponse is the validation verdict.
type ValidateSlotResponse struct {
	IsAvailable bool   `json:"is_available"`
	Message     string `json:"message"`
}

// CreateBookingRequest creates a booking for a space.
type CreateBookingRequest struct {
	SpaceID       int64   `json:"space_id"`
	Date          string  `json:"date"` // YYYY-MM-DD
	StartTime     string  `json:"start_time"`
	DurationHours int     `json:"duration_hours"`
	ClientName    string  `json:"client_name"`
	ClientPhone   string  `json:"client_phone"`
	TotalPrice    float64 `json:"total_price"`
	ExternalRef   string  `json:"external_ref"`
}

// Booking is a booking as stored server-side.
type Booking struct {
	ID            int64   `json:"id"`
	SpaceID       int64   `json:"space_id"`
	VenueName     string  `json:"venue_name,omitempty"`
	SpaceName     string  `json:"space_name,omitempty"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time,omitempty"`
	DurationHours int     `json:"duration_hours"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	ExternalRef   string  `json:"external_ref"`
}

// CreateBookingResponse is the creation result.
type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"booking_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ContestEntryRequest submits an entry into a running contest.
type ContestEntryRequest struct {
	ContestID   int64  `json:"contest_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	Answer      string `json:"answer,omitempty"`
	ExternalRef string `json:"external_ref"`
}

// Contest is a running contest from the catalogue API.
type Contest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Question string `json:"question,omitempty"`
	EndsAt   string `json:"ends_at,omitempty"`
}

// ContestEntryResponse is the submission result.
type ContestEntryResponse struct {
	Success bool   `json:"success"`
	EntryID int64  `json:"entry_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
