package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"venuehub/internal/api"
)

func TestBookings(t *testing.T) {
	buf, err := Bookings([]api.Booking{
		{
			VenueName:     "Riverside Hall",
			SpaceName:     "Main Hall",
			Date:          "2026-09-12",
			StartTime:     "11:00 PM",
			EndTime:       "1:00 AM",
			DurationHours: 2,
			TotalPrice:    900,
			Status:        "confirmed",
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Venue", rows[0][0])
	assert.Equal(t, "Riverside Hall", rows[1][0])
	assert.Equal(t, "11:00 PM", rows[1][3])
	assert.Equal(t, "confirmed", rows[1][7])
}

func TestBookings_Empty(t *testing.T) {
	buf, err := Bookings(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
