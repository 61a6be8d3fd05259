package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.GetOrCreateProfile(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), p.TelegramID)
	assert.NotEmpty(t, p.ClientRef)
	assert.Empty(t, p.Name)

	// Second call returns the same client reference.
	again, err := s.GetOrCreateProfile(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, p.ClientRef, again.ClientRef)
}

func TestUpdateProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetOrCreateProfile(ctx, 1001)
	require.NoError(t, err)
	require.NoError(t, s.UpdateProfile(ctx, 1001, "A. Client", "+15551234567"))

	p, err := s.GetOrCreateProfile(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "A. Client", p.Name)
	assert.Equal(t, "+15551234567", p.Phone)
}

func TestContestEntryDedupe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	has, err := s.HasContestEntry(ctx, 1001, 5)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.RecordContestEntry(ctx, 1001, 5, "ref-1"))
	// Duplicate record is a silent no-op.
	require.NoError(t, s.RecordContestEntry(ctx, 1001, 5, "ref-2"))

	has, err = s.HasContestEntry(ctx, 1001, 5)
	require.NoError(t, err)
	assert.True(t, has)

	// A different contest is still open.
	has, err = s.HasContestEntry(ctx, 1001, 6)
	require.NoError(t, err)
	assert.False(t, has)
}
