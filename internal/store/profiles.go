package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile is the locally stored prefill data of one Telegram user, plus the
// stable client reference the platform keys their bookings by.
type Profile struct {
	TelegramID int64
	ClientRef  string
	Name       string
	Phone      string
	UpdatedAt  time.Time
}

// GetOrCreateProfile returns the profile of a user, creating an empty one
// with a fresh client reference on first contact.
func (s *Store) GetOrCreateProfile(ctx context.Context, telegramID int64) (*Profile, error) {
	p, err := s.getProfile(ctx, telegramID)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	p = &Profile{
		TelegramID: telegramID,
		ClientRef:  uuid.NewString(),
	}
	_, err = s.ExecContext(ctx, `
		INSERT INTO profiles (telegram_id, client_ref)
		VALUES (?, ?)
		ON CONFLICT(telegram_id) DO NOTHING`,
		p.TelegramID, p.ClientRef)
	if err != nil {
		return nil, err
	}
	// Re-read in case a concurrent insert won.
	return s.getProfile(ctx, telegramID)
}

func (s *Store) getProfile(ctx context.Context, telegramID int64) (*Profile, error) {
	row := s.QueryRowContext(ctx, `
		SELECT telegram_id, client_ref, COALESCE(name, ''), COALESCE(phone, ''), updated_at
		FROM profiles
		WHERE telegram_id = ?`, telegramID)

	var p Profile
	if err := row.Scan(&p.TelegramID, &p.ClientRef, &p.Name, &p.Phone, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile stores the user's name and phone for future prefill.
func (s *Store) UpdateProfile(ctx context.Context, telegramID int64, name, phone string) error {
	_, err := s.ExecContext(ctx, `
		UPDATE profiles
		SET name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = ?`,
		name, phone, telegramID)
	return err
}

// ListProfiles returns every known profile, used by the reminder sweep.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT telegram_id, client_ref, COALESCE(name, ''), COALESCE(phone, ''), updated_at
		FROM profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.TelegramID, &p.ClientRef, &p.Name, &p.Phone, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HasContestEntry reports whether the user already entered the contest.
func (s *Store) HasContestEntry(ctx context.Context, telegramID, contestID int64) (bool, error) {
	row := s.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM contest_entries
		WHERE telegram_id = ? AND contest_id = ?`, telegramID, contestID)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordContestEntry remembers a submitted contest entry.
func (s *Store) RecordContestEntry(ctx context.Context, telegramID, contestID int64, externalRef string) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO contest_entries (telegram_id, contest_id, external_ref)
		VALUES (?, ?, ?)
		ON CONFLICT(telegram_id, contest_id) DO NOTHING`,
		telegramID, contestID, externalRef)
	return err
}
