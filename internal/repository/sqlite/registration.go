package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

// CreateRegistration returns repository.ErrConflict when the email is already
// registered for the event.
func (r *SQLiteRepo) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	if reg == nil {
		return fmt.Errorf("registration is nil")
	}
	if reg.ID == "" {
		reg.ID = newID()
	}
	if reg.AttendeeCount <= 0 {
		reg.AttendeeCount = 1
	}
	registered := stamp(reg.RegisteredAt)
	reg.RegisteredAt = fromMillis(registered)

	res, err := r.conn.Exec(ctx, `INSERT INTO event_registrations (id, event_id, name, email, phone, attendee_count, registered_at) VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(event_id, email) DO NOTHING`,
		reg.ID, reg.EventID, reg.Name, reg.Email, reg.Phone, reg.AttendeeCount, registered)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}

	return nil
}

func (r *SQLiteRepo) ListRegistrations(ctx context.Context, eventID string, limit int) ([]models.EventRegistration, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, event_id, name, email, phone, attendee_count, registered_at FROM event_registrations WHERE ? = '' OR event_id = ? ORDER BY registered_at DESC, rowid DESC LIMIT ?`,
		eventID, eventID, clampLimit(limit, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EventRegistration{}
	for rows.Next() {
		var (
			reg   models.EventRegistration
			phone sql.NullString
			at    int64
		)
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Name, &reg.Email, &phone, &reg.AttendeeCount, &at); err != nil {
			return nil, err
		}
		reg.Phone = fromNullString(phone)
		reg.RegisteredAt = fromMillis(at)
		out = append(out, reg)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountRegistrations(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM event_registrations`).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
