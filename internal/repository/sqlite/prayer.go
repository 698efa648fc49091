package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

func (r *SQLiteRepo) CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) error {
	if p == nil {
		return fmt.Errorf("prayer request is nil")
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Status == "" {
		p.Status = models.PrayerPending
	}
	created := stamp(p.CreatedAt)
	p.CreatedAt = fromMillis(created)

	_, err := r.conn.Exec(ctx, `INSERT INTO prayer_requests (id, name, email, request, is_private, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Request, p.IsPrivate, string(p.Status), created)
	if err != nil {
		return fmt.Errorf("insert prayer request: %w", err)
	}

	return nil
}

// ListPrayerRequests returns newest first. Private requests are included only
// when includePrivate is set; callers decide whether to strip emails.
func (r *SQLiteRepo) ListPrayerRequests(ctx context.Context, includePrivate bool, limit int) ([]models.PrayerRequest, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, email, request, is_private, status, created_at, updated_at FROM prayer_requests WHERE ? OR is_private = 0 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		includePrivate, clampLimit(limit, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PrayerRequest{}
	for rows.Next() {
		var (
			p       models.PrayerRequest
			email   sql.NullString
			status  string
			created int64
			updated sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &email, &p.Request, &p.IsPrivate, &status, &created, &updated); err != nil {
			return nil, err
		}
		p.Email = fromNullString(email)
		p.Status = models.PrayerStatus(status)
		p.CreatedAt = fromMillis(created)
		p.UpdatedAt = fromNullMillis(updated)
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdatePrayerStatus(ctx context.Context, id string, status models.PrayerStatus) error {
	res, err := r.conn.Exec(ctx, `UPDATE prayer_requests SET status = ?, updated_at = ? WHERE id = ?`, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("update prayer status: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepo) CountPrayerRequests(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM prayer_requests`).Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
