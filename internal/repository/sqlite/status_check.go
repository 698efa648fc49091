package sqlite

import (
	"context"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

func (r *SQLiteRepo) CreateStatusCheck(ctx context.Context, s *models.StatusCheck) error {
	if s == nil {
		return fmt.Errorf("status check is nil")
	}
	if s.ID == "" {
		s.ID = newID()
	}
	ts := stamp(s.Timestamp)
	s.Timestamp = fromMillis(ts)

	if _, err := r.conn.Exec(ctx, `INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)`, s.ID, s.ClientName, ts); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, client_name, timestamp FROM status_checks ORDER BY timestamp DESC, rowid DESC LIMIT ?`, clampLimit(limit, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StatusCheck{}
	for rows.Next() {
		var (
			s  models.StatusCheck
			ts int64
		)
		if err := rows.Scan(&s.ID, &s.ClientName, &ts); err != nil {
			return nil, err
		}
		s.Timestamp = fromMillis(ts)
		out = append(out, s)
	}

	return out, rows.Err()
}
