package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

func (r *SQLiteRepo) CreateSermon(ctx context.Context, s *models.Sermon) error {
	if s == nil {
		return fmt.Errorf("sermon is nil")
	}
	if s.ID == "" {
		s.ID = newID()
	}
	created := stamp(s.CreatedAt)
	s.CreatedAt = fromMillis(created)
	date := stamp(s.Date)
	s.Date = fromMillis(date)

	_, err := r.conn.Exec(ctx, `INSERT INTO sermons (id, title, speaker, scripture, description, video_url, audio_url, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.Speaker, s.Scripture, s.Description, s.VideoURL, s.AudioURL, date, created)
	if err != nil {
		return fmt.Errorf("insert sermon: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) ListSermons(ctx context.Context, limit int) ([]models.Sermon, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, title, speaker, scripture, description, video_url, audio_url, date, created_at FROM sermons ORDER BY created_at DESC, rowid DESC LIMIT ?`, clampLimit(limit, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Sermon{}
	for rows.Next() {
		var (
			s                  models.Sermon
			desc, video, audio sql.NullString
			date, created      int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Speaker, &s.Scripture, &desc, &video, &audio, &date, &created); err != nil {
			return nil, err
		}
		s.Description = fromNullString(desc)
		s.VideoURL = fromNullString(video)
		s.AudioURL = fromNullString(audio)
		s.Date = fromMillis(date)
		s.CreatedAt = fromMillis(created)
		out = append(out, s)
	}

	return out, rows.Err()
}
