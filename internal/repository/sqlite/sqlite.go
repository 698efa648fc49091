package sqlite

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ContactRepo = (*SQLiteRepo)(nil)
var _ repository.NewsletterRepo = (*SQLiteRepo)(nil)
var _ repository.RegistrationRepo = (*SQLiteRepo)(nil)
var _ repository.DonationRepo = (*SQLiteRepo)(nil)
var _ repository.PrayerRepo = (*SQLiteRepo)(nil)
var _ repository.SermonRepo = (*SQLiteRepo)(nil)
var _ repository.StatusCheckRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func newID() string {
	return uuid.NewString()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromNullMillis(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// stamp returns t in millis, or the current time when t is zero.
func stamp(t time.Time) int64 {
	if t.IsZero() {
		return now()
	}
	return t.UTC().UnixMilli()
}

// affected maps a zero-row update to repository.ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
