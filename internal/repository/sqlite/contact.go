package sqlite

import (
	"context"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

// CreateContact stores a submission, filling id, status and timestamps.
func (r *SQLiteRepo) CreateContact(ctx context.Context, c *models.ContactSubmission) error {
	if c == nil {
		return fmt.Errorf("contact submission is nil")
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.RequestType == "" {
		c.RequestType = models.RequestGeneral
	}
	if c.Status == "" {
		c.Status = models.ContactNew
	}
	created := stamp(c.CreatedAt)
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = c.CreatedAt

	_, err := r.conn.Exec(ctx, `INSERT INTO contact_submissions (id, name, email, subject, message, request_type, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Subject, c.Message, string(c.RequestType), string(c.Status), created, created)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}

	return nil
}

func (r *SQLiteRepo) ListContacts(ctx context.Context, limit int) ([]models.ContactSubmission, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, email, subject, message, request_type, status, created_at, updated_at FROM contact_submissions ORDER BY created_at DESC, rowid DESC LIMIT ?`, clampLimit(limit, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ContactSubmission{}
	for rows.Next() {
		var (
			c                  models.ContactSubmission
			reqType, status    string
			created, updatedAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &reqType, &status, &created, &updatedAt); err != nil {
			return nil, err
		}
		c.RequestType = models.RequestType(reqType)
		c.Status = models.ContactStatus(status)
		c.CreatedAt = fromMillis(created)
		c.UpdatedAt = fromMillis(updatedAt)
		out = append(out, c)
	}

	return out, rows.Err()
}

// UpdateContactStatus returns repository.ErrNotFound when no submission has id.
func (r *SQLiteRepo) UpdateContactStatus(ctx context.Context, id string, status models.ContactStatus) error {
	res, err := r.conn.Exec(ctx, `UPDATE contact_submissions SET status = ?, updated_at = ? WHERE id = ?`, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepo) CountContacts(ctx context.Context, status models.ContactStatus) (int64, error) {
	var cnt int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions WHERE ? = '' OR status = ?`, string(status), string(status))
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
