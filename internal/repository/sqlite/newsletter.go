package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

// Subscribe upserts the subscription for email. A new row reports
// SubscribeCreated, an unsubscribed row is reactivated in place and an active
// row is left untouched. The single statement keeps concurrent subscribes for
// the same address from racing.
func (r *SQLiteRepo) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, models.SubscribeOutcome, error) {
	id := newID()
	ts := now()

	var (
		s       models.NewsletterSubscription
		status  string
		subAt   int64
		unsubAt sql.NullInt64
	)
	row := r.conn.QueryRow(ctx, `INSERT INTO newsletter_subscriptions (id, email, status, subscribed_at) VALUES (?, ?, 'active', ?)
		ON CONFLICT(email) DO UPDATE SET status = 'active', subscribed_at = excluded.subscribed_at, unsubscribed_at = NULL
		WHERE newsletter_subscriptions.status = 'unsubscribed'
		RETURNING id, email, status, subscribed_at, unsubscribed_at`, id, email, ts)
	err := row.Scan(&s.ID, &s.Email, &status, &subAt, &unsubAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing, gerr := r.subscriptionByEmail(ctx, email)
		if gerr != nil {
			return nil, 0, gerr
		}
		return existing, models.SubscribeAlreadyActive, nil
	case err != nil:
		return nil, 0, fmt.Errorf("subscribe: %w", err)
	}

	s.Status = models.SubscriptionStatus(status)
	s.SubscribedAt = fromMillis(subAt)
	s.UnsubscribedAt = fromNullMillis(unsubAt)

	if s.ID == id {
		return &s, models.SubscribeCreated, nil
	}
	r.logger.Debug("newsletter: subscription reactivated", "id", s.ID)
	return &s, models.SubscribeReactivated, nil
}

func (r *SQLiteRepo) subscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	var (
		s       models.NewsletterSubscription
		status  string
		subAt   int64
		unsubAt sql.NullInt64
	)
	row := r.conn.QueryRow(ctx, `SELECT id, email, status, subscribed_at, unsubscribed_at FROM newsletter_subscriptions WHERE email = ?`, email)
	if err := row.Scan(&s.ID, &s.Email, &status, &subAt, &unsubAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	s.Status = models.SubscriptionStatus(status)
	s.SubscribedAt = fromMillis(subAt)
	s.UnsubscribedAt = fromNullMillis(unsubAt)
	return &s, nil
}

// Unsubscribe marks the subscription unsubscribed. Unsubscribing an already
// unsubscribed address succeeds; an unknown address is repository.ErrNotFound.
func (r *SQLiteRepo) Unsubscribe(ctx context.Context, email string) error {
	res, err := r.conn.Exec(ctx, `UPDATE newsletter_subscriptions SET status = 'unsubscribed', unsubscribed_at = ? WHERE email = ?`, now(), email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepo) ListSubscribers(ctx context.Context, status models.SubscriptionStatus, limit int) ([]models.NewsletterSubscription, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, email, status, subscribed_at, unsubscribed_at FROM newsletter_subscriptions WHERE ? = '' OR status = ? ORDER BY subscribed_at DESC, rowid DESC LIMIT ?`,
		string(status), string(status), clampLimit(limit, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.NewsletterSubscription{}
	for rows.Next() {
		var (
			s       models.NewsletterSubscription
			st      string
			subAt   int64
			unsubAt sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Email, &st, &subAt, &unsubAt); err != nil {
			return nil, err
		}
		s.Status = models.SubscriptionStatus(st)
		s.SubscribedAt = fromMillis(subAt)
		s.UnsubscribedAt = fromNullMillis(unsubAt)
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountSubscribers(ctx context.Context, status models.SubscriptionStatus) (int64, error) {
	var cnt int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM newsletter_subscriptions WHERE ? = '' OR status = ?`, string(status), string(status))
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
