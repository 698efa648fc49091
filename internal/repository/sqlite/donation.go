package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
)

// CreateDonation stores a pending donation intent.
func (r *SQLiteRepo) CreateDonation(ctx context.Context, d *models.Donation) error {
	if d == nil {
		return fmt.Errorf("donation is nil")
	}
	if d.ID == "" {
		d.ID = newID()
	}
	if d.Currency == "" {
		d.Currency = "CAD"
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = models.PaymentPending
	}
	if !d.PaymentStatus.Valid() {
		return fmt.Errorf("invalid payment status %q", d.PaymentStatus)
	}
	created := stamp(d.CreatedAt)
	d.CreatedAt = fromMillis(created)

	_, err := r.conn.Exec(ctx, `INSERT INTO donations (id, donor_name, email, amount, currency, donation_type, cause, payment_status, payment_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DonorName, d.Email, d.Amount, d.Currency, string(d.DonationType), string(d.Cause), string(d.PaymentStatus), d.PaymentID, created)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}

	return nil
}

// CompleteDonation marks a donation completed with the processor payment id.
func (r *SQLiteRepo) CompleteDonation(ctx context.Context, id, paymentID string) error {
	res, err := r.conn.Exec(ctx, `UPDATE donations SET payment_status = 'completed', payment_id = ?, updated_at = ? WHERE id = ?`, paymentID, now(), id)
	if err != nil {
		return fmt.Errorf("complete donation: %w", err)
	}
	return affected(res)
}

func (r *SQLiteRepo) ListDonations(ctx context.Context, limit int) ([]models.Donation, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, donor_name, email, amount, currency, donation_type, cause, payment_status, payment_id, created_at, updated_at FROM donations ORDER BY created_at DESC, rowid DESC LIMIT ?`, clampLimit(limit, 1000))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Donation{}
	for rows.Next() {
		var (
			d                     models.Donation
			dtype, cause, pstatus string
			paymentID             sql.NullString
			created               int64
			updated               sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Email, &d.Amount, &d.Currency, &dtype, &cause, &pstatus, &paymentID, &created, &updated); err != nil {
			return nil, err
		}
		d.DonationType = models.DonationType(dtype)
		d.Cause = models.Cause(cause)
		d.PaymentStatus = models.PaymentStatus(pstatus)
		d.PaymentID = fromNullString(paymentID)
		d.CreatedAt = fromMillis(created)
		d.UpdatedAt = fromNullMillis(updated)
		out = append(out, d)
	}

	return out, rows.Err()
}

// CompletedTotals sums completed donations. Pending and failed ones never count.
func (r *SQLiteRepo) CompletedTotals(ctx context.Context, donationType models.DonationType) (models.Totals, error) {
	var t models.Totals
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM donations WHERE payment_status = 'completed' AND (? = '' OR donation_type = ?)`,
		string(donationType), string(donationType))
	if err := row.Scan(&t.Total, &t.Count); err != nil {
		return models.Totals{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) CompletedTotalsByCause(ctx context.Context) ([]models.CauseTotals, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT cause, SUM(amount), COUNT(*) FROM donations WHERE payment_status = 'completed' GROUP BY cause ORDER BY cause`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CauseTotals{}
	for rows.Next() {
		var (
			ct    models.CauseTotals
			cause string
		)
		if err := rows.Scan(&cause, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		ct.Cause = models.Cause(cause)
		out = append(out, ct)
	}

	return out, rows.Err()
}
