package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

type DonationsHandler struct {
	repo      repository.DonationRepo
	validator *schema.Validator
}

func NewDonationsHandler(repo repository.DonationRepo, v *schema.Validator) *DonationsHandler {
	return &DonationsHandler{repo: repo, validator: v}
}

type donationResponse struct {
	Message       string               `json:"message"`
	DonationID    string               `json:"donationId"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

// CreateIntent records a donation. There is no payment processor behind it:
// every accepted intent is completed immediately with a mock payment id.
func (h *DonationsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req models.DonationCreate
	if !decodeValid(w, r, h.validator, schema.DonationCreate, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Donation amount must be greater than 0")
		return
	}

	id := uuid.NewString()
	paymentID := "mock_payment_" + id
	d := &models.Donation{
		ID:            id,
		DonorName:     req.DonorName,
		Email:         req.Email,
		Amount:        req.Amount,
		Currency:      req.Currency,
		DonationType:  req.DonationType,
		Cause:         req.Cause,
		PaymentStatus: models.PaymentCompleted,
		PaymentID:     &paymentID,
	}
	if err := h.repo.CreateDonation(r.Context(), d); err != nil {
		internalError(w, r, "create donation", err)
		return
	}

	logger.Info("donation created", "id", d.ID, "amount", d.Amount, "currency", d.Currency)
	writeJSON(w, donationResponse{
		Message: fmt.Sprintf("Thank you for your generous $%.2f %s %s donation! Your gift will help us reach more souls for Christ.",
			d.Amount, d.Currency, d.DonationType),
		DonationID:    d.ID,
		PaymentStatus: models.PaymentCompleted,
	}, http.StatusOK)
}

// Complete is the payment processor callback.
func (h *DonationsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, paymentID := q.Get("donation_id"), q.Get("payment_id")
	if id == "" || paymentID == "" {
		writeError(w, http.StatusBadRequest, "donation_id and payment_id are required")
		return
	}

	if err := h.repo.CompleteDonation(r.Context(), id, paymentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Donation not found")
			return
		}
		internalError(w, r, "complete donation", err)
		return
	}

	writeJSON(w, messageResponse{Message: "Donation completed successfully"}, http.StatusOK)
}

func (h *DonationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ds, err := h.repo.ListDonations(r.Context(), adminListLimit)
	if err != nil {
		internalError(w, r, "list donations", err)
		return
	}
	writeJSON(w, ds, http.StatusOK)
}

func (h *DonationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.repo.CompletedTotals(ctx, "")
	if err != nil {
		internalError(w, r, "donation totals", err)
		return
	}
	monthly, err := h.repo.CompletedTotals(ctx, models.DonationMonthly)
	if err != nil {
		internalError(w, r, "monthly donation totals", err)
		return
	}
	byCause, err := h.repo.CompletedTotalsByCause(ctx)
	if err != nil {
		internalError(w, r, "donation totals by cause", err)
		return
	}
	if byCause == nil {
		byCause = []models.CauseTotals{}
	}

	writeJSON(w, models.DonationStats{
		TotalDonations:   total,
		MonthlyDonations: monthly,
		DonationsByCause: byCause,
	}, http.StatusOK)
}
