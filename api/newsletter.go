package api

import (
	"errors"
	"net/http"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

const adminListLimit = 1000

type NewsletterHandler struct {
	repo      repository.NewsletterRepo
	validator *schema.Validator
}

func NewNewsletterHandler(repo repository.NewsletterRepo, v *schema.Validator) *NewsletterHandler {
	return &NewsletterHandler{repo: repo, validator: v}
}

type newsletterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

var subscribeMessages = map[models.SubscribeOutcome]string{
	models.SubscribeCreated:       "Thank you for subscribing! You'll receive our weekly devotionals and ministry updates.",
	models.SubscribeReactivated:   "Welcome back! You've been resubscribed to our newsletter.",
	models.SubscribeAlreadyActive: "You're already subscribed to our newsletter!",
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.NewsletterSubscriptionCreate
	if !decodeValid(w, r, h.validator, schema.NewsletterEmail, &req) {
		return
	}

	sub, outcome, err := h.repo.Subscribe(r.Context(), req.Email)
	if err != nil {
		internalError(w, r, "subscribe newsletter", err)
		return
	}

	if outcome != models.SubscribeAlreadyActive {
		logger.Info("newsletter subscription active", "id", sub.ID, "reactivated", outcome == models.SubscribeReactivated)
	}
	writeJSON(w, newsletterResponse{Message: subscribeMessages[outcome], Email: req.Email}, http.StatusOK)
}

func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.NewsletterSubscriptionCreate
	if !decodeValid(w, r, h.validator, schema.NewsletterEmail, &req) {
		return
	}

	if err := h.repo.Unsubscribe(r.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Email not found in our subscription list")
			return
		}
		internalError(w, r, "unsubscribe newsletter", err)
		return
	}

	writeJSON(w, newsletterResponse{
		Message: "You've been successfully unsubscribed from our newsletter.",
		Email:   req.Email,
	}, http.StatusOK)
}

// ActiveSubscribers lists active subscriptions only.
func (h *NewsletterHandler) ActiveSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.ListSubscribers(r.Context(), models.SubscriptionActive, adminListLimit)
	if err != nil {
		internalError(w, r, "list active subscribers", err)
		return
	}
	writeJSON(w, subs, http.StatusOK)
}
