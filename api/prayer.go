package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

type PrayerHandler struct {
	repo      repository.PrayerRepo
	validator *schema.Validator
	jwtSecret string
}

func NewPrayerHandler(repo repository.PrayerRepo, v *schema.Validator, jwtSecret string) *PrayerHandler {
	return &PrayerHandler{repo: repo, validator: v, jwtSecret: jwtSecret}
}

type prayerResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func (h *PrayerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.PrayerRequestCreate
	if !decodeValid(w, r, h.validator, schema.PrayerCreate, &req) {
		return
	}

	p := &models.PrayerRequest{
		Name:      req.Name,
		Email:     req.Email,
		Request:   req.Request,
		IsPrivate: req.IsPrivate,
	}
	if err := h.repo.CreatePrayerRequest(r.Context(), p); err != nil {
		internalError(w, r, "create prayer request", err)
		return
	}

	logger.Info("prayer request created", "id", p.ID, "private", p.IsPrivate)
	writeJSON(w, prayerResponse{
		Message:   "Thank you for sharing your prayer request. Our prayer team will be covering you in prayer.",
		RequestID: p.ID,
	}, http.StatusOK)
}

// List returns public requests without submitter emails. include_private=true
// returns everything and needs an admin token.
func (h *PrayerHandler) List(w http.ResponseWriter, r *http.Request) {
	includePrivate := false
	if raw := r.URL.Query().Get("include_private"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_private must be a boolean")
			return
		}
		includePrivate = v
	}
	if includePrivate {
		if _, err := adminFromRequest(r, h.jwtSecret); err != nil {
			writeError(w, http.StatusUnauthorized, "Admin token required to include private requests")
			return
		}
	}

	ps, err := h.repo.ListPrayerRequests(r.Context(), includePrivate, publicListLimit)
	if err != nil {
		internalError(w, r, "list prayer requests", err)
		return
	}
	if !includePrivate {
		for i := range ps {
			ps[i].Email = nil
		}
	}

	writeJSON(w, ps, http.StatusOK)
}

func (h *PrayerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := models.PrayerStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.repo.UpdatePrayerStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Prayer request not found")
			return
		}
		internalError(w, r, "update prayer status", err)
		return
	}

	writeJSON(w, messageResponse{Message: "Prayer request status updated successfully"}, http.StatusOK)
}
