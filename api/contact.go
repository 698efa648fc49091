package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

const publicListLimit = 100

type ContactHandler struct {
	repo      repository.ContactRepo
	validator *schema.Validator
}

func NewContactHandler(repo repository.ContactRepo, v *schema.Validator) *ContactHandler {
	return &ContactHandler{repo: repo, validator: v}
}

type contactResponse struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactSubmissionCreate
	if !decodeValid(w, r, h.validator, schema.ContactCreate, &req) {
		return
	}

	c := &models.ContactSubmission{
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		RequestType: req.RequestType,
	}
	if err := h.repo.CreateContact(r.Context(), c); err != nil {
		internalError(w, r, "create contact submission", err)
		return
	}

	logger.Info("contact submission created", "id", c.ID, "request_type", c.RequestType)
	writeJSON(w, contactResponse{
		Message:      "Thank you for your message! We will get back to you within 24 hours.",
		SubmissionID: c.ID,
	}, http.StatusOK)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.repo.ListContacts(r.Context(), publicListLimit)
	if err != nil {
		internalError(w, r, "list contact submissions", err)
		return
	}
	writeJSON(w, subs, http.StatusOK)
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := models.ContactStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.repo.UpdateContactStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		internalError(w, r, "update contact status", err)
		return
	}

	writeJSON(w, messageResponse{Message: "Status updated successfully"}, http.StatusOK)
}
