package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/content"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

type EventsHandler struct {
	repo      repository.RegistrationRepo
	catalog   *content.Catalog
	validator *schema.Validator
}

func NewEventsHandler(repo repository.RegistrationRepo, catalog *content.Catalog, v *schema.Validator) *EventsHandler {
	return &EventsHandler{repo: repo, catalog: catalog, validator: v}
}

type registrationResponse struct {
	Message        string `json:"message"`
	RegistrationID string `json:"registrationId"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.catalog.Events, http.StatusOK)
}

func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.EventRegistrationCreate
	if !decodeValid(w, r, h.validator, schema.RegistrationCreate, &req) {
		return
	}

	event, ok := h.catalog.Event(req.EventID)
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}

	reg := &models.EventRegistration{
		EventID:       req.EventID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		AttendeeCount: 1,
	}
	if req.AttendeeCount != nil {
		reg.AttendeeCount = *req.AttendeeCount
	}

	if err := h.repo.CreateRegistration(r.Context(), reg); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, http.StatusConflict, "You are already registered for this event")
			return
		}
		internalError(w, r, "create event registration", err)
		return
	}

	logger.Info("event registration created", "id", reg.ID, "event_id", reg.EventID)
	writeJSON(w, registrationResponse{
		Message:        fmt.Sprintf("Thank you for registering for %s! We'll send you more details soon.", event.Title),
		RegistrationID: reg.ID,
	}, http.StatusOK)
}

func (h *EventsHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.repo.ListRegistrations(r.Context(), mux.Vars(r)["event_id"], adminListLimit)
	if err != nil {
		internalError(w, r, "list event registrations", err)
		return
	}
	writeJSON(w, regs, http.StatusOK)
}
