package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/models"
	"github.com/xceptionalbae23/word-of-hope-ministries/pkg/repository"
)

type SystemHandler struct {
	statusRepo repository.StatusCheckRepo
	validator  *schema.Validator
}

func NewSystemHandler(repo repository.StatusCheckRepo, v *schema.Validator) *SystemHandler {
	return &SystemHandler{statusRepo: repo, validator: v}
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok","service":"wohi-ministries"}`)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"version": version, "buildTime": buildTime}, http.StatusOK)
	}
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, messageResponse{Message: "WOHI Ministries API - Serving God's Kingdom Worldwide"}, http.StatusOK)
}

type apiHealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *SystemHandler) APIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, apiHealthResponse{
		Status:    "healthy",
		Message:   "WOHI Ministries API is running",
		Timestamp: time.Now().UTC(),
	}, http.StatusOK)
}

type statusCheckRequest struct {
	ClientName string `json:"client_name"`
}

func (h *SystemHandler) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	var req statusCheckRequest
	if !decodeValid(w, r, h.validator, schema.StatusCheckCreate, &req) {
		return
	}

	s := &models.StatusCheck{ClientName: req.ClientName}
	if err := h.statusRepo.CreateStatusCheck(r.Context(), s); err != nil {
		internalError(w, r, "create status check", err)
		return
	}
	writeJSON(w, s, http.StatusOK)
}

func (h *SystemHandler) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	out, err := h.statusRepo.ListStatusChecks(r.Context(), adminListLimit)
	if err != nil {
		internalError(w, r, "list status checks", err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}
