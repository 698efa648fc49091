package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
)

// maxBodyBytes caps JSON request bodies; uploads have their own limits.
const maxBodyBytes = 1 << 20

const internalErrorDetail = "Internal server error"

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, errorResponse{Detail: detail}, status)
}

// internalError logs err with the failing operation and answers with an
// opaque 500.
func internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.Error(op,
		slog.Any("err", err),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeError(w, http.StatusInternalServerError, internalErrorDetail)
}

// decodeValid reads a JSON body, checks it against the named schema and
// decodes it into dst. On failure it has already written a 400 and returns false.
func decodeValid(w http.ResponseWriter, r *http.Request, v *schema.Validator, name string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := v.Validate(r.Context(), name, body); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return false
		}
		internalError(w, r, "validate request", err)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
