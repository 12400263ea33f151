package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vsinha/kitchen/pkg/domain/entities"
	"go.uber.org/zap"
)

// MaxBodyBytes caps the size of a decoded request body
const MaxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusRequestEntityTooLarge {
		message = "Request body too large"
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		message = "Internal server error"
	}
	writeJSON(w, status, errorBody{Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return &badRequest{msg: "Invalid request body", err: err}
	}
	return nil
}

// badRequest is a malformed request that never reached a service
type badRequest struct {
	msg string
	err error
}

func (e *badRequest) Error() string { return e.msg + ": " + e.err.Error() }

func (e *badRequest) Unwrap() []error { return []error{entities.ErrInvalidInput, e.err} }
