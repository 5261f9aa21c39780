package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mpetrov/taskhub/internal/domain"
)

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain and service errors to HTTP responses.
// Unrecognized errors become 500 and are logged; no error escapes as an
// unhandled fault.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: verrs,
		})
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email is already registered")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		log.Printf("ERROR [handlers] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
