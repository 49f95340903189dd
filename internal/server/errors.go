package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// apiError is the JSON error envelope returned by every failing endpoint.
type apiError struct {
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	body := apiError{
		Timestamp: time.Now().UTC(),
		Success:   false,
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("write error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write response", "error", err)
	}
}
