// Package handlers provides HTTP handlers for the NoteForge API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/observability"
)

// ErrorBody is the envelope every failed request returns.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the message and the HTTP status code.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StatusFor maps a domain error type onto an HTTP status.
func StatusFor(err error) int {
	switch domain.TypeOf(err) {
	case domain.ErrorTypeValidation, domain.ErrorTypeIO:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Message: message, Code: status}})
}

// writeDomainError logs err and writes its envelope. Server-side failures are logged at error level.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *observability.Logger, err error) {
	status := StatusFor(err)

	message := err.Error()
	var de *domain.DomainError
	if errors.As(err, &de) {
		message = de.Detail()
	}

	log := logger.WithContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")
	} else {
		log.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}

	writeError(w, status, message)
}
