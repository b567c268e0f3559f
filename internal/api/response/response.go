// Package response provides utilities for sending consistent HTTP responses.
// Every body carries a success flag so clients can branch without reading the status.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Success bool   `json:"success"`
}

// DataResponse wraps a payload as {data, success:true}.
type DataResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

// MessageResponse is a plain {message, success} body.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent.
// Encoding errors are logged through the request logger but do not fail the response.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.FromContext(r.Context(), logrus.StandardLogger()).
				WithError(err).Error("failed to encode JSON response")
		}
	}
}

// RespondData sends {data, success:true}.
func RespondData(w http.ResponseWriter, r *http.Request, status int, data any) {
	RespondJSON(w, r, status, DataResponse{Data: data, Success: true})
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
//
// Example:
//
//	response.RespondError(w, r, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, r, http.StatusNotFound, "No fund families found.", nil)
func RespondError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	RespondJSON(w, r, status, ErrorResponse{
		Error:   message,
		Details: details,
		Success: false,
	})
}
