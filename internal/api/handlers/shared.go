package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/validation"
)

// parseJSON decodes the request body into T. Numbers are kept as json.Number
// so that loosely typed fields can tell "10" from 10 from "ten".
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is empty")
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrMissingRequiredField),
		errors.Is(err, apperrors.ErrNotANumber),
		errors.Is(err, apperrors.ErrNotAnInteger),
		errors.Is(err, apperrors.ErrOutOfRange),
		errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenBlacklisted),
		errors.Is(err, apperrors.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrMutualFundNotFound),
		errors.Is(err, apperrors.ErrFundFamilyNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err on the request logger and writes it as {error, details, success:false}.
// Field errors are sent as details; server errors hide the cause behind fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	log := logging.FromContext(r.Context(), logrus.StandardLogger()).WithError(err)

	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		log.Error(fallback)
		response.RespondError(w, r, status, fallback, nil)
		return
	}
	log.Warn("request rejected")

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		msg := vErr.Fields[validation.NonFieldErrors]
		if msg == "" {
			msg = "validation failed"
		}
		response.RespondError(w, r, status, msg, vErr.Fields)
		return
	}
	response.RespondError(w, r, status, errorMessage(err), nil)
}

// errorMessage is the client-facing text for known error kinds.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMissingRequiredField):
		return "Invalid purchase details. All fields are required."
	case errors.Is(err, apperrors.ErrNotAnInteger):
		return "Scheme code must be an integer."
	case errors.Is(err, apperrors.ErrNotANumber):
		return "Units and Invested Amount must be numbers."
	case errors.Is(err, apperrors.ErrOutOfRange):
		return "Units and Invested Amount must be greater than zero."
	case errors.Is(err, apperrors.ErrMutualFundNotFound):
		return "Mutual Fund not found."
	case errors.Is(err, apperrors.ErrPageNotFound):
		return "No fund families found."
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "No active account found with the given credentials."
	case errors.Is(err, apperrors.ErrTokenBlacklisted):
		return "Token is blacklisted. Please log in again."
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "Token is invalid or expired."
	default:
		return err.Error()
	}
}
