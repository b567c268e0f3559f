package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

// Error carries field-level messages for a rejected input.
// It matches apperrors.ErrValidation with errors.Is.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// NewFieldError builds an Error for a single field.
func NewFieldError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

// NonFieldErrors is the key used for messages that concern the input as a whole.
const NonFieldErrors = "non_field_errors"
