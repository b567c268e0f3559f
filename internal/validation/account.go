package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

const (
	minPasswordLen = 6
	maxUsernameLen = 150
)

// ValidateRegister checks a registration request.
// Field errors (missing values, short passwords) are reported together. After that
// the rules are applied in order and the first failure is returned alone under
// NonFieldErrors. The caller checks email uniqueness and then ValidatePasswordStrength.
func ValidateRegister(req request.RegisterRequest) error {
	errs := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		errs["email"] = msgRequired
	}
	if len(req.Username) > maxUsernameLen {
		errs["username"] = "Ensure this field has no more than 150 characters."
	}
	for field, value := range map[string]string{"password1": req.Password1, "password2": req.Password2} {
		switch {
		case value == "":
			errs[field] = msgRequired
		case len(value) < minPasswordLen:
			errs[field] = "Ensure this field has at least 6 characters."
		}
	}
	if len(errs) > 0 {
		return &Error{Fields: errs}
	}

	if req.Password1 != req.Password2 {
		return NewFieldError(NonFieldErrors, "Passwords do not match.")
	}
	if !IsValidEmail(req.Email) {
		return NewFieldError(NonFieldErrors, "Invalid email format.")
	}
	return nil
}

// ValidatePasswordStrength requires at least one letter and one digit.
func ValidatePasswordStrength(password string) error {
	if !hasLetterAndDigit(password) {
		return NewFieldError(NonFieldErrors, "Password must contain both letters and numbers.")
	}
	return nil
}

// IsValidEmail reports whether s is a bare address such as "a@b.com".
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func hasLetterAndDigit(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// ValidateUserID checks that id has the UUID form every user ID is created with.
func ValidateUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: user id %q is not a UUID", apperrors.ErrInvalidFormat, id)
	}
	return nil
}
