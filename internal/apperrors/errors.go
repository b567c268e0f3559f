package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrMutualFundNotFound indicates that no mutual fund carries the requested scheme code.
	ErrMutualFundNotFound = errors.New("mutual fund not found")

	// ErrFundFamilyNotFound indicates that a fund family with the given name or ID does not exist.
	ErrFundFamilyNotFound = errors.New("fund family not found")

	// ErrUserNotFound indicates that no user matches the given email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrPageNotFound indicates a listing page that is empty or out of range.
	ErrPageNotFound = errors.New("page not found")
)

// Input errors represent values that were rejected before any data was written.
var (
	// ErrInvalidFormat indicates a string that does not match its expected layout,
	// such as a NAV date that is not DD-Mon-YYYY.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrValidation indicates a record that failed field or uniqueness validation.
	ErrValidation = errors.New("validation failed")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrNotANumber indicates a field that must be numeric but could not be parsed.
	ErrNotANumber = errors.New("value must be a number")

	// ErrNotAnInteger indicates an identifier such as a scheme code that is not a whole number.
	ErrNotAnInteger = errors.New("value must be an integer")

	// ErrOutOfRange indicates a numeric field outside its allowed range,
	// such as non-positive units or invested amount.
	ErrOutOfRange = errors.New("value out of range")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrTokenBlacklisted   = errors.New("token is blacklisted")
	ErrMissingToken       = errors.New("token not provided")
)

// External service errors.
var (
	// ErrExternalService indicates the fund data provider was unreachable or
	// answered with a non-success status. It aborts a whole ingestion run.
	ErrExternalService = errors.New("external service error")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveFundFamilies = errors.New("failed to retrieve fund families")
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToCreatePortfolio      = errors.New("failed to create portfolio")
	ErrFailedToIngestFunds          = errors.New("failed to fetch and save funds")
	ErrFailedToRegisterUser         = errors.New("failed to register user")
	ErrFailedToIssueToken           = errors.New("failed to issue token")
	ErrFailedToLogout               = errors.New("failed to log out")
)
