package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
)

// Purchase is a purchase request that passed validation.
type Purchase struct {
	SchemeCode     int64
	Units          float64
	InvestedAmount float64
}

// ValidatePurchase checks a purchase request and stops at the first broken rule:
//  1. scheme_code, units and invested_amount are all present and non-empty
//  2. units and invested_amount are numbers and scheme_code is an integer
//  3. units and invested_amount are greater than zero
//
// Whether the scheme exists is left to the caller.
func ValidatePurchase(req request.PurchaseFundRequest) (Purchase, error) {
	if isBlank(req.SchemeCode) || isBlank(req.Units) || isBlank(req.InvestedAmount) {
		return Purchase{}, fmt.Errorf("%w: invalid purchase details, all fields are required", apperrors.ErrMissingRequiredField)
	}

	units, okUnits := toFloat(req.Units)
	amount, okAmount := toFloat(req.InvestedAmount)
	if !okUnits || !okAmount {
		return Purchase{}, fmt.Errorf("%w: units and invested_amount must be numbers", apperrors.ErrNotANumber)
	}

	code, ok := toSchemeCode(req.SchemeCode)
	if !ok {
		return Purchase{}, fmt.Errorf("%w: scheme_code %v", apperrors.ErrNotAnInteger, req.SchemeCode)
	}

	if units <= 0 || amount <= 0 {
		return Purchase{}, fmt.Errorf("%w: units and invested_amount must be greater than zero", apperrors.ErrOutOfRange)
	}

	return Purchase{SchemeCode: code, Units: units, InvestedAmount: amount}, nil
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	f, msg := numberValue(v)
	return f, msg == ""
}

func toSchemeCode(v any) (int64, bool) {
	code, msg := integerValue(v)
	return code, msg == ""
}
