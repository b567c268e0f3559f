package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
)

// Field limits of the mutual_fund and fund_family tables.
const (
	maxSchemeNameLen     = 255
	maxFamilyNameLen     = 255
	maxSchemeTypeLen     = 100
	maxSchemeCategoryLen = 100
	maxIsinLen           = 50
)

const (
	msgRequired   = "This field is required."
	msgNotString  = "Not a valid string."
	msgNotInteger = "A valid integer is required."
	msgNotNumber  = "A valid number is required."
	msgBadNavDate = "Date has wrong format. Use DD-Mon-YYYY."
)

// SchemeCodeExistsMessage is reported under scheme_code when a record repeats a stored scheme.
const SchemeCodeExistsMessage = "mutual fund with this scheme code already exists."

// Scheme is a provider record normalised for storage.
type Scheme struct {
	Fund       model.MutualFund
	FamilyName string
}

// ValidateSchemeRecord checks one provider record and normalises it.
//
// All fields are checked, so the returned *Error lists every problem with the
// record rather than the first one. Uniqueness of the scheme code is not checked
// here since it needs the database.
func ValidateSchemeRecord(rec rapidapi.Record) (Scheme, error) {
	errs := make(map[string]string)
	var s Scheme

	if code, msg := integerValue(rec[rapidapi.FieldSchemeCode]); msg != "" {
		errs["scheme_code"] = msg
	} else {
		s.Fund.SchemeCode = code
	}

	s.Fund.SchemeName = requiredString(rec, rapidapi.FieldSchemeName, "scheme_name", maxSchemeNameLen, errs)
	s.Fund.SchemeType = requiredString(rec, rapidapi.FieldSchemeType, "scheme_type", maxSchemeTypeLen, errs)
	s.Fund.SchemeCategory = requiredString(rec, rapidapi.FieldSchemeCategory, "scheme_category", maxSchemeCategoryLen, errs)
	s.FamilyName = requiredString(rec, rapidapi.FieldFundFamily, "fund_family_name", maxFamilyNameLen, errs)
	s.Fund.IsinGrowth = optionalString(rec, rapidapi.FieldIsinGrowth, "isin_growth", maxIsinLen, errs)
	s.Fund.IsinReinvestment = optionalString(rec, rapidapi.FieldIsinReinvestment, "isin_reinvestment", maxIsinLen, errs)

	if nav, msg := numberValue(rec[rapidapi.FieldNetAssetValue]); msg != "" {
		errs["nav"] = msg
	} else {
		s.Fund.Nav = nav
	}

	switch raw := rec[rapidapi.FieldDate].(type) {
	case nil:
		errs["nav_date"] = msgRequired
	case string:
		if strings.TrimSpace(raw) == "" {
			errs["nav_date"] = msgRequired
			break
		}
		d, err := ParseNavDate(raw)
		if err != nil {
			errs["nav_date"] = msgBadNavDate
			break
		}
		s.Fund.NavDate = d
	default:
		errs["nav_date"] = msgBadNavDate
	}

	if len(errs) > 0 {
		return Scheme{}, &Error{Fields: errs}
	}
	return s, nil
}

func requiredString(rec rapidapi.Record, key, field string, maxLen int, errs map[string]string) string {
	raw, ok := rec[key]
	if !ok || raw == nil {
		errs[field] = msgRequired
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		errs[field] = msgNotString
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		errs[field] = msgRequired
		return ""
	}
	if len(s) > maxLen {
		errs[field] = fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen)
		return ""
	}
	return s
}

func optionalString(rec rapidapi.Record, key, field string, maxLen int, errs map[string]string) *string {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		errs[field] = msgNotString
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > maxLen {
		errs[field] = fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen)
		return nil
	}
	return &s
}

func integerValue(raw any) (int64, string) {
	switch v := raw.(type) {
	case nil:
		return 0, msgRequired
	case json.Number:
		return parseInteger(v.String())
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, msgRequired
		}
		return parseInteger(v)
	case int:
		return int64(v), ""
	case int64:
		return v, ""
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, msgNotInteger
		}
		return int64(v), ""
	default:
		return 0, msgNotInteger
	}
}

// parseInteger accepts "101" and also "101.0", as the provider is not consistent.
func parseInteger(s string) (int64, string) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, msgNotInteger
	}
	return int64(f), ""
}

func numberValue(raw any) (float64, string) {
	var s string
	switch v := raw.(type) {
	case nil:
		return 0, msgRequired
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
		if s == "" {
			return 0, msgRequired
		}
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return float64(v), ""
	default:
		return 0, msgNotNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, msgNotNumber
	}
	return f, ""
}
