package rapidapi

import (
	"encoding/json"
	"fmt"
)

// Provider field names as they appear in the latest-NAV payload.
const (
	FieldSchemeType       = "Scheme_Type"
	FieldSchemeCode       = "Scheme_Code"
	FieldSchemeName       = "Scheme_Name"
	FieldNetAssetValue    = "Net_Asset_Value"
	FieldDate             = "Date"
	FieldSchemeCategory   = "Scheme_Category"
	FieldFundFamily       = "Mutual_Fund_Family"
	FieldIsinGrowth       = "ISIN_Div_Payout_ISIN_Growth"
	FieldIsinReinvestment = "ISIN_Div_Reinvestment"
)

// OpenEndedSchemes is the Scheme_Type value of records that get ingested.
const OpenEndedSchemes = "Open Ended Schemes"

// Record is one scheme as returned by the provider.
// Values are kept loosely typed so a malformed record can be rejected on its own
// instead of failing the decode of the whole payload. Numbers decode as json.Number.
type Record map[string]any

// SchemeType returns the Scheme_Type value, or "" when absent or not a string.
func (r Record) SchemeType() string {
	s, _ := r[FieldSchemeType].(string)
	return s
}

// SchemeName returns the Scheme_Name value in printable form.
func (r Record) SchemeName() string {
	switch v := r[FieldSchemeName].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// IsOpenEnded reports whether the record belongs to an open-ended scheme.
func (r Record) IsOpenEnded() bool {
	return r.SchemeType() == OpenEndedSchemes
}
