package request

// PurchaseFundRequest is the body of a fund purchase.
// Fields are untyped so that a missing value, a value of the wrong type and an
// out-of-range value can be told apart. Numbers arrive as json.Number.
type PurchaseFundRequest struct {
	SchemeCode     any `json:"scheme_code"`
	Units          any `json:"units"`
	InvestedAmount any `json:"invested_amount"`
}
