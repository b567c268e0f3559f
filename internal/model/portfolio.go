package model

import "time"

// Portfolio is one purchase of a mutual fund by a user.
// Rows are never merged; buying the same scheme twice yields two rows.
type Portfolio struct {
	ID             string
	UserID         string
	MutualFundID   string
	Units          float64
	InvestedAmount float64
	PurchaseDate   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PortfolioEntry is a holding joined with the fund it was bought in.
// CurrentValue is derived from the fund's NAV at read time and never stored.
type PortfolioEntry struct {
	ID             string    `json:"id"`
	SchemeCode     int64     `json:"scheme_code"`
	SchemeName     string    `json:"scheme_name"`
	Units          float64   `json:"units"`
	InvestedAmount float64   `json:"invested_amount"`
	CurrentValue   float64   `json:"current_value"`
	Nav            float64   `json:"nav"`
	PurchaseDate   time.Time `json:"purchase_date"`
}
