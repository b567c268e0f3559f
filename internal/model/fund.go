package model

import "time"

// FundFamily groups mutual fund schemes under one asset management company.
// Families are only created by ingestion, looked up by exact name.
type FundFamily struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// MutualFund is a single scheme as last reported by the NAV provider.
// SchemeCode is unique; a scheme is written once and never overwritten by ingestion.
type MutualFund struct {
	ID               string
	SchemeCode       int64
	IsinGrowth       *string
	IsinReinvestment *string
	SchemeName       string
	Nav              float64
	NavDate          time.Time
	SchemeType       string
	SchemeCategory   string
	FundFamilyID     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FundFamilyPage is one page of the fund family listing.
type FundFamilyPage struct {
	Count    int
	Page     int
	PageSize int
	Results  []FundFamily
}

// HasNext reports whether another page follows this one.
func (p FundFamilyPage) HasNext() bool {
	if p.PageSize < 1 {
		return false
	}
	pages := p.Count / p.PageSize
	if p.Count%p.PageSize != 0 {
		pages++
	}
	return p.Page < pages
}

// HasPrevious reports whether a page precedes this one.
func (p FundFamilyPage) HasPrevious() bool {
	return p.Page > 1
}
