package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
)

const testTimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FundFamilyBuilder provides a fluent interface for creating test fund families.
//
// Example usage:
//
//	family := testutil.NewFundFamily().WithName("Alpha AMC").Build(t, db)
type FundFamilyBuilder struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NewFundFamily creates a FundFamilyBuilder with a unique name.
func NewFundFamily() *FundFamilyBuilder {
	return &FundFamilyBuilder{
		ID:        MakeID(),
		Name:      MakeFamilyName("Test AMC"),
		CreatedAt: time.Now().UTC(),
	}
}

// WithName sets a custom name.
func (b *FundFamilyBuilder) WithName(name string) *FundFamilyBuilder {
	b.Name = name
	return b
}

// WithCreatedAt sets the creation time, which drives listing order.
func (b *FundFamilyBuilder) WithCreatedAt(ts time.Time) *FundFamilyBuilder {
	b.CreatedAt = ts
	return b
}

// Build creates the fund family in the database and returns it.
func (b *FundFamilyBuilder) Build(t *testing.T, db *sql.DB) model.FundFamily {
	t.Helper()

	ts := b.CreatedAt.UTC().Format(testTimestampLayout)
	_, err := db.Exec(`
		INSERT INTO fund_family (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, b.ID, b.Name, ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test fund family: %v", err)
	}

	return model.FundFamily{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt, UpdatedAt: b.CreatedAt}
}

// MutualFundBuilder provides a fluent interface for creating test mutual funds.
//
// Example usage:
//
//	fund := testutil.NewMutualFund(family.ID).WithSchemeCode(101).WithNav(15.5).Build(t, db)
type MutualFundBuilder struct {
	ID             string
	FundFamilyID   string
	SchemeCode     int64
	SchemeName     string
	Nav            float64
	NavDate        time.Time
	SchemeType     string
	SchemeCategory string
}

// NewMutualFund creates a MutualFundBuilder with sensible defaults.
func NewMutualFund(fundFamilyID string) *MutualFundBuilder {
	return &MutualFundBuilder{
		ID:             MakeID(),
		FundFamilyID:   fundFamilyID,
		SchemeCode:     MakeSchemeCode(),
		SchemeName:     MakeSchemeName("Test Fund"),
		Nav:            10,
		NavDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		SchemeType:     "Open Ended Schemes",
		SchemeCategory: "Equity Scheme - Large Cap Fund",
	}
}

// WithSchemeCode sets a custom scheme code.
func (b *MutualFundBuilder) WithSchemeCode(code int64) *MutualFundBuilder {
	b.SchemeCode = code
	return b
}

// WithSchemeName sets a custom scheme name.
func (b *MutualFundBuilder) WithSchemeName(name string) *MutualFundBuilder {
	b.SchemeName = name
	return b
}

// WithNav sets the current NAV.
func (b *MutualFundBuilder) WithNav(nav float64) *MutualFundBuilder {
	b.Nav = nav
	return b
}

// Build creates the mutual fund in the database and returns it.
func (b *MutualFundBuilder) Build(t *testing.T, db *sql.DB) model.MutualFund {
	t.Helper()

	now := time.Now().UTC()
	ts := now.Format(testTimestampLayout)
	_, err := db.Exec(`
		INSERT INTO mutual_fund (
			id, scheme_code, scheme_name, nav, nav_date, scheme_type, scheme_category,
			fund_family_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.SchemeCode, b.SchemeName, b.Nav, b.NavDate.Format("2006-01-02"),
		b.SchemeType, b.SchemeCategory, b.FundFamilyID, ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test mutual fund: %v", err)
	}

	return model.MutualFund{
		ID:             b.ID,
		SchemeCode:     b.SchemeCode,
		SchemeName:     b.SchemeName,
		Nav:            b.Nav,
		NavDate:        b.NavDate,
		SchemeType:     b.SchemeType,
		SchemeCategory: b.SchemeCategory,
		FundFamilyID:   b.FundFamilyID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CreateMutualFund creates a fund, and a family for it, with the given code and NAV.
func CreateMutualFund(t *testing.T, db *sql.DB, schemeCode int64, nav float64) model.MutualFund {
	t.Helper()
	family := NewFundFamily().Build(t, db)
	return NewMutualFund(family.ID).WithSchemeCode(schemeCode).WithNav(nav).Build(t, db)
}

// SetNav overwrites the stored NAV of a scheme, as a later provider update would.
func SetNav(t *testing.T, db *sql.DB, schemeCode int64, nav float64) {
	t.Helper()

	if _, err := db.Exec(`UPDATE mutual_fund SET nav = ? WHERE scheme_code = ?`, nav, schemeCode); err != nil {
		t.Fatalf("Failed to update NAV: %v", err)
	}
}

// UserBuilder provides a fluent interface for creating test users.
type UserBuilder struct {
	ID       string
	Email    string
	Username string
	Password string
	IsActive bool
}

// TestPassword is the plaintext password of users built by NewUser.
const TestPassword = "secret123"

// NewUser creates a UserBuilder with a unique email and TestPassword.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:       MakeID(),
		Email:    MakeEmail("investor"),
		Username: "investor",
		Password: TestPassword,
		IsActive: true,
	}
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// Inactive disables the account.
func (b *UserBuilder) Inactive() *UserBuilder {
	b.IsActive = false
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := auth.HashPassword(b.Password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	ts := now.Format(testTimestampLayout)
	_, err = db.Exec(`
		INSERT INTO "user" (id, email, username, password_hash, is_active, is_staff, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Email, b.Username, hash, b.IsActive, false, ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Email:        b.Email,
		Username:     b.Username,
		PasswordHash: hash,
		IsActive:     b.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateUser creates an active user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// CreatePortfolio records a purchase directly, bypassing validation.
func CreatePortfolio(t *testing.T, db *sql.DB, userID, mutualFundID string, units, investedAmount float64) model.Portfolio {
	t.Helper()

	now := time.Now().UTC()
	ts := now.Format(testTimestampLayout)
	id := MakeID()
	_, err := db.Exec(`
		INSERT INTO portfolio (id, user_id, mutual_fund_id, units, invested_amount, purchase_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, userID, mutualFundID, units, investedAmount, ts, ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:             id,
		UserID:         userID,
		MutualFundID:   mutualFundID,
		Units:          units,
		InvestedAmount: investedAmount,
		PurchaseDate:   now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
