package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
// Rows are only ever inserted and read; a purchase is never edited.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertPortfolio stores a purchase. ID, purchase date and timestamps are set here.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.PurchaseDate = now
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO portfolio (id, user_id, mutual_fund_id, units, invested_amount, purchase_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.UserID,
		p.MutualFundID,
		p.Units,
		p.InvestedAmount,
		formatTimestamp(p.PurchaseDate),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// GetPortfolioEntries returns all holdings of a user joined with the fund's current NAV,
// oldest purchase first. CurrentValue is left for the caller to compute.
func (r *PortfolioRepository) GetPortfolioEntries(ctx context.Context, userID string) ([]model.PortfolioEntry, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT p.id, mf.scheme_code, mf.scheme_name, p.units, p.invested_amount, mf.nav, p.purchase_date
		FROM portfolio p
		INNER JOIN mutual_fund mf ON mf.id = p.mutual_fund_id
		WHERE p.user_id = ?
		ORDER BY p.purchase_date ASC, p.rowid ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	entries := []model.PortfolioEntry{}
	for rows.Next() {
		var (
			e            model.PortfolioEntry
			purchaseDate string
		)
		if err := rows.Scan(
			&e.ID,
			&e.SchemeCode,
			&e.SchemeName,
			&e.Units,
			&e.InvestedAmount,
			&e.Nav,
			&purchaseDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		if e.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return entries, nil
}
