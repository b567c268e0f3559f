package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
)

// FundRepository provides data access methods for the fund_family and mutual_fund tables.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetOrCreateFundFamily returns the family with exactly this name, creating it first if needed.
//
// The insert uses ON CONFLICT DO NOTHING, so two writers racing on a new name
// both end up reading the same row instead of one of them failing.
func (r *FundRepository) GetOrCreateFundFamily(ctx context.Context, name string) (model.FundFamily, error) {
	now := formatTimestamp(time.Now())
	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO fund_family (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, uuid.New().String(), name, now, now)
	if err != nil {
		return model.FundFamily{}, fmt.Errorf("failed to insert fund family: %w", err)
	}

	return r.GetFundFamilyByName(ctx, name)
}

// GetFundFamilyByName retrieves a family by its exact name.
// Returns apperrors.ErrFundFamilyNotFound if there is none.
func (r *FundRepository) GetFundFamilyByName(ctx context.Context, name string) (model.FundFamily, error) {
	row := r.getQuerier().QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM fund_family
		WHERE name = ?
	`, name)

	ff, err := scanFundFamily(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FundFamily{}, apperrors.ErrFundFamilyNotFound
	}
	return ff, err
}

// ListFundFamilies returns one page of families in creation order.
func (r *FundRepository) ListFundFamilies(ctx context.Context, limit, offset int) ([]model.FundFamily, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM fund_family
		ORDER BY created_at ASC, rowid ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_family table: %w", err)
	}
	defer rows.Close()

	families := []model.FundFamily{}
	for rows.Next() {
		ff, err := scanFundFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, ff)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_family table: %w", err)
	}

	return families, nil
}

// CountFundFamilies returns the total number of families.
func (r *FundRepository) CountFundFamilies(ctx context.Context) (int, error) {
	var count int
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM fund_family`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fund families: %w", err)
	}
	return count, nil
}

// SchemeCodeExists reports whether a mutual fund with this scheme code is stored.
func (r *FundRepository) SchemeCodeExists(ctx context.Context, schemeCode int64) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM mutual_fund WHERE scheme_code = ?)`, schemeCode,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check scheme code: %w", err)
	}
	return exists, nil
}

// InsertMutualFund stores a new scheme. ID and timestamps are filled in when empty.
// A repeated scheme code is reported as apperrors.ErrDuplicateEntry.
func (r *FundRepository) InsertMutualFund(ctx context.Context, f *model.MutualFund) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO mutual_fund (
			id, scheme_code, isin_growth, isin_reinvestment, scheme_name, nav, nav_date,
			scheme_type, scheme_category, fund_family_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.ID,
		f.SchemeCode,
		nullString(f.IsinGrowth),
		nullString(f.IsinReinvestment),
		f.SchemeName,
		f.Nav,
		formatDate(f.NavDate),
		f.SchemeType,
		f.SchemeCategory,
		f.FundFamilyID,
		formatTimestamp(f.CreatedAt),
		formatTimestamp(f.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: scheme code %d", apperrors.ErrDuplicateEntry, f.SchemeCode)
		}
		return fmt.Errorf("failed to insert mutual fund: %w", err)
	}
	return nil
}

// GetMutualFundBySchemeCode retrieves a scheme by its provider code.
// Returns apperrors.ErrMutualFundNotFound if there is none.
func (r *FundRepository) GetMutualFundBySchemeCode(ctx context.Context, schemeCode int64) (model.MutualFund, error) {
	var (
		f                            model.MutualFund
		isinGrowth, isinReinvestment sql.NullString
		navDate, createdAt, updated  string
	)
	err := r.getQuerier().QueryRowContext(ctx, `
		SELECT id, scheme_code, isin_growth, isin_reinvestment, scheme_name, nav, nav_date,
		       scheme_type, scheme_category, fund_family_id, created_at, updated_at
		FROM mutual_fund
		WHERE scheme_code = ?
	`, schemeCode).Scan(
		&f.ID,
		&f.SchemeCode,
		&isinGrowth,
		&isinReinvestment,
		&f.SchemeName,
		&f.Nav,
		&navDate,
		&f.SchemeType,
		&f.SchemeCategory,
		&f.FundFamilyID,
		&createdAt,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MutualFund{}, apperrors.ErrMutualFundNotFound
	}
	if err != nil {
		return model.MutualFund{}, fmt.Errorf("failed to query mutual_fund table: %w", err)
	}

	f.IsinGrowth = stringPtr(isinGrowth)
	f.IsinReinvestment = stringPtr(isinReinvestment)
	if f.NavDate, err = ParseTime(navDate); err != nil {
		return model.MutualFund{}, err
	}
	if f.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.MutualFund{}, err
	}
	if f.UpdatedAt, err = ParseTime(updated); err != nil {
		return model.MutualFund{}, err
	}
	return f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFundFamily(row rowScanner) (model.FundFamily, error) {
	var (
		ff                   model.FundFamily
		createdAt, updatedAt string
	)
	if err := row.Scan(&ff.ID, &ff.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FundFamily{}, err
		}
		return model.FundFamily{}, fmt.Errorf("failed to scan fund_family row: %w", err)
	}

	var err error
	if ff.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.FundFamily{}, err
	}
	if ff.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.FundFamily{}, err
	}
	return ff, nil
}
