package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/validation"
)

// PortfolioService records fund purchases and values a user's holdings.
type PortfolioService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	fundRepo      *repository.FundRepository
	log           logrus.FieldLogger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	fundRepo *repository.FundRepository,
	log logrus.FieldLogger,
) *PortfolioService {
	return &PortfolioService{
		db:            db,
		portfolioRepo: portfolioRepo,
		fundRepo:      fundRepo,
		log:           log.WithField("component", "portfolio"),
	}
}

// BuyFund records a purchase of an existing scheme for the user.
//
// Checks run in a fixed order and the first failure is returned:
//   - apperrors.ErrMissingRequiredField when a field is absent or empty
//   - apperrors.ErrNotANumber when units or invested_amount is not numeric
//   - apperrors.ErrNotAnInteger when scheme_code is not a whole number
//   - apperrors.ErrOutOfRange when units or invested_amount is not positive
//   - apperrors.ErrMutualFundNotFound when no scheme has the given code
//
// The invested amount is taken as declared; it is not compared with units x NAV.
// Nothing is written unless all checks pass. The scheme lookup and the insert
// share one transaction, so the entry always carries the NAV it was stored against.
func (s *PortfolioService) BuyFund(ctx context.Context, userID string, req request.PurchaseFundRequest) (model.PortfolioEntry, error) {
	purchase, err := validation.ValidatePurchase(req)
	if err != nil {
		return model.PortfolioEntry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.PortfolioEntry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	fund, err := s.fundRepo.WithTx(tx).GetMutualFundBySchemeCode(ctx, purchase.SchemeCode)
	if err != nil {
		return model.PortfolioEntry{}, err
	}

	p := model.Portfolio{
		UserID:         userID,
		MutualFundID:   fund.ID,
		Units:          purchase.Units,
		InvestedAmount: purchase.InvestedAmount,
	}
	if err := s.portfolioRepo.WithTx(tx).InsertPortfolio(ctx, &p); err != nil {
		return model.PortfolioEntry{}, fmt.Errorf("failed to record purchase: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.PortfolioEntry{}, fmt.Errorf("failed to commit purchase: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"portfolio_id": p.ID,
		"scheme_code":  fund.SchemeCode,
	}).Info("fund purchased")

	return model.PortfolioEntry{
		ID:             p.ID,
		SchemeCode:     fund.SchemeCode,
		SchemeName:     fund.SchemeName,
		Units:          p.Units,
		InvestedAmount: p.InvestedAmount,
		CurrentValue:   CurrentValue(p.Units, fund.Nav),
		Nav:            fund.Nav,
		PurchaseDate:   p.PurchaseDate,
	}, nil
}

// GetUserPortfolio returns every holding of the user valued at the latest stored NAV.
// Values are computed on each call and never cached.
func (s *PortfolioService) GetUserPortfolio(ctx context.Context, userID string) ([]model.PortfolioEntry, error) {
	entries, err := s.portfolioRepo.GetPortfolioEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].CurrentValue = CurrentValue(entries[i].Units, entries[i].Nav)
	}
	return entries, nil
}
