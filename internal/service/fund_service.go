package service

import (
	"context"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
)

// FundService serves read access to fund families.
type FundService struct {
	fundRepo *repository.FundRepository
}

// NewFundService creates a new FundService.
func NewFundService(fundRepo *repository.FundRepository) *FundService {
	return &FundService{fundRepo: fundRepo}
}

// ListFundFamilies returns one page of fund families in creation order.
// An empty page, including any page when no families exist, is apperrors.ErrPageNotFound.
func (s *FundService) ListFundFamilies(ctx context.Context, p request.Pagination) (model.FundFamilyPage, error) {
	count, err := s.fundRepo.CountFundFamilies(ctx)
	if err != nil {
		return model.FundFamilyPage{}, err
	}
	if p.PastEnd(count) {
		return model.FundFamilyPage{}, apperrors.ErrPageNotFound
	}

	families, err := s.fundRepo.ListFundFamilies(ctx, p.PageSize, p.Offset())
	if err != nil {
		return model.FundFamilyPage{}, err
	}

	return model.FundFamilyPage{
		Count:    count,
		Page:     p.Page,
		PageSize: p.PageSize,
		Results:  families,
	}, nil
}
