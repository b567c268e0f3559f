package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PurchaseFund records a purchase for the authenticated user.
//
// Endpoint: POST /api/v1/purchase-fund
// Request Body: PurchaseFundRequest (scheme_code, units, invested_amount)
// Response: 201 Created with {data: PortfolioEntry, success: true}
// Error: 400 Bad Request if a field is missing, not numeric or not positive
// Error: 404 Not Found if no scheme has the given code
func (h *PortfolioHandler) PurchaseFund(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondServiceError(w, r, apperrors.ErrMissingToken, "")
		return
	}

	req, err := parseJSON[request.PurchaseFundRequest](r)
	if err != nil {
		response.RespondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.portfolioService.BuyFund(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToCreatePortfolio.Error())
		return
	}

	response.RespondData(w, r, http.StatusCreated, entry)
}

// UserPortfolio lists the authenticated user's holdings at the latest NAV.
//
// Endpoint: GET /api/v1/user-portfolio
// Response: 200 OK with {data: []PortfolioEntry, success: true}
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) UserPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondServiceError(w, r, apperrors.ErrMissingToken, "")
		return
	}

	entries, err := h.portfolioService.GetUserPortfolio(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrievePortfolio.Error())
		return
	}

	response.RespondData(w, r, http.StatusOK, entries)
}
