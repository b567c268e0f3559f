package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fund and ingestion services.
type FundHandler struct {
	fundService      *service.FundService
	ingestionService *service.IngestionService
}

// NewFundHandler creates a new FundHandler with the provided service dependencies.
func NewFundHandler(fundService *service.FundService, ingestionService *service.IngestionService) *FundHandler {
	return &FundHandler{
		fundService:      fundService,
		ingestionService: ingestionService,
	}
}

// FundFamiliesResponse is one page of fund families.
type FundFamiliesResponse struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []model.FundFamily `json:"results"`
	Success  bool               `json:"success"`
}

// ListFundFamilies handles GET requests for a page of fund families.
//
// Endpoint: GET /api/v1/list-fund-families?page=&page_size=
// Response: 200 OK with FundFamiliesResponse
// Error: 404 Not Found if the page is empty or out of range
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) ListFundFamilies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := request.ParsePagination(q.Get("page"), q.Get("page_size"))
	if err != nil {
		respondServiceError(w, r, fmt.Errorf("%w: %w", apperrors.ErrPageNotFound, err), "")
		return
	}

	page, err := h.fundService.ListFundFamilies(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveFundFamilies.Error())
		return
	}

	resp := FundFamiliesResponse{
		Count:   page.Count,
		Results: page.Results,
		Success: true,
	}
	if page.HasNext() {
		resp.Next = pageURL(r, page.Page+1, page.PageSize)
	}
	if page.HasPrevious() {
		resp.Previous = pageURL(r, page.Page-1, page.PageSize)
	}

	response.RespondJSON(w, r, http.StatusOK, resp)
}

// pageURL builds the absolute link to another page of the current listing.
func pageURL(r *http.Request, page, pageSize int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

// FetchFundsResponse reports the outcome of an ingestion run.
type FetchFundsResponse struct {
	Message      string             `json:"message"`
	CreatedFunds []string           `json:"created_funds"`
	FailedFunds  []model.FailedFund `json:"failed_funds"`
	Success      bool               `json:"success"`
}

// FetchExternalFunds handles GET requests that pull open-ended schemes from the
// NAV provider and store the new ones.
//
// A run where some records fail is still a success; the failures are listed.
//
// Endpoint: GET /api/v1/fetch-external-funds
// Response: 201 Created with FetchFundsResponse
// Error: 400 Bad Request if every record was rejected (body still lists them)
// Error: 502 Bad Gateway if the provider was unreachable or answered non-200
func (h *FundHandler) FetchExternalFunds(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingestionService.Ingest(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToIngestFunds.Error())
		return
	}

	if len(result.Created) == 0 && len(result.Failed) > 0 {
		response.RespondJSON(w, r, http.StatusBadRequest, FetchFundsResponse{
			Message:      "No funds could be saved.",
			CreatedFunds: result.Created,
			FailedFunds:  result.Failed,
			Success:      false,
		})
		return
	}

	response.RespondJSON(w, r, http.StatusCreated, FetchFundsResponse{
		Message:      "Funds fetched and saved successfully!",
		CreatedFunds: result.Created,
		FailedFunds:  result.Failed,
		Success:      true,
	})
}
