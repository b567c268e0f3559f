package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/config"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System    *service.SystemService
	Fund      *service.FundService
	Ingestion *service.IngestionService
	Portfolio *service.PortfolioService
	Auth      *service.AuthService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	fundHandler := handlers.NewFundHandler(svc.Fund, svc.Ingestion)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	authHandler := handlers.NewAuthHandler(svc.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Post("/register-user", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh-token", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.RequireAuth(svc.Auth))

			r.Post("/logout-user", authHandler.Logout)
			r.Get("/list-fund-families", fundHandler.ListFundFamilies)
			r.Get("/fetch-external-funds", fundHandler.FetchExternalFunds)
			r.Post("/purchase-fund", portfolioHandler.PurchaseFund)
			r.Get("/user-portfolio", portfolioHandler.UserPortfolio)
		})
	})

	return r
}
