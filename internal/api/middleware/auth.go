// Package middleware provides HTTP middleware for request logging, CORS and authentication.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
)

type contextKey string

const (
	userIDKey      = contextKey("user_id")
	accessTokenKey = contextKey("access_token")
)

// Authenticator resolves a bearer access token to the ID of the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header.
// On success the user ID and the raw token are stored on the request context.
//
// Example usage in router:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(middleware.RequireAuth(authService))
//	    r.Get("/user-portfolio", handler.UserPortfolio)
//	})
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.RespondError(w, r, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
				return
			}

			userID, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrTokenBlacklisted):
					response.RespondError(w, r, http.StatusUnauthorized, "Token is blacklisted. Please log in again.", nil)
				case errors.Is(err, apperrors.ErrInvalidToken):
					response.RespondError(w, r, http.StatusUnauthorized, "Given token not valid for any token type.", nil)
				default:
					logging.FromContext(r.Context(), logrus.StandardLogger()).
						WithError(err).Error("failed to authenticate request")
					response.RespondError(w, r, http.StatusInternalServerError, "failed to authenticate request", nil)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), userID, token)))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// AccessTokenFromContext returns the bearer token the request was authenticated with.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(accessTokenKey).(string)
	return tok, ok && tok != ""
}

// ContextWithUser stores an authenticated user on ctx.
func ContextWithUser(ctx context.Context, userID, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, accessTokenKey, accessToken)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
