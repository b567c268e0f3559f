package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisteredUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type RegisterResponse struct {
	User    RegisteredUser `json:"user"`
	Message string         `json:"message"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

// Register creates an account.
//
// Endpoint: POST /api/v1/register-user
// Response: 201 Created with RegisterResponse
// Error: 400 Bad Request with the failing rule in error and all field messages in details
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRegisterUser.Error())
		return
	}

	response.RespondJSON(w, r, http.StatusCreated, RegisterResponse{
		User:    RegisteredUser{Email: user.Email, Username: user.Username},
		Message: "User registered successfully",
	})
}

// Login exchanges credentials for an access and refresh token.
//
// Endpoint: POST /api/v1/login
// Response: 200 OK with model.TokenPair
// Error: 401 Unauthorized on unknown email, wrong password or disabled account
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pair, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToIssueToken.Error())
		return
	}

	response.RespondJSON(w, r, http.StatusOK, pair)
}

// Refresh issues a new access token.
//
// Endpoint: POST /api/v1/refresh-token
// Response: 200 OK with AccessResponse
// Error: 401 Unauthorized if the refresh token is invalid or expired
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RefreshRequest](r)
	if err != nil {
		response.RespondError(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Refresh == "" {
		response.RespondError(w, r, http.StatusBadRequest, "validation failed", map[string]string{"refresh": "This field is required."})
		return
	}

	access, err := h.authService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToIssueToken.Error())
		return
	}

	response.RespondJSON(w, r, http.StatusOK, AccessResponse{Access: access})
}

// Logout revokes the bearer token the request was authenticated with.
//
// Endpoint: POST /api/v1/logout-user
// Response: 200 OK with {message, success: true}
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.AccessTokenFromContext(r.Context())
	if !ok {
		respondServiceError(w, r, apperrors.ErrMissingToken, "")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToLogout.Error())
		return
	}

	response.RespondJSON(w, r, http.StatusOK, response.MessageResponse{
		Message: "Logged out successfully.",
		Success: true,
	})
}
