package model

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BlacklistedToken is an access token revoked by logout before its expiry.
type BlacklistedToken struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TokenPair is what a successful login hands back to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
