package dto

import "time"

// --- Auth DTOs ---

// SignInRequest defines credentials for local sign-in.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleIDTokenRequest carries a Google ID token obtained client-side.
type GoogleIDTokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// RefreshTokenRequest asks for a new access token using a refresh token.
type RefreshTokenRequest struct {
	UserID       string `json:"userID" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthTokensResponse returns issued tokens and their expiry times.
type AuthTokensResponse struct {
	AccessToken           string       `json:"accessToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshToken          string       `json:"refreshToken,omitempty"`
	RefreshTokenExpiresAt *time.Time   `json:"refreshTokenExpiresAt,omitempty"`
	User                  UserResponse `json:"user"`
}
