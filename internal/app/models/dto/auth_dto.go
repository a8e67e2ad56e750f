package dto

// RegisterRequest is the payload for creating an account with a password
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sophie.martin@efrei.net"`
	Password string `json:"password" binding:"required,min=8" example:"Secret123"`
	FullName string `json:"fullName" binding:"omitempty,max=120" example:"Sophie Martin"`
}

// LoginRequest is the payload for password authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MagicLinkRequest asks for a one-time login code to be emailed
type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MagicLinkVerifyRequest exchanges an emailed one-time code for a session
type MagicLinkVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ForgotPasswordRequest asks for a password reset token to be emailed
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest exchanges an emailed reset token for a new password
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdatePasswordRequest changes the password of an authenticated profile
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// RefreshTokenRequest exchanges a refresh token for a new token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`        // Seconds
	RefreshExpiresIn int    `json:"refreshExpiresIn"` // Seconds
	TokenType        string `json:"tokenType" example:"Bearer"`
}

// ProfileResponse is the current user's profile with its resolved role
type ProfileResponse struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	FullName      string  `json:"fullName"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	Role          string  `json:"role" example:"membre"`
	IsSystemAdmin bool    `json:"isSystemAdmin"`
}
