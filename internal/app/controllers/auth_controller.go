package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService    *services.AuthService
	profileService services.ProfileService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, profileService services.ProfileService) *AuthController {
	return &AuthController{
		authService:    authService,
		profileService: profileService,
	}
}

func toProfileResponse(p *models.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:            p.ID,
		Email:         p.Email,
		FullName:      p.FullName,
		AvatarURL:     p.AvatarURL,
		Role:          string(p.Role),
		IsSystemAdmin: p.IsSystemAdmin,
	}
}

// Register handles account creation
// @Summary Register a new account
// @Description Creates a password-based account with the default role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.APIResponse{data=dto.ProfileResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(toProfileResponse(profile)))
}

// Login handles password authentication
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Session issued"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, _, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens))
}

// RequestMagicLink emails a one-time login code
// @Summary Request a magic-link login code
// @Description Sends a one-time code by email. The response is the same whether or not an account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Email address"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Code sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /auth/magic-link [post]
func (c *AuthController) RequestMagicLink(ctx *gin.Context) {
	var req dto.MagicLinkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.RequestMagicLink(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Login code sent"}))
}

// VerifyMagicLink exchanges an emailed code for a session
// @Summary Verify a magic-link login code
// @Description Exchanges the emailed one-time code for a token pair, creating the profile on first login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkVerifyRequest true "Email and code"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Session issued"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired login code"
// @Router /auth/magic-link/verify [post]
func (c *AuthController) VerifyMagicLink(ctx *gin.Context) {
	var req dto.MagicLinkVerifyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, _, err := c.authService.VerifyMagicLink(ctx.Request.Context(), req.Email, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens))
}

// ForgotPassword emails a single-use password reset token
// @Summary Request a password reset
// @Description Sends a reset token by email. The response is the same whether or not an account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Email address"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reset token sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Reset token sent"}))
}

// ResetPassword exchanges a reset token for a new password
// @Summary Reset the password with an emailed token
// @Description Sets a new password. The token works once and every active session is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password reset"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or used token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Password reset"}))
}

// UpdatePassword changes the authenticated profile's password
// @Summary Update the password
// @Description Replaces the current password after verifying it. Other sessions are revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password updated"
// @Failure 401 {object} dto.ErrorResponse "Wrong current password"
// @Router /auth/password [put]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	profileID, ok := middleware.GetProfileID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdatePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.UpdatePassword(ctx.Request.Context(), profileID, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Password updated"}))
}

// RefreshToken rotates a refresh token
// @Summary Refresh the session
// @Description Exchanges a refresh token for a new pair; the old token is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(tokens))
}

// Logout revokes a refresh token
// @Summary Log out
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RefreshTokenRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Token not found"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// LogoutAll revokes every active session of the authenticated profile
// @Summary Log out everywhere
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "All sessions revoked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout-all [post]
func (c *AuthController) LogoutAll(ctx *gin.Context) {
	profileID, ok := middleware.GetProfileID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.authService.LogoutAll(ctx.Request.Context(), profileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "All sessions revoked"}))
}

// Me returns the authenticated profile
// @Summary Get the current profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Current profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	profileID, ok := middleware.GetProfileID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), profileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toProfileResponse(profile)))
}
