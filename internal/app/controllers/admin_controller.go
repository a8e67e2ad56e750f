package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// AdminController handles member administration
type AdminController struct {
	profileService services.ProfileService
}

// NewAdminController creates a new AdminController
func NewAdminController(profileService services.ProfileService) *AdminController {
	return &AdminController{
		profileService: profileService,
	}
}

// ListUsers handles retrieving all profiles
// @Summary List members
// @Description Lists all profiles ordered by name
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProfileResponse} "Profiles"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	profiles, err := c.profileService.ListProfiles(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, toProfileResponse(p))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// UpdateRole handles changing a member's role
// @Summary Change a member's role
// @Description Sets the target profile's role. System admin accounts are immutable through this path.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Role updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden or system admin locked"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /admin/users/{id}/role [put]
func (c *AdminController) UpdateRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actorID, _ := middleware.GetProfileID(ctx)

	profile, err := c.profileService.UpdateRole(ctx.Request.Context(), actorID, id, models.Role(req.Role))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toProfileResponse(profile)))
}

// SyncUsers handles the profile sync pass
// @Summary Sync profiles
// @Description Repairs derived profile fields: flags system admins and backfills missing names. Safe to run repeatedly.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncUsersResponse} "Sync result"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/users/sync [post]
func (c *AdminController) SyncUsers(ctx *gin.Context) {
	scanned, updated, err := c.profileService.SyncProfiles(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SyncUsersResponse{
		Scanned: scanned,
		Updated: updated,
	}))
}
