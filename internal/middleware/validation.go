package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/aquaclub/aquaclub/internal/app/models/dto"
)

// BindJSON binds and validates a JSON request body, writing the
// standard validation error envelope on failure. Returns false when
// the request was rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			errorDetail = errorDetail.WithField(verrs[0].Field())
			errorDetail = errorDetail.WithDetails(formatValidationError(verrs[0]))
		} else {
			errorDetail = errorDetail.WithDetails(err.Error())
		}

		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return e.Field() + " must be a valid email address"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Field() + " is invalid"
	}
}
