package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/id"
)

// ParseSIDParam parses and validates a Stripe-style prefixed ID from a URL path parameter.
// paramName is the Gin route parameter name (e.g., "id", "user_id").
// prefix is the expected SID prefix (e.g., id.PrefixProduct).
// entityName is used in error messages (e.g., "product", "billing event").
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}

	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}

	return sid, nil
}

// RequireParam returns a path parameter or a validation error when missing.
func RequireParam(c *gin.Context, paramName, entityName string) (string, error) {
	v := c.Param(paramName)
	if v == "" {
		return "", errors.NewValidationError(entityName + " is required")
	}
	return v, nil
}
