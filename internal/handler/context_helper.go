package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/middleware"
	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// authorizeUser rejects requests acting on another user's schedule. Without
// authentication every user id is accepted.
func authorizeUser(c *gin.Context, userID string) bool {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == userID {
		return true
	}
	response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "cannot access another user's schedule"))
	return false
}
