package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/admin"
)

const AdminContextKey = "admin"

type AdminMiddleware struct {
	adminUseCase *admin.AdminUseCase
}

func NewAdminMiddleware(adminUseCase *admin.AdminUseCase) *AdminMiddleware {
	return &AdminMiddleware{adminUseCase: adminUseCase}
}

// RequireAdmin rejects requests without a valid admin bearer token. A
// disabled admin entry point answers 404 so it is indistinguishable from an
// unknown route.
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := m.adminUseCase.VerifyToken(BearerToken(c))
		switch {
		case err == nil:
			c.Set(AdminContextKey, true)
			c.Next()
		case errors.Is(err, domain.ErrAdminDisabled):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	// Remove "Bearer " prefix
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		return token[7:]
	}
	return ""
}
