package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/logger"
	"volunteer-match/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const UserIDKey = "userID"

// SessionResolver maps an opaque session token to the owning user id.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (int64, error)
}

// SessionMiddleware requires "Authorization: Bearer <token>" and stores the
// resolved user id under UserIDKey. It authenticates only; it does not
// authorize.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		userID, err := resolver.ResolveSession(c.Request.Context(), strings.TrimSpace(parts[1]))
		if errors.Is(err, domainUser.ErrSessionNotFound) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid session token")
			return
		}
		if err != nil {
			logger.Error("Failed to resolve session",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the user id stored by SessionMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
