package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"course_insights/internal/model"
	"course_insights/internal/service"
	"course_insights/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const AuthUserKey = "authUser"

const unauthorizedMessage = "Not authorized"

// IdentityResolver loads the live account behind a token subject
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication. Every
// rejection answers with the same 401 body; the reason is only logged.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, resolver IdentityResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(reason string, err error) {
			log.Debug("request rejected", zap.String("reason", reason), zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthorizedMessage})
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject("missing authorization header", nil)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			reject("malformed authorization header", nil)
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			reject("invalid token", err)
			return
		}

		userID, err := claims.SubjectID()
		if err != nil {
			reject("invalid token subject", err)
			return
		}

		user, err := resolver.ResolveIdentity(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				reject("token subject no longer exists", err)
				return
			}
			log.Error("failed to resolve token subject", zap.String("user_id", userID.String()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity attached by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}
