package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"outfit-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier проверяет строку токена и возвращает claims.
// Ошибки: models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// GinAuthMiddleware проверяет Bearer JWT и кладет UserID, роли и тариф
// в контекст запроса (и request.Context(), и gin.Context).
func GinAuthMiddleware(verifier TokenVerifier, logger *zap.Logger, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Unauthorized: Missing token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Unauthorized: Malformed token header"})
			return
		}

		claims, err := verifier(c.Request.Context(), parts[1])
		if err != nil {
			status := http.StatusUnauthorized
			resp := models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized: Invalid token"}
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				resp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Unauthorized: Token expired"}
			case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
			default:
				log.Error("Unexpected token verification error", zap.Error(err))
				status = http.StatusInternalServerError
				resp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "Internal server error during token verification"}
			}
			log.Warn("Token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(status, resp)
			return
		}

		if len(requiredRoles) > 0 && !hasAnyRole(claims.Roles, requiredRoles) {
			log.Warn("User does not have required role",
				zap.String("userID", claims.UserID.String()),
				zap.Strings("userRoles", claims.Roles),
				zap.Strings("requiredRoles", requiredRoles),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Forbidden"})
			return
		}

		tier := claims.Tier
		if tier == "" {
			tier = models.TierFree
		}

		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
		ctx = context.WithValue(ctx, models.TierContextKey, tier)
		c.Request = c.Request.WithContext(ctx)

		c.Set(string(models.UserContextKey), claims.UserID)
		c.Set(string(models.RolesContextKey), claims.Roles)
		c.Set(string(models.TierContextKey), tier)

		c.Next()
	}
}

// RequireRole пропускает запрос, только если у пользователя есть одна из ролей.
// Должен стоять после GinAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, _ := models.GetRolesFromContext(c.Request.Context())
		if !hasAnyRole(userRoles, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Forbidden"})
			return
		}
		c.Next()
	}
}

func hasAnyRole(userRoles, required []string) bool {
	for _, r := range required {
		if models.HasRole(userRoles, r) {
			return true
		}
	}
	return false
}
