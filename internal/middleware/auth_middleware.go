package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/auth"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextClaims    = "claims"
	ContextUserID    = "userID"
	ContextStudentID = "studentID"
	ContextRole      = "role"
)

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	tokens     TokenValidator
	revocation auth.RevocationStore
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil revocation store disables logout checks.
func NewAuthMiddleware(tokens TokenValidator, revocation auth.RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		revocation: revocation,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Access token required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			// Swagger UI sends the raw token when the Bearer prefix is left out
			raw := strings.Trim(strings.TrimSpace(authHeader), "\"'")
			if strings.Count(raw, ".") != 2 {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid or expired token").
					WithDetails("Invalid token format")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}
			tokenString = raw
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Invalid or expired token")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		if m.revocation != nil {
			revoked, err := m.revocation.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error().Err(err).Str("jti", claims.ID).Msg("Failed to check token revocation")
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
				return
			}
			if revoked {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid or expired token").
					WithDetails("Token has been revoked")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}

			subject := claims.SessionSubject()
			cutoff, ended, err := m.revocation.SubjectRevokedAt(c.Request.Context(), subject)
			if err != nil {
				logger.Error().Err(err).Str("subject", subject).Msg("Failed to check session revocation")
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
				return
			}
			if ended && claims.IssuedNoLaterThan(cutoff) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid or expired token").
					WithDetails("Account sessions have been revoked")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextStudentID, claims.StudentID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ensure JWTAuth middleware has run first
		role, exists := c.Get(ContextRole)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != requiredRole {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetClaims returns the verified claims JWTAuth stored on the context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
