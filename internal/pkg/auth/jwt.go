package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
)

// Roles carried in tokens
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Subject identifies who a token is issued for.
type Subject struct {
	UserID    int64
	StudentID string
	Username  string
	Role      string
}

// Claims defines JWT token content
type Claims struct {
	UserID    int64  `json:"user_id"`
	StudentID string `json:"student_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims belong to an admin
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// GenerateToken signs an access token for sub and returns it with its expiry
func (s *JWTService) GenerateToken(sub Subject) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenExp)

	claims := &Claims{
		UserID:    sub.UserID,
		StudentID: sub.StudentID,
		Username:  sub.Username,
		Role:      sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(sub.UserID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses tokenString and checks signature, expiry and required claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	if claims.UserID <= 0 || claims.ID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Role == RoleStudent && claims.StudentID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.Role != RoleStudent && claims.Role != RoleAdmin {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", apperrors.ErrTokenMissing
	}

	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:]), nil
	}

	// Raw tokens are accepted for Swagger UI convenience
	if strings.Count(authHeader, ".") == 2 {
		return authHeader, nil
	}

	return "", apperrors.ErrTokenInvalid
}
