package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 24 * time.Hour,
		TokenIssuer:    "hostelpg.test",
	})
}

func TestGenerateAndValidateStudentToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateToken(Subject{UserID: 7, StudentID: "2024001", Role: RoleStudent})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "2024001", claims.StudentID)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.IsAdmin())
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, _, err := svc.GenerateToken(Subject{UserID: 1, Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestJWTService()

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "hostelpg.test"})
	foreign, _, err := other.GenerateToken(Subject{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	wrongIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	misissued, _, err := wrongIssuer.GenerateToken(Subject{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	noStudentID, _, err := svc.GenerateToken(Subject{UserID: 3, Role: RoleStudent})
	require.NoError(t, err)

	unknownRole, _, err := svc.GenerateToken(Subject{UserID: 3, Role: "owner"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret":       foreign,
		"wrong issuer":       misissued,
		"student without id": noStudentID,
		"unknown role":       unknownRole,
		"alg none":           unsigned,
		"garbage":            "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenMissing)

	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = 4
	t.Cleanup(func() { BcryptCost = 12 })

	hash, err := HashPassword("student123")
	require.NoError(t, err)
	assert.NotEqual(t, "student123", hash)
	assert.True(t, CheckPassword(hash, "student123"))
	assert.False(t, CheckPassword(hash, "student124"))
}
