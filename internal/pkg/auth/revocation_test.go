package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists(revokedKeyPrefix+"jti-1"))

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationStore_SkipsExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"old"))
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "stale", now.Add(-time.Hour)))

	revoked, _ := store.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "stale")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.Len(t, store.revoked, 1)
}

func TestRedisRevocationStore_Subjects(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocationStore(client)
	ctx := context.Background()
	subject := StudentSubject("2024001")

	_, ended, err := store.SubjectRevokedAt(ctx, subject)
	require.NoError(t, err)
	assert.False(t, ended)

	cutoff := time.Unix(1750000000, 0)
	require.NoError(t, store.RevokeSubject(ctx, subject, cutoff, time.Now().Add(time.Hour)))
	assert.True(t, mr.Exists(revokedSubjectKeyPrefix+"student:2024001"))

	got, ended, err := store.SubjectRevokedAt(ctx, subject)
	require.NoError(t, err)
	require.True(t, ended)
	assert.True(t, cutoff.Equal(got))

	mr.FastForward(2 * time.Hour)
	_, ended, err = store.SubjectRevokedAt(ctx, subject)
	require.NoError(t, err)
	assert.False(t, ended)
}

func TestMemoryRevocationStore_Subjects(t *testing.T) {
	store := NewMemoryRevocationStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.RevokeSubject(ctx, AdminSubject(1), now, now.Add(time.Hour)))
	require.NoError(t, store.RevokeSubject(ctx, StudentSubject("old"), now, now.Add(-time.Minute)))

	cutoff, ended, err := store.SubjectRevokedAt(ctx, "admin:1")
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, now, cutoff)

	_, ended, _ = store.SubjectRevokedAt(ctx, "student:old")
	assert.False(t, ended)

	now = now.Add(2 * time.Hour)
	_, ended, _ = store.SubjectRevokedAt(ctx, "admin:1")
	assert.False(t, ended)
}

func TestClaims_SessionSubject(t *testing.T) {
	student := &Claims{UserID: 3, StudentID: "2024001", Role: RoleStudent}
	admin := &Claims{UserID: 1, Username: "admin", Role: RoleAdmin}
	assert.Equal(t, "student:2024001", student.SessionSubject())
	assert.Equal(t, "admin:1", admin.SessionSubject())

	issued := time.Unix(1750000000, 0)
	student.IssuedAt = jwt.NewNumericDate(issued)
	assert.True(t, student.IssuedNoLaterThan(issued.Add(500*time.Millisecond)))
	assert.False(t, student.IssuedNoLaterThan(issued.Add(-time.Second)))
	assert.True(t, admin.IssuedNoLaterThan(issued), "tokens without iat are treated as old")
}
