package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevocationStore remembers logged-out token ids until they would have expired anyway.
// It also remembers accounts whose sessions were ended as a whole.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeSubject rejects every token of subject issued at or before cutoff.
	// The cutoff is kept until keepUntil, when all such tokens have expired.
	RevokeSubject(ctx context.Context, subject string, cutoff, keepUntil time.Time) error
	// SubjectRevokedAt returns the cutoff set by RevokeSubject, if any.
	SubjectRevokedAt(ctx context.Context, subject string) (time.Time, bool, error)
}

// StudentSubject names a student account for RevokeSubject
func StudentSubject(studentID string) string {
	return "student:" + studentID
}

// AdminSubject names a staff account for RevokeSubject
func AdminSubject(id int64) string {
	return "admin:" + strconv.FormatInt(id, 10)
}

// SessionSubject names the account that owns the token
func (c *Claims) SessionSubject() string {
	if c.Role == RoleStudent {
		return StudentSubject(c.StudentID)
	}
	return AdminSubject(c.UserID)
}

// IssuedNoLaterThan reports whether the token was issued at or before cutoff,
// compared at the one second resolution of the iat claim.
func (c *Claims) IssuedNoLaterThan(cutoff time.Time) bool {
	if c.IssuedAt == nil {
		return true
	}
	return c.IssuedAt.Unix() <= cutoff.Unix()
}

const (
	revokedKeyPrefix        = "hostelpg:revoked:"
	revokedSubjectKeyPrefix = "hostelpg:revoked-subject:"
)

// RedisRevocationStore keeps revoked ids as expiring Redis keys.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a store backed by client
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (s *RedisRevocationStore) RevokeSubject(ctx context.Context, subject string, cutoff, keepUntil time.Time) error {
	ttl := time.Until(keepUntil)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedSubjectKeyPrefix+subject, cutoff.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) SubjectRevokedAt(ctx context.Context, subject string) (time.Time, bool, error) {
	unix, err := s.client.Get(ctx, revokedSubjectKeyPrefix+subject).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}

// MemoryRevocationStore is the single-process fallback when Redis is not configured.
type MemoryRevocationStore struct {
	mu       sync.Mutex
	revoked  map[string]time.Time
	subjects map[string]subjectCutoff
	now      func() time.Time
}

type subjectCutoff struct {
	cutoff    time.Time
	keepUntil time.Time
}

// NewMemoryRevocationStore creates an empty in-process store
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked:  make(map[string]time.Time),
		subjects: make(map[string]subjectCutoff),
		now:      time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	if expiresAt.After(now) {
		s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[tokenID]
	return ok && exp.After(s.now()), nil
}

func (s *MemoryRevocationStore) RevokeSubject(_ context.Context, subject string, cutoff, keepUntil time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for name, c := range s.subjects {
		if !c.keepUntil.After(now) {
			delete(s.subjects, name)
		}
	}
	if keepUntil.After(now) {
		s.subjects[subject] = subjectCutoff{cutoff: cutoff, keepUntil: keepUntil}
	}
	return nil
}

func (s *MemoryRevocationStore) SubjectRevokedAt(_ context.Context, subject string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.subjects[subject]
	if !ok || !c.keepUntil.After(s.now()) {
		return time.Time{}, false, nil
	}
	return c.cutoff, true, nil
}
