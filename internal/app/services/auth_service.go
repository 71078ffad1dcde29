package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/auth"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(sub auth.Subject) (string, time.Time, error)
}

// AuthService handles registration, logins and the caller's own profile
type AuthService struct {
	students   StudentStore
	admins     AdminStore
	tokens     TokenIssuer
	revocation auth.RevocationStore
	audit      AuditLog
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	students StudentStore,
	admins AdminStore,
	tokens TokenIssuer,
	revocation auth.RevocationStore,
	audit AuditLog,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		students:   students,
		admins:     admins,
		tokens:     tokens,
		revocation: revocation,
		audit:      audit,
		logger:     logger,
	}
}

// Register creates a student account and signs a token for it
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, ip string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	student := req.ToModel()
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	student.PasswordHash = hash

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	resp, err := s.studentToken(student)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.StudentID).Msg("Student registered")
	record(ctx, s.audit, studentActor(student, ip), "STUDENT_REGISTER", "New student registered: "+student.Name)
	return resp, nil
}

// Login authenticates a student by student ID and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.AuthResponse, error) {
	student, err := s.students.GetByStudentID(ctx, strings.TrimSpace(req.StudentID))
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentLoginFailed
		}
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, req.Password) {
		s.logger.Debug().Str("studentID", student.StudentID).Msg("Rejected student login")
		return nil, apperrors.ErrStudentLoginFailed
	}
	if !student.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.students.UpdateLastLogin(ctx, student.ID); err != nil {
		s.logger.Warn().Err(err).Int64("id", student.ID).Msg("Failed to update last login")
	}

	resp, err := s.studentToken(student)
	if err != nil {
		return nil, err
	}

	record(ctx, s.audit, studentActor(student, ip), "STUDENT_LOGIN", "Student logged in")
	return resp, nil
}

// AdminLogin authenticates staff by username or email
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, ip string) (*dto.AdminAuthResponse, error) {
	admin, err := s.admins.GetByUsernameOrEmail(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, apperrors.ErrAdminLoginFailed
		}
		return nil, err
	}

	// Inactive accounts get the same answer as a wrong password
	if !admin.IsActive || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		return nil, apperrors.ErrAdminLoginFailed
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.Warn().Err(err).Int64("id", admin.ID).Msg("Failed to update admin last login")
	}

	token, expiresAt, err := s.tokens.GenerateToken(auth.Subject{
		UserID:   admin.ID,
		Username: admin.Username,
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	actor := Actor{UserID: admin.ID, Username: admin.Username, Role: auth.RoleAdmin, IP: ip}
	record(ctx, s.audit, actor, "ADMIN_LOGIN", "Admin logged in: "+admin.Username)

	return &dto.AdminAuthResponse{
		Admin:     dto.NewAdminSummary(admin),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the presented token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrTokenInvalid
	}
	if s.revocation == nil {
		return nil
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.revocation.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// Profile returns the caller's own student record
func (s *AuthService) Profile(ctx context.Context, actor Actor) (*models.Student, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students have a profile")
	}
	return s.students.GetByStudentID(ctx, actor.StudentID)
}

// UpdateProfile applies a partial update to the caller's profile and returns the stored result
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*models.Student, error) {
	if actor.StudentID == "" {
		return nil, apperrors.NewForbiddenError("Only students have a profile")
	}

	if err := s.students.UpdateProfile(ctx, actor.StudentID, req.Fields()); err != nil {
		return nil, err
	}

	record(ctx, s.audit, actor, "PROFILE_UPDATE", "Student updated profile")
	return s.students.GetByStudentID(ctx, actor.StudentID)
}

func (s *AuthService) studentToken(student *models.Student) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(auth.Subject{
		UserID:    student.ID,
		StudentID: student.StudentID,
		Username:  student.Name,
		Role:      auth.RoleStudent,
	})
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{User: student, Token: token, ExpiresAt: expiresAt}, nil
}

func studentActor(s *models.Student, ip string) Actor {
	return Actor{UserID: s.ID, StudentID: s.StudentID, Username: s.Name, Role: auth.RoleStudent, IP: ip}
}
