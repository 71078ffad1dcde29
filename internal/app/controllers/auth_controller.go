package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/apperrors"
	"github.com/yigit/hostelpg/internal/pkg/auth"
)

// Authenticator is the part of services.AuthService the HTTP layer uses
type Authenticator interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ip string) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ip string) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, ip string) (*dto.AdminAuthResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Profile(ctx context.Context, actor services.Actor) (*models.Student, error)
	UpdateProfile(ctx context.Context, actor services.Actor, req *dto.UpdateProfileRequest) (*models.Student, error)
}

// AuthController handles authentication related operations
type AuthController struct {
	authService Authenticator
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles student registration
// @Summary Register a new student
// @Description Creates a student account and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Student registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Student registered successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request format or validation error"
// @Failure 409 {object} dto.APIResponse "Student ID or email already registered"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req, ctx.ClientIP())
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", req.StudentID).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", resp.User.StudentID).Msg("Student registered")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Student registered successfully"))
}

// Login handles student login
// @Summary Student login
// @Description Authenticates a student by student ID and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.APIResponse "Invalid student ID or password"
// @Failure 403 {object} dto.APIResponse "Account disabled"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req, ctx.ClientIP())
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", req.StudentID).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// AdminLogin handles staff login
// @Summary Admin login
// @Description Authenticates an admin by username or email and password
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminAuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid username or password"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.AdminLogin(ctx.Request.Context(), &req, ctx.ClientIP())
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Admin login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Logout revokes the caller's token
// @Summary Logout
// @Description Revokes the current access token until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Access token required"
// @Failure 403 {object} dto.APIResponse "Invalid or expired token"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), claims); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out successfully"))
}

// GetProfile returns the authenticated student's profile
// @Summary Get profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student profile"
// @Failure 401 {object} dto.APIResponse "Access token required"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	student, err := c.authService.Profile(ctx.Request.Context(), actorFrom(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, ""))
}

// UpdateProfile applies a partial update to the authenticated student's profile
// @Summary Update profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Profile updated"
// @Failure 400 {object} dto.APIResponse "No valid fields to update"
// @Failure 401 {object} dto.APIResponse "Access token required"
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.authService.UpdateProfile(ctx.Request.Context(), actorFrom(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Profile updated successfully"))
}
