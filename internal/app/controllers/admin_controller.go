package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// AdminController serves the staff dashboard, inventory, the system log and health
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// GetDashboard returns headline counts and recent activity
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Dashboard} "Dashboard"
// @Failure 401 {object} dto.APIResponse "Access token required"
// @Failure 403 {object} dto.APIResponse "Access denied"
// @Router /admin/dashboard [get]
func (c *AdminController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.adminService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, ""))
}

// GetPropertyStats returns listing counts and free capacity
// @Summary Property statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.InventoryStats} "Inventory"
// @Router /admin/properties/stats [get]
func (c *AdminController) GetPropertyStats(ctx *gin.Context) {
	stats, err := c.adminService.Inventory(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// GetLogs pages through the system log, newest first
// @Summary System log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]models.SystemLog} "Log entries; count is the total"
// @Router /admin/logs [get]
func (c *AdminController) GetLogs(ctx *gin.Context) {
	logs, total, err := c.adminService.Logs(ctx.Request.Context(), helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(logs, total))
}

// HealthCheck reports liveness and database connectivity
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health [get]
func (c *AdminController) HealthCheck(ctx *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "OK",
		Database: "connected",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := c.adminService.Health(ctx.Request.Context()); err != nil {
		c.logger.Warn().Err(err).Msg("Health check failed")
		resp.Status = "ERROR"
		resp.Database = "disconnected"
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
