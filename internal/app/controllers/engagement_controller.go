package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
)

// EngagementController handles reviews, favorites and notifications
type EngagementController struct {
	reviewService       services.ReviewService
	favoriteService     services.FavoriteService
	notificationService services.NotificationService
}

// NewEngagementController creates a new EngagementController
func NewEngagementController(
	reviewService services.ReviewService,
	favoriteService services.FavoriteService,
	notificationService services.NotificationService,
) *EngagementController {
	return &EngagementController{
		reviewService:       reviewService,
		favoriteService:     favoriteService,
		notificationService: notificationService,
	}
}

// SubmitReview creates or replaces the caller's review of a property
// @Summary Submit review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReviewRequest true "Review"
// @Success 200 {object} dto.APIResponse{data=models.Review} "Review saved"
// @Failure 400 {object} dto.APIResponse "Invalid review"
// @Failure 404 {object} dto.APIResponse "Property not found"
// @Router /reviews [post]
func (c *EngagementController) SubmitReview(ctx *gin.Context) {
	var req dto.ReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	review, err := c.reviewService.Submit(ctx.Request.Context(), actorFrom(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(review, "Review saved successfully"))
}

// GetPropertyReviews lists a property's reviews with the average rating
// @Summary Property reviews
// @Tags reviews
// @Produce json
// @Param type path string true "hostel or pg"
// @Param id path int true "Property ID"
// @Success 200 {object} dto.APIResponse{data=models.ReviewSummary} "Reviews"
// @Router /reviews/{type}/{id} [get]
func (c *EngagementController) GetPropertyReviews(ctx *gin.Context) {
	pt, ok := propertyType(ctx, ctx.Param("type"))
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	summary, err := c.reviewService.ForProperty(ctx.Request.Context(), pt, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}

// DeleteReview removes one of the caller's reviews
// @Summary Delete review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} dto.APIResponse "Review deleted"
// @Failure 404 {object} dto.APIResponse "Review not found"
// @Router /reviews/{id} [delete]
func (c *EngagementController) DeleteReview(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.reviewService.Delete(ctx.Request.Context(), actorFrom(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Review deleted successfully"))
}

// GetFavorites lists the caller's bookmarked properties
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Favorite} "Favorites"
// @Router /favorites [get]
func (c *EngagementController) GetFavorites(ctx *gin.Context) {
	favorites, err := c.favoriteService.List(ctx.Request.Context(), actorFrom(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(favorites, len(favorites)))
}

// AddFavorite bookmarks a property
// @Summary Add favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FavoriteRequest true "Property"
// @Success 201 {object} dto.APIResponse{data=models.Favorite} "Favorite added"
// @Failure 404 {object} dto.APIResponse "Property not found"
// @Failure 409 {object} dto.APIResponse "Property already in favorites"
// @Router /favorites [post]
func (c *EngagementController) AddFavorite(ctx *gin.Context) {
	var req dto.FavoriteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	favorite, err := c.favoriteService.Add(ctx.Request.Context(), actorFrom(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(favorite, "Added to favorites"))
}

// RemoveFavorite drops a bookmark
// @Summary Remove favorite
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param type path string true "hostel or pg"
// @Param id path int true "Property ID"
// @Success 200 {object} dto.APIResponse "Favorite removed"
// @Failure 404 {object} dto.APIResponse "Favorite not found"
// @Router /favorites/{type}/{id} [delete]
func (c *EngagementController) RemoveFavorite(ctx *gin.Context) {
	pt, ok := propertyType(ctx, ctx.Param("type"))
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.favoriteService.Remove(ctx.Request.Context(), actorFrom(ctx), pt, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Removed from favorites"))
}

// GetNotifications lists the caller's notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification} "Notifications"
// @Router /notifications [get]
func (c *EngagementController) GetNotifications(ctx *gin.Context) {
	unread, ok := queryBool(ctx, "unread")
	if !ok {
		return
	}
	unreadOnly := unread != nil && *unread

	notifications, err := c.notificationService.List(ctx.Request.Context(), actorFrom(ctx), unreadOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(notifications, len(notifications)))
}

// MarkNotificationRead marks one notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Notification marked as read"
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Router /notifications/{id}/read [put]
func (c *EngagementController) MarkNotificationRead(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), actorFrom(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notification marked as read"))
}

// MarkAllNotificationsRead marks every notification of the caller as read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Number of notifications updated"
// @Router /notifications/read-all [put]
func (c *EngagementController) MarkAllNotificationsRead(ctx *gin.Context) {
	updated, err := c.notificationService.MarkAllRead(ctx.Request.Context(), actorFrom(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"updated": updated}, "Notifications marked as read"))
}
