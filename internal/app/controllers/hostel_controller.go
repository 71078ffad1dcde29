package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
)

// HostelController handles hostel listings and hostel bookings
type HostelController struct {
	hostelService  services.HostelService
	bookingService services.BookingService
}

// NewHostelController creates a new HostelController
func NewHostelController(hostelService services.HostelService, bookingService services.BookingService) *HostelController {
	return &HostelController{
		hostelService:  hostelService,
		bookingService: bookingService,
	}
}

// GetAllHostels lists active hostels
// @Summary List hostels
// @Description Lists active hostels, newest first
// @Tags hostels
// @Produce json
// @Param area query string false "Area"
// @Param min_price query number false "Minimum monthly price"
// @Param max_price query number false "Maximum monthly price"
// @Param available_rooms query bool false "Only hostels with free rooms"
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel} "Hostels"
// @Failure 400 {object} dto.APIResponse "Invalid price range"
// @Router /hostels [get]
func (c *HostelController) GetAllHostels(ctx *gin.Context) {
	filter, ok := propertyFilter(ctx, "available_rooms")
	if !ok {
		return
	}

	hostels, err := c.hostelService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(hostels, len(hostels)))
}

// GetHostelByID returns one hostel
// @Summary Get hostel
// @Tags hostels
// @Produce json
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse{data=models.Hostel} "Hostel"
// @Failure 404 {object} dto.APIResponse "Hostel not found"
// @Router /hostels/{id} [get]
func (c *HostelController) GetHostelByID(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	hostel, err := c.hostelService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hostel, ""))
}

// GetHostelsByArea lists active hostels in one area
// @Summary Hostels by area
// @Tags hostels
// @Produce json
// @Param area path string true "Area"
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel} "Hostels"
// @Router /hostels/area/{area} [get]
func (c *HostelController) GetHostelsByArea(ctx *gin.Context) {
	hostels, err := c.hostelService.ByArea(ctx.Request.Context(), ctx.Param("area"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(hostels, len(hostels)))
}

// SearchHostels matches a term against name, location, area and description
// @Summary Search hostels
// @Tags hostels
// @Produce json
// @Param term path string true "Search term"
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel} "Hostels"
// @Failure 400 {object} dto.APIResponse "Search query is required"
// @Router /hostels/search/{term} [get]
func (c *HostelController) SearchHostels(ctx *gin.Context) {
	filter, ok := propertyFilter(ctx, "available_rooms")
	if !ok {
		return
	}

	hostels, err := c.hostelService.Search(ctx.Request.Context(), ctx.Param("term"), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(hostels, len(hostels)))
}

// GetHostelAreas lists the distinct areas that have active hostels
// @Summary Hostel areas
// @Tags hostels
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Areas"
// @Router /hostels/areas/list [get]
func (c *HostelController) GetHostelAreas(ctx *gin.Context) {
	areas, err := c.hostelService.Areas(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(areas, len(areas)))
}

// BookHostel requests a hostel room for the authenticated student
// @Summary Book a hostel
// @Tags hostels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookingRequest true "Booking request"
// @Success 201 {object} dto.APIResponse{data=models.Booking} "Booking created"
// @Failure 400 {object} dto.APIResponse "No rooms available in this hostel"
// @Failure 403 {object} dto.APIResponse "Cannot create a booking for another student"
// @Failure 404 {object} dto.APIResponse "Hostel not found"
// @Failure 409 {object} dto.APIResponse "An active booking for this property already exists"
// @Router /hostels/book [post]
func (c *HostelController) BookHostel(ctx *gin.Context) {
	var req dto.BookingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookingService.Book(ctx.Request.Context(), actorFrom(ctx), models.PropertyTypeHostel, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(booking, "Hostel booking request submitted successfully"))
}

// AdminGetAllHostels lists every hostel including deactivated ones
// @Summary List all hostels (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel} "Hostels"
// @Router /admin/hostels [get]
func (c *HostelController) AdminGetAllHostels(ctx *gin.Context) {
	hostels, err := c.hostelService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(hostels, len(hostels)))
}

// CreateHostel adds a hostel listing
// @Summary Create hostel
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateHostelRequest true "Hostel"
// @Success 201 {object} dto.APIResponse{data=models.Hostel} "Hostel created"
// @Failure 400 {object} dto.APIResponse "Invalid hostel data"
// @Router /admin/hostels [post]
func (c *HostelController) CreateHostel(ctx *gin.Context) {
	var req dto.CreateHostelRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	hostel, err := c.hostelService.Create(ctx.Request.Context(), actorFrom(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(hostel, "Hostel created successfully"))
}

// UpdateHostel applies a partial update to a hostel
// @Summary Update hostel
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Param request body dto.UpdateHostelRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Hostel} "Hostel updated"
// @Failure 400 {object} dto.APIResponse "Invalid hostel data"
// @Failure 404 {object} dto.APIResponse "Hostel not found"
// @Router /admin/hostels/{id} [put]
func (c *HostelController) UpdateHostel(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateHostelRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	hostel, err := c.hostelService.Update(ctx.Request.Context(), actorFrom(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hostel, "Hostel updated successfully"))
}

// DeleteHostel deactivates a hostel
// @Summary Delete hostel
// @Description Soft-deletes the hostel; it stays reachable by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse "Hostel deleted"
// @Failure 404 {object} dto.APIResponse "Hostel not found"
// @Router /admin/hostels/{id} [delete]
func (c *HostelController) DeleteHostel(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.hostelService.Delete(ctx.Request.Context(), actorFrom(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Hostel deleted successfully"))
}

// UploadHostelImage replaces a hostel's image
// @Summary Upload hostel image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Param image formData file true "Image file (jpg, png, webp)"
// @Success 200 {object} dto.APIResponse{data=models.Hostel} "Image uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid or missing file"
// @Failure 404 {object} dto.APIResponse "Hostel not found"
// @Router /admin/hostels/{id}/image [post]
func (c *HostelController) UploadHostelImage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	file, ok := imageFile(ctx)
	if !ok {
		return
	}

	hostel, err := c.hostelService.UploadImage(ctx.Request.Context(), actorFrom(ctx), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hostel, "Image uploaded successfully"))
}
