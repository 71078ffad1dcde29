package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// PGController handles PG listings and PG bookings
type PGController struct {
	pgService      services.PGService
	bookingService services.BookingService
}

// NewPGController creates a new PGController
func NewPGController(pgService services.PGService, bookingService services.BookingService) *PGController {
	return &PGController{
		pgService:      pgService,
		bookingService: bookingService,
	}
}

func pgFilter(ctx *gin.Context) (models.PropertyFilter, bool) {
	filter, ok := propertyFilter(ctx, "available_spots")
	filter.Gender = helpers.QueryString(ctx, "gender")
	return filter, ok
}

// GetAllPGs lists active PGs
// @Summary List PGs
// @Description Lists active PGs, newest first
// @Tags pgs
// @Produce json
// @Param area query string false "Area"
// @Param min_price query number false "Minimum monthly price"
// @Param max_price query number false "Maximum monthly price"
// @Param gender query string false "Male, Female or Unisex"
// @Param available_spots query bool false "Only PGs with free spots"
// @Success 200 {object} dto.APIResponse{data=[]models.PG} "PGs"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Router /pgs [get]
func (c *PGController) GetAllPGs(ctx *gin.Context) {
	filter, ok := pgFilter(ctx)
	if !ok {
		return
	}

	pgs, err := c.pgService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(pgs, len(pgs)))
}

// GetPGByID returns one PG
// @Summary Get PG
// @Tags pgs
// @Produce json
// @Param id path int true "PG ID"
// @Success 200 {object} dto.APIResponse{data=models.PG} "PG"
// @Failure 404 {object} dto.APIResponse "PG not found"
// @Router /pgs/{id} [get]
func (c *PGController) GetPGByID(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	pg, err := c.pgService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(pg, ""))
}

// GetPGsByArea lists active PGs in one area
// @Summary PGs by area
// @Tags pgs
// @Produce json
// @Param area path string true "Area"
// @Success 200 {object} dto.APIResponse{data=[]models.PG} "PGs"
// @Router /pgs/area/{area} [get]
func (c *PGController) GetPGsByArea(ctx *gin.Context) {
	pgs, err := c.pgService.ByArea(ctx.Request.Context(), ctx.Param("area"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(pgs, len(pgs)))
}

// SearchPGs matches a term against name, location, area and description
// @Summary Search PGs
// @Tags pgs
// @Produce json
// @Param term path string true "Search term"
// @Success 200 {object} dto.APIResponse{data=[]models.PG} "PGs"
// @Failure 400 {object} dto.APIResponse "Search query is required"
// @Router /pgs/search/{term} [get]
func (c *PGController) SearchPGs(ctx *gin.Context) {
	filter, ok := pgFilter(ctx)
	if !ok {
		return
	}

	pgs, err := c.pgService.Search(ctx.Request.Context(), ctx.Param("term"), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(pgs, len(pgs)))
}

// GetPGAreas lists the distinct areas that have active PGs
// @Summary PG areas
// @Tags pgs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Areas"
// @Router /pgs/areas/list [get]
func (c *PGController) GetPGAreas(ctx *gin.Context) {
	areas, err := c.pgService.Areas(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(areas, len(areas)))
}

// GetPGGenders lists the gender preferences offered by active PGs
// @Summary PG gender preferences
// @Tags pgs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string} "Gender preferences"
// @Router /pgs/genders/list [get]
func (c *PGController) GetPGGenders(ctx *gin.Context) {
	genders, err := c.pgService.Genders(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(genders, len(genders)))
}

// BookPG requests a PG spot for the authenticated student
// @Summary Book a PG
// @Tags pgs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookingRequest true "Booking request"
// @Success 201 {object} dto.APIResponse{data=models.Booking} "Booking created"
// @Failure 400 {object} dto.APIResponse "No spots available in this PG"
// @Failure 403 {object} dto.APIResponse "Cannot create a booking for another student"
// @Failure 404 {object} dto.APIResponse "PG not found"
// @Failure 409 {object} dto.APIResponse "An active booking for this property already exists"
// @Router /pgs/book [post]
func (c *PGController) BookPG(ctx *gin.Context) {
	var req dto.BookingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookingService.Book(ctx.Request.Context(), actorFrom(ctx), models.PropertyTypePG, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(booking, "PG booking request submitted successfully"))
}

// AdminGetAllPGs lists every PG including deactivated ones
// @Summary List all PGs (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PG} "PGs"
// @Router /admin/pgs [get]
func (c *PGController) AdminGetAllPGs(ctx *gin.Context) {
	pgs, err := c.pgService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(pgs, len(pgs)))
}

// CreatePG adds a PG listing
// @Summary Create PG
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePGRequest true "PG"
// @Success 201 {object} dto.APIResponse{data=models.PG} "PG created"
// @Failure 400 {object} dto.APIResponse "Invalid PG data"
// @Router /admin/pgs [post]
func (c *PGController) CreatePG(ctx *gin.Context) {
	var req dto.CreatePGRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	pg, err := c.pgService.Create(ctx.Request.Context(), actorFrom(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(pg, "PG created successfully"))
}

// UpdatePG applies a partial update to a PG
// @Summary Update PG
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "PG ID"
// @Param request body dto.UpdatePGRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.PG} "PG updated"
// @Failure 400 {object} dto.APIResponse "Invalid PG data"
// @Failure 404 {object} dto.APIResponse "PG not found"
// @Router /admin/pgs/{id} [put]
func (c *PGController) UpdatePG(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePGRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	pg, err := c.pgService.Update(ctx.Request.Context(), actorFrom(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(pg, "PG updated successfully"))
}

// DeletePG deactivates a PG
// @Summary Delete PG
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "PG ID"
// @Success 200 {object} dto.APIResponse "PG deleted"
// @Failure 404 {object} dto.APIResponse "PG not found"
// @Router /admin/pgs/{id} [delete]
func (c *PGController) DeletePG(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.pgService.Delete(ctx.Request.Context(), actorFrom(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "PG deleted successfully"))
}

// UploadPGImage replaces a PG's image
// @Summary Upload PG image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "PG ID"
// @Param image formData file true "Image file (jpg, png, webp)"
// @Success 200 {object} dto.APIResponse{data=models.PG} "Image uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid or missing file"
// @Failure 404 {object} dto.APIResponse "PG not found"
// @Router /admin/pgs/{id}/image [post]
func (c *PGController) UploadPGImage(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	file, ok := imageFile(ctx)
	if !ok {
		return
	}

	pg, err := c.pgService.UploadImage(ctx.Request.Context(), actorFrom(ctx), id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(pg, "Image uploaded successfully"))
}
