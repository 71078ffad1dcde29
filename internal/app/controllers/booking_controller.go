package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// BookingController handles the booking lifecycle. Hostel bookings are
// exposed to staff as allotments.
type BookingController struct {
	bookingService services.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(bookingService services.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

type decideFunc func(ctx context.Context, actor services.Actor, pt models.PropertyType, id int64, d models.Decision) (*models.Booking, error)

// bookingFilter reads ?status plus the page window
func bookingFilter(ctx *gin.Context) models.BookingFilter {
	page := helpers.ParsePageParams(ctx)
	f := models.BookingFilter{Limit: page.Limit, Offset: page.Offset}
	if status := helpers.QueryString(ctx, "status"); status != nil {
		s := models.BookingStatus(*status)
		f.Status = &s
	}
	return f
}

// CreateBooking books either property type; the type comes from the body
// @Summary Create a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookingRequest true "Booking request with property_type"
// @Success 201 {object} dto.APIResponse{data=models.Booking} "Booking created"
// @Failure 400 {object} dto.APIResponse "Invalid request or no availability"
// @Failure 404 {object} dto.APIResponse "Property not found"
// @Failure 409 {object} dto.APIResponse "An active booking for this property already exists"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(ctx *gin.Context) {
	var req dto.BookingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookingService.Book(ctx.Request.Context(), actorFrom(ctx), "", &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(booking, "Booking request submitted successfully"))
}

// GetMyBookings lists the authenticated student's bookings of both types
// @Summary My bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Booking} "Bookings"
// @Router /bookings/my [get]
func (c *BookingController) GetMyBookings(ctx *gin.Context) {
	bookings, err := c.bookingService.MyBookings(ctx.Request.Context(), actorFrom(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(bookings, len(bookings)))
}

// CancelMyBooking cancels one of the authenticated student's bookings
// @Summary Cancel my booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "hostel or pg"
// @Param id path int true "Booking ID"
// @Param request body dto.DecisionRequest false "Cancellation reason"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Booking cancelled"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Failure 409 {object} dto.APIResponse "Booking already processed"
// @Router /bookings/{type}/{id}/cancel [put]
func (c *BookingController) CancelMyBooking(ctx *gin.Context) {
	pt, ok := propertyType(ctx, ctx.Param("type"))
	if !ok {
		return
	}
	c.cancel(ctx, pt)
}

// GetAllotments lists hostel bookings
// @Summary List allotments
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or cancelled"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]models.Booking} "Allotments; count is the total match count"
// @Router /admin/allotments [get]
func (c *BookingController) GetAllotments(ctx *gin.Context) {
	f := bookingFilter(ctx)
	hostel := models.PropertyTypeHostel
	f.PropertyType = &hostel
	c.list(ctx, f)
}

// GetAllotment returns one hostel booking
// @Summary Get allotment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Allotment ID"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Allotment"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Router /admin/allotments/{id} [get]
func (c *BookingController) GetAllotment(ctx *gin.Context) {
	c.get(ctx, models.PropertyTypeHostel)
}

// ApproveAllotment approves a pending hostel booking
// @Summary Approve allotment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Allotment ID"
// @Param request body dto.DecisionRequest false "Notes and assigned room"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Allotment approved"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Failure 409 {object} dto.APIResponse "Booking already processed or no availability left"
// @Router /admin/allotments/{id}/approve [put]
func (c *BookingController) ApproveAllotment(ctx *gin.Context) {
	c.decide(ctx, models.PropertyTypeHostel, c.bookingService.Approve, "Allotment approved successfully")
}

// RejectAllotment rejects a pending hostel booking
// @Summary Reject allotment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Allotment ID"
// @Param request body dto.DecisionRequest false "Reason"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Allotment rejected"
// @Failure 404 {object} dto.APIResponse "Booking not found in pending state"
// @Router /admin/allotments/{id}/reject [put]
func (c *BookingController) RejectAllotment(ctx *gin.Context) {
	c.decide(ctx, models.PropertyTypeHostel, c.bookingService.Reject, "Allotment rejected successfully")
}

// CancelAllotment cancels a pending or approved hostel booking
// @Summary Cancel allotment
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Allotment ID"
// @Param request body dto.DecisionRequest false "Reason"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Allotment cancelled"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Failure 409 {object} dto.APIResponse "Booking already processed"
// @Router /admin/allotments/{id}/cancel [put]
func (c *BookingController) CancelAllotment(ctx *gin.Context) {
	c.cancel(ctx, models.PropertyTypeHostel)
}

// GetAllotmentStats counts hostel bookings by status
// @Summary Allotment statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.BookingStats} "Statistics"
// @Router /admin/allotments/stats/overview [get]
func (c *BookingController) GetAllotmentStats(ctx *gin.Context) {
	c.stats(ctx, models.PropertyTypeHostel)
}

// GetBookings lists bookings of one type, or of both when type is omitted
// @Summary List bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param type query string false "hostel or pg; both when omitted"
// @Param status query string false "pending, approved, rejected or cancelled"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]models.Booking} "Bookings; count is the total match count"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Router /admin/bookings [get]
func (c *BookingController) GetBookings(ctx *gin.Context) {
	f := bookingFilter(ctx)
	if raw := ctx.Query("type"); raw != "" {
		pt, ok := propertyType(ctx, raw)
		if !ok {
			return
		}
		f.PropertyType = &pt
	}
	c.list(ctx, f)
}

// GetBooking returns one booking
// @Summary Get booking
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param type query string false "hostel or pg (default pg)"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Booking"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Router /admin/bookings/{id} [get]
func (c *BookingController) GetBooking(ctx *gin.Context) {
	pt, ok := bookingType(ctx)
	if !ok {
		return
	}
	c.get(ctx, pt)
}

// ApproveBooking approves a pending booking
// @Summary Approve booking
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param type query string false "hostel or pg (default pg)"
// @Param request body dto.DecisionRequest false "Notes"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Booking approved"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Failure 409 {object} dto.APIResponse "Booking already processed or no availability left"
// @Router /admin/bookings/{id}/approve [put]
func (c *BookingController) ApproveBooking(ctx *gin.Context) {
	pt, ok := bookingType(ctx)
	if !ok {
		return
	}
	c.decide(ctx, pt, c.bookingService.Approve, "Booking approved successfully")
}

// RejectBooking rejects a pending booking
// @Summary Reject booking
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param type query string false "hostel or pg (default pg)"
// @Param request body dto.DecisionRequest false "Reason"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Booking rejected"
// @Failure 404 {object} dto.APIResponse "Booking not found in pending state"
// @Router /admin/bookings/{id}/reject [put]
func (c *BookingController) RejectBooking(ctx *gin.Context) {
	pt, ok := bookingType(ctx)
	if !ok {
		return
	}
	c.decide(ctx, pt, c.bookingService.Reject, "Booking rejected successfully")
}

// CancelBooking cancels a pending or approved booking
// @Summary Cancel booking
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param type query string false "hostel or pg (default pg)"
// @Param request body dto.DecisionRequest false "Reason"
// @Success 200 {object} dto.APIResponse{data=models.Booking} "Booking cancelled"
// @Failure 404 {object} dto.APIResponse "Booking not found"
// @Failure 409 {object} dto.APIResponse "Booking already processed"
// @Router /admin/bookings/{id}/cancel [put]
func (c *BookingController) CancelBooking(ctx *gin.Context) {
	pt, ok := bookingType(ctx)
	if !ok {
		return
	}
	c.cancel(ctx, pt)
}

// GetBookingStats counts bookings of one type by status
// @Summary Booking statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param type query string false "hostel or pg (default pg)"
// @Success 200 {object} dto.APIResponse{data=models.BookingStats} "Statistics"
// @Router /admin/bookings/stats/overview [get]
func (c *BookingController) GetBookingStats(ctx *gin.Context) {
	pt, ok := bookingType(ctx)
	if !ok {
		return
	}
	c.stats(ctx, pt)
}

// ExportBookings downloads the matching bookings as a spreadsheet
// @Summary Export bookings
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type query string false "hostel or pg; both when omitted"
// @Param status query string false "pending, approved, rejected or cancelled"
// @Success 200 {file} file "bookings.xlsx"
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Router /admin/export/bookings.xlsx [get]
func (c *BookingController) ExportBookings(ctx *gin.Context) {
	f := bookingFilter(ctx)
	if raw := ctx.Query("type"); raw != "" {
		pt, ok := propertyType(ctx, raw)
		if !ok {
			return
		}
		f.PropertyType = &pt
	}

	data, err := c.bookingService.Export(ctx.Request.Context(), f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendWorkbook(ctx, "bookings.xlsx", data)
}

func (c *BookingController) list(ctx *gin.Context, f models.BookingFilter) {
	bookings, total, err := c.bookingService.List(ctx.Request.Context(), f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewListResponse(bookings, total))
}

func (c *BookingController) get(ctx *gin.Context, pt models.PropertyType) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingService.Get(ctx.Request.Context(), actorFrom(ctx), pt, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(booking, ""))
}

func (c *BookingController) decide(ctx *gin.Context, pt models.PropertyType, decide decideFunc, message string) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	booking, err := decide(ctx.Request.Context(), actorFrom(ctx), pt, id, req.ToDecision())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(booking, message))
}

func (c *BookingController) cancel(ctx *gin.Context, pt models.PropertyType) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}

	booking, err := c.bookingService.Cancel(ctx.Request.Context(), actorFrom(ctx), pt, id, req.ToDecision().Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(booking, "Booking cancelled successfully"))
}

func (c *BookingController) stats(ctx *gin.Context, pt models.PropertyType) {
	stats, err := c.bookingService.Stats(ctx.Request.Context(), pt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}
