// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	"github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/middleware"
	"github.com/yigit/hostelpg/internal/pkg/export"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
)

// actorFrom builds the service actor from the verified token on the request
func actorFrom(ctx *gin.Context) services.Actor {
	claims, _ := middleware.GetClaims(ctx)
	return services.ActorFromClaims(claims, ctx.ClientIP())
}

// idParam reads a positive id path parameter and answers 400 when it is malformed
func idParam(ctx *gin.Context, name string) (int64, bool) {
	id, ok := helpers.ParseIDParam(ctx, name)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID format").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// propertyType parses a hostel/pg value and answers 400 when it is neither
func propertyType(ctx *gin.Context, value string) (models.PropertyType, bool) {
	pt, ok := models.ParsePropertyType(value)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Property type must be 'hostel' or 'pg'").
			WithField("type")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return "", false
	}
	return pt, true
}

// bookingType reads ?type= for the admin booking routes, defaulting to pg
func bookingType(ctx *gin.Context) (models.PropertyType, bool) {
	return propertyType(ctx, ctx.DefaultQuery("type", string(models.PropertyTypePG)))
}

// invalidQuery answers 400 naming the malformed query parameter
func invalidQuery(ctx *gin.Context, key string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid value for "+key).
		WithField(key)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// queryFloat reads an optional number and answers 400 when it is malformed
func queryFloat(ctx *gin.Context, key string) (*float64, bool) {
	v, ok := helpers.QueryFloat(ctx, key)
	if !ok {
		invalidQuery(ctx, key)
	}
	return v, ok
}

// queryBool reads an optional boolean and answers 400 when it is malformed
func queryBool(ctx *gin.Context, key string) (*bool, bool) {
	v, ok := helpers.QueryBool(ctx, key)
	if !ok {
		invalidQuery(ctx, key)
	}
	return v, ok
}

// propertyFilter reads the listing filters shared by hostels and PGs.
// availableKey is available_rooms for hostels and available_spots for PGs.
func propertyFilter(ctx *gin.Context, availableKey string) (models.PropertyFilter, bool) {
	filter := models.PropertyFilter{Area: helpers.QueryString(ctx, "area")}

	var ok bool
	if filter.MinPrice, ok = queryFloat(ctx, "min_price"); !ok {
		return filter, false
	}
	if filter.MaxPrice, ok = queryFloat(ctx, "max_price"); !ok {
		return filter, false
	}
	available, ok := queryBool(ctx, availableKey)
	if !ok {
		return filter, false
	}
	if available != nil {
		filter.AvailableOnly = *available
	}
	return filter, true
}

// imageFile reads the "image" multipart field
func imageFile(ctx *gin.Context) (*multipart.FileHeader, bool) {
	file, err := ctx.FormFile("image")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").
			WithField("image")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return file, true
}

// sendWorkbook streams an xlsx attachment
func sendWorkbook(ctx *gin.Context, filename string, data []byte) {
	ctx.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(filename, `"`, "")+`"`)
	ctx.Data(http.StatusOK, export.ContentType, data)
}
