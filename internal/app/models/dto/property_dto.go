package dto

import "github.com/yigit/hostelpg/internal/app/models"

// CreateHostelRequest represents a new hostel listing
type CreateHostelRequest struct {
	Name           string  `json:"name" binding:"required,max=100" example:"University Hostel A"`
	OwnerName      string  `json:"owner_name" binding:"omitempty,max=100"`
	OwnerPhone     string  `json:"owner_phone" binding:"omitempty,phone"`
	Location       string  `json:"location" binding:"required,max=200" example:"Near University Gate"`
	Area           string  `json:"area" binding:"required,max=50" example:"Campus"`
	TotalRooms     int     `json:"total_rooms" binding:"gte=0" example:"50"`
	AvailableRooms *int    `json:"available_rooms" binding:"omitempty,gte=0" example:"50"`
	PricePerMonth  float64 `json:"price_per_month" binding:"gte=0" example:"5000"`
	Amenities      string  `json:"amenities"`
	ContactNumber  string  `json:"contact_number" binding:"omitempty,phone"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url" binding:"omitempty,max=255"`
}

// ToModel converts the request. Missing availability defaults to the total.
func (r *CreateHostelRequest) ToModel() *models.Hostel {
	available := r.TotalRooms
	if r.AvailableRooms != nil {
		available = *r.AvailableRooms
	}
	return &models.Hostel{
		Name:           r.Name,
		OwnerName:      r.OwnerName,
		OwnerPhone:     r.OwnerPhone,
		Location:       r.Location,
		Area:           r.Area,
		TotalRooms:     r.TotalRooms,
		AvailableRooms: available,
		PricePerMonth:  r.PricePerMonth,
		Amenities:      r.Amenities,
		ContactNumber:  r.ContactNumber,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		IsActive:       true,
	}
}

// UpdateHostelRequest is a partial hostel update
type UpdateHostelRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=100"`
	OwnerName      *string  `json:"owner_name" binding:"omitempty,max=100"`
	OwnerPhone     *string  `json:"owner_phone" binding:"omitempty,phone"`
	Location       *string  `json:"location" binding:"omitempty,max=200"`
	Area           *string  `json:"area" binding:"omitempty,max=50"`
	TotalRooms     *int     `json:"total_rooms" binding:"omitempty,gte=0"`
	AvailableRooms *int     `json:"available_rooms" binding:"omitempty,gte=0"`
	PricePerMonth  *float64 `json:"price_per_month" binding:"omitempty,gte=0"`
	Amenities      *string  `json:"amenities"`
	ContactNumber  *string  `json:"contact_number" binding:"omitempty,phone"`
	Description    *string  `json:"description"`
	ImageURL       *string  `json:"image_url" binding:"omitempty,max=255"`
	IsActive       *bool    `json:"is_active"`
}

// Fields returns the column updates carried by the request
func (r *UpdateHostelRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setIf(fields, "name", r.Name)
	setIf(fields, "owner_name", r.OwnerName)
	setIf(fields, "owner_phone", r.OwnerPhone)
	setIf(fields, "location", r.Location)
	setIf(fields, "area", r.Area)
	setIf(fields, "total_rooms", r.TotalRooms)
	setIf(fields, "available_rooms", r.AvailableRooms)
	setIf(fields, "price_per_month", r.PricePerMonth)
	setIf(fields, "amenities", r.Amenities)
	setIf(fields, "contact_number", r.ContactNumber)
	setIf(fields, "description", r.Description)
	setIf(fields, "image_url", r.ImageURL)
	setIf(fields, "is_active", r.IsActive)
	return fields
}

// CreatePGRequest represents a new PG listing
type CreatePGRequest struct {
	Name             string  `json:"name" binding:"required,max=100" example:"Sunshine PG"`
	OwnerName        string  `json:"owner_name" binding:"omitempty,max=100"`
	OwnerPhone       string  `json:"owner_phone" binding:"omitempty,phone"`
	Location         string  `json:"location" binding:"required,max=200"`
	Area             string  `json:"area" binding:"required,max=50" example:"Phase 1"`
	TotalSpots       int     `json:"total_spots" binding:"gte=0" example:"15"`
	AvailableSpots   *int    `json:"available_spots" binding:"omitempty,gte=0" example:"15"`
	PricePerMonth    float64 `json:"price_per_month" binding:"gte=0" example:"3500"`
	GenderPreference string  `json:"gender_preference" binding:"omitempty,gender" example:"Unisex"`
	Amenities        string  `json:"amenities"`
	ContactNumber    string  `json:"contact_number" binding:"omitempty,phone"`
	Description      string  `json:"description"`
	ImageURL         string  `json:"image_url" binding:"omitempty,max=255"`
}

// ToModel converts the request. Missing availability defaults to the total.
func (r *CreatePGRequest) ToModel() *models.PG {
	available := r.TotalSpots
	if r.AvailableSpots != nil {
		available = *r.AvailableSpots
	}
	return &models.PG{
		Name:             r.Name,
		OwnerName:        r.OwnerName,
		OwnerPhone:       r.OwnerPhone,
		Location:         r.Location,
		Area:             r.Area,
		TotalSpots:       r.TotalSpots,
		AvailableSpots:   available,
		PricePerMonth:    r.PricePerMonth,
		GenderPreference: r.GenderPreference,
		Amenities:        r.Amenities,
		ContactNumber:    r.ContactNumber,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		IsActive:         true,
	}
}

// UpdatePGRequest is a partial PG update
type UpdatePGRequest struct {
	Name             *string  `json:"name" binding:"omitempty,max=100"`
	OwnerName        *string  `json:"owner_name" binding:"omitempty,max=100"`
	OwnerPhone       *string  `json:"owner_phone" binding:"omitempty,phone"`
	Location         *string  `json:"location" binding:"omitempty,max=200"`
	Area             *string  `json:"area" binding:"omitempty,max=50"`
	TotalSpots       *int     `json:"total_spots" binding:"omitempty,gte=0"`
	AvailableSpots   *int     `json:"available_spots" binding:"omitempty,gte=0"`
	PricePerMonth    *float64 `json:"price_per_month" binding:"omitempty,gte=0"`
	GenderPreference *string  `json:"gender_preference" binding:"omitempty,gender"`
	Amenities        *string  `json:"amenities"`
	ContactNumber    *string  `json:"contact_number" binding:"omitempty,phone"`
	Description      *string  `json:"description"`
	ImageURL         *string  `json:"image_url" binding:"omitempty,max=255"`
	IsActive         *bool    `json:"is_active"`
}

// Fields returns the column updates carried by the request
func (r *UpdatePGRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setIf(fields, "name", r.Name)
	setIf(fields, "owner_name", r.OwnerName)
	setIf(fields, "owner_phone", r.OwnerPhone)
	setIf(fields, "location", r.Location)
	setIf(fields, "area", r.Area)
	setIf(fields, "total_spots", r.TotalSpots)
	setIf(fields, "available_spots", r.AvailableSpots)
	setIf(fields, "price_per_month", r.PricePerMonth)
	setIf(fields, "gender_preference", r.GenderPreference)
	setIf(fields, "amenities", r.Amenities)
	setIf(fields, "contact_number", r.ContactNumber)
	setIf(fields, "description", r.Description)
	setIf(fields, "image_url", r.ImageURL)
	setIf(fields, "is_active", r.IsActive)
	return fields
}
