package models

import "time"

// Hostel is a multi-occupant lodging tracked by rooms
type Hostel struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	Name           string    `json:"name" db:"name" example:"University Hostel A"`
	OwnerName      string    `json:"owner_name" db:"owner_name"`
	OwnerPhone     string    `json:"owner_phone" db:"owner_phone"`
	Location       string    `json:"location" db:"location" example:"Near University Gate"`
	Area           string    `json:"area" db:"area" example:"Campus"`
	TotalRooms     int       `json:"total_rooms" db:"total_rooms" example:"50"`
	AvailableRooms int       `json:"available_rooms" db:"available_rooms" example:"15"`
	PricePerMonth  float64   `json:"price_per_month" db:"price_per_month" example:"5000"`
	Amenities      string    `json:"amenities" db:"amenities" example:"WiFi, Laundry, Mess"`
	ContactNumber  string    `json:"contact_number" db:"contact_number"`
	Description    string    `json:"description" db:"description"`
	ImageURL       string    `json:"image_url" db:"image_url"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PG is a paying-guest residence tracked by spots
type PG struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Name             string    `json:"name" db:"name" example:"Sunshine PG"`
	OwnerName        string    `json:"owner_name" db:"owner_name"`
	OwnerPhone       string    `json:"owner_phone" db:"owner_phone"`
	Location         string    `json:"location" db:"location"`
	Area             string    `json:"area" db:"area" example:"Phase 1"`
	TotalSpots       int       `json:"total_spots" db:"total_spots" example:"15"`
	AvailableSpots   int       `json:"available_spots" db:"available_spots" example:"5"`
	PricePerMonth    float64   `json:"price_per_month" db:"price_per_month" example:"3500"`
	GenderPreference string    `json:"gender_preference" db:"gender_preference" example:"Unisex"`
	Amenities        string    `json:"amenities" db:"amenities"`
	ContactNumber    string    `json:"contact_number" db:"contact_number"`
	Description      string    `json:"description" db:"description"`
	ImageURL         string    `json:"image_url" db:"image_url"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// PropertyFilter holds the optional list filters. Nil fields are ignored.
type PropertyFilter struct {
	Area          *string
	MinPrice      *float64
	MaxPrice      *float64
	Gender        *string // PGs only
	AvailableOnly bool
}
