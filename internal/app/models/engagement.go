package models

import "time"

// Review is a student's rating of a property. One per student and property.
type Review struct {
	ID           int64        `json:"id"`
	StudentID    string       `json:"student_id"`
	PropertyID   int64        `json:"property_id"`
	PropertyType PropertyType `json:"property_type"`
	Rating       int          `json:"rating" example:"4"`
	Comment      string       `json:"comment"`
	StudentName  string       `json:"student_name,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ReviewSummary is the public review list of one property
type ReviewSummary struct {
	PropertyID    int64        `json:"property_id"`
	PropertyType  PropertyType `json:"property_type"`
	AverageRating float64      `json:"average_rating"`
	Count         int          `json:"count"`
	Reviews       []Review     `json:"reviews"`
}

// Favorite is a student's bookmark on a property
type Favorite struct {
	ID           int64        `json:"id"`
	StudentID    string       `json:"student_id"`
	PropertyID   int64        `json:"property_id"`
	PropertyType PropertyType `json:"property_type"`
	PropertyName string       `json:"property_name,omitempty"`
	Area         string       `json:"area,omitempty"`
	Price        float64      `json:"price_per_month,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Notification is an in-app message to a student
type Notification struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// SystemLog records logins, registrations and admin actions
type SystemLog struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	UserType  string    `json:"user_type"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
