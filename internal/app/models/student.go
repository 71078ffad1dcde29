package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64      `json:"id" db:"id" example:"1"`
	StudentID        string     `json:"student_id" db:"student_id" example:"2024001"` // external identifier used by bookings
	Name             string     `json:"name" db:"name" example:"Demo Student"`
	Email            string     `json:"email" db:"email" example:"student@example.com"`
	Phone            string     `json:"phone" db:"phone" example:"9876543210"`
	Course           string     `json:"course" db:"course" example:"Computer Science"`
	AcademicYear     string     `json:"academic_year" db:"academic_year" example:"2024"`
	Gender           string     `json:"gender" db:"gender" example:"Female"`
	University       string     `json:"university" db:"university"`
	Address          string     `json:"address" db:"address"`
	EmergencyContact string     `json:"emergency_contact" db:"emergency_contact"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	IsVerified       bool       `json:"is_verified" db:"is_verified"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// StudentFilter narrows the admin student list
type StudentFilter struct {
	Search       *string
	Course       *string
	AcademicYear *string
	Verified     *bool
	Active       *bool
	Limit        uint64
	Offset       uint64
}

// StudentActivity groups everything a student has done, for the admin detail view
type StudentActivity struct {
	Student    *Student  `json:"student"`
	Allotments []Booking `json:"allotments"`
	PGBookings []Booking `json:"pg_bookings"`
	Reviews    []Review  `json:"reviews"`
}
