package dto

import (
	"time"

	"github.com/yigit/hostelpg/internal/app/models"
)

// RegisterRequest represents a student registration
type RegisterRequest struct {
	StudentID        string `json:"student_id" binding:"required,studentid" example:"2024017"`
	Name             string `json:"name" binding:"required,min=2,max=100" example:"Asha Verma"`
	Email            string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password         string `json:"password" binding:"required,min=6" example:"secret123"`
	Phone            string `json:"phone" binding:"omitempty,phone" example:"9876543210"`
	Course           string `json:"course" binding:"omitempty,max=50" example:"B.Tech CSE"`
	AcademicYear     string `json:"academic_year" binding:"omitempty,max=10" example:"2"`
	Gender           string `json:"gender" binding:"omitempty,max=10" example:"Female"`
	University       string `json:"university" binding:"omitempty,max=100"`
	Address          string `json:"address" binding:"omitempty,max=255"`
	EmergencyContact string `json:"emergency_contact" binding:"omitempty,max=100"`
}

// ToModel converts the request into a Student without a password hash
func (r *RegisterRequest) ToModel() *models.Student {
	return &models.Student{
		StudentID:        r.StudentID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Course:           r.Course,
		AcademicYear:     r.AcademicYear,
		Gender:           r.Gender,
		University:       r.University,
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
		IsActive:         true,
	}
}

// LoginRequest represents student credentials
type LoginRequest struct {
	StudentID string `json:"student_id" binding:"required" example:"2024001"`
	Password  string `json:"password" binding:"required" example:"student123"`
}

// AdminLoginRequest accepts either the username or the email
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone            *string `json:"phone" binding:"omitempty,phone"`
	Course           *string `json:"course" binding:"omitempty,max=50"`
	AcademicYear     *string `json:"academic_year" binding:"omitempty,max=10"`
	Gender           *string `json:"gender" binding:"omitempty,max=10"`
	University       *string `json:"university" binding:"omitempty,max=100"`
	Address          *string `json:"address" binding:"omitempty,max=255"`
	EmergencyContact *string `json:"emergency_contact" binding:"omitempty,max=100"`
}

// Fields returns the column updates carried by the request
func (r *UpdateProfileRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setIf(fields, "name", r.Name)
	setIf(fields, "phone", r.Phone)
	setIf(fields, "course", r.Course)
	setIf(fields, "academic_year", r.AcademicYear)
	setIf(fields, "gender", r.Gender)
	setIf(fields, "university", r.University)
	setIf(fields, "address", r.Address)
	setIf(fields, "emergency_contact", r.EmergencyContact)
	return fields
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User      *models.Student `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// AdminSummary is the public part of an admin account
type AdminSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AdminAuthResponse is returned by the admin login
type AdminAuthResponse struct {
	Admin     AdminSummary `json:"admin"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAdminSummary strips the credentials from an admin
func NewAdminSummary(a *models.Admin) AdminSummary {
	return AdminSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
		Role:     a.Role,
	}
}

func setIf[T any](fields map[string]interface{}, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}
