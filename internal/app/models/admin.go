package models

import "time"

// Admin defines the staff account model based on the 'admins' table
type Admin struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Username     string     `json:"username" db:"username" example:"admin"`
	Email        string     `json:"email" db:"email" example:"admin@hostelpg.com"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name" example:"System Administrator"`
	Role         string     `json:"role" db:"role" example:"admin"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
