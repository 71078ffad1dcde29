package models

import "strings"

// Role identifies the kind of account behind a token
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// PropertyType discriminates hostels from PGs wherever both are handled together
type PropertyType string

const (
	PropertyTypeHostel PropertyType = "hostel"
	PropertyTypePG     PropertyType = "pg"
)

// ParsePropertyType normalises user input such as "Hostel" or "PG"
func ParsePropertyType(s string) (PropertyType, bool) {
	switch PropertyType(strings.ToLower(strings.TrimSpace(s))) {
	case PropertyTypeHostel:
		return PropertyTypeHostel, true
	case PropertyTypePG:
		return PropertyTypePG, true
	default:
		return "", false
	}
}

// Valid reports whether t is a known property type
func (t PropertyType) Valid() bool {
	return t == PropertyTypeHostel || t == PropertyTypePG
}

// BookingStatus is the lifecycle state of an allotment or booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether a booking in state s may still be cancelled
func (s BookingStatus) Cancellable() bool {
	return s == StatusPending || s == StatusApproved
}

// Gender preferences accepted for PGs
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderUnisex = "Unisex"
)

// Notification types
const (
	NotificationBooking = "booking"
	NotificationSystem  = "system"
)
