package models

import "time"

// Booking is a hostel allotment or a PG booking. PropertyType says which table it lives in.
type Booking struct {
	ID                  int64         `json:"id" example:"1"`
	PropertyType        PropertyType  `json:"property_type" example:"hostel"`
	PropertyID          int64         `json:"property_id" example:"3"`
	StudentID           string        `json:"student_id" example:"2024001"`
	RoomType            string        `json:"room_type"`
	Duration            string        `json:"duration" example:"6 months"`
	MoveInDate          *time.Time    `json:"move_in_date,omitempty"`
	SpecialRequirements string        `json:"special_requirements"`
	EmergencyContact    string        `json:"emergency_contact"`
	Status              BookingStatus `json:"status" example:"pending"`
	AdminNotes          string        `json:"admin_notes"`
	AssignedRoom        string        `json:"assigned_room,omitempty"`
	AllotmentDate       *time.Time    `json:"allotment_date,omitempty"`
	CheckInDate         *time.Time    `json:"check_in_date,omitempty"`
	CheckOutDate        *time.Time    `json:"check_out_date,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`

	// Joined for list views
	PropertyName string `json:"property_name,omitempty"`
	Area         string `json:"area,omitempty"`
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
}

// BookingFilter narrows admin booking lists
type BookingFilter struct {
	PropertyType *PropertyType // nil lists both tables
	Status       *BookingStatus
	StudentID    *string
	Limit        uint64
	Offset       uint64
}

// Decision carries the admin input for approve and reject
type Decision struct {
	Notes        string
	AssignedRoom string
}
