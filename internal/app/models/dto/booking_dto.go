package dto

import "github.com/yigit/hostelpg/internal/app/models"

// BookingRequest is the structured booking form for hostels and PGs.
// The student comes from the token; StudentID, when sent, must match it.
type BookingRequest struct {
	StudentID        string `json:"student_id" binding:"omitempty,studentid" example:"2024001"`
	PropertyType     string `json:"property_type" binding:"omitempty,propertytype" example:"hostel"`
	PropertyID       int64  `json:"property_id" binding:"required,min=1" example:"3"`
	RoomType         string `json:"room_type" binding:"omitempty,max=50" example:"Double sharing"`
	Duration         string `json:"duration" binding:"omitempty,max=50" example:"6 months"`
	MoveInDate       string `json:"move_in_date" binding:"omitempty,datetime=2006-01-02" example:"2025-07-01"`
	SpecialRequests  string `json:"special_requests" binding:"omitempty,max=1000"`
	EmergencyContact string `json:"emergency_contact" binding:"omitempty,max=100"`
}

// DecisionRequest carries the admin's notes for approve, reject and cancel
type DecisionRequest struct {
	AdminNotes   string `json:"admin_notes" binding:"omitempty,max=1000"`
	Reason       string `json:"reason" binding:"omitempty,max=1000"`
	AssignedRoom string `json:"assigned_room" binding:"omitempty,max=50"`
}

// ToDecision merges reason into notes; the reason wins when both are sent
func (r *DecisionRequest) ToDecision() models.Decision {
	notes := r.AdminNotes
	if r.Reason != "" {
		notes = r.Reason
	}
	return models.Decision{Notes: notes, AssignedRoom: r.AssignedRoom}
}
