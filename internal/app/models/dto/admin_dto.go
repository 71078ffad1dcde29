package dto

// AdminUpdateStudentRequest lets staff edit a student record
type AdminUpdateStudentRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,phone"`
	Course       *string `json:"course" binding:"omitempty,max=50"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=10"`
	Gender       *string `json:"gender" binding:"omitempty,max=10"`
	University   *string `json:"university" binding:"omitempty,max=100"`
	IsActive     *bool   `json:"is_active"`
	IsVerified   *bool   `json:"is_verified"`
}

// Fields returns the column updates carried by the request
func (r *AdminUpdateStudentRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setIf(fields, "name", r.Name)
	setIf(fields, "email", r.Email)
	setIf(fields, "phone", r.Phone)
	setIf(fields, "course", r.Course)
	setIf(fields, "academic_year", r.AcademicYear)
	setIf(fields, "gender", r.Gender)
	setIf(fields, "university", r.University)
	setIf(fields, "is_active", r.IsActive)
	setIf(fields, "is_verified", r.IsVerified)
	return fields
}

// ReviewRequest creates or replaces the caller's review of a property
type ReviewRequest struct {
	PropertyType string `json:"property_type" binding:"required,propertytype" example:"pg"`
	PropertyID   int64  `json:"property_id" binding:"required,min=1" example:"2"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Comment      string `json:"comment" binding:"omitempty,max=2000"`
}

// FavoriteRequest bookmarks a property
type FavoriteRequest struct {
	PropertyType string `json:"property_type" binding:"required,propertytype" example:"hostel"`
	PropertyID   int64  `json:"property_id" binding:"required,min=1" example:"1"`
}
