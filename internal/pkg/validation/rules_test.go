package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingInput struct {
	StudentID    string `json:"student_id" validate:"required,studentid"`
	PropertyType string `json:"property_type" validate:"required,propertytype"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Gender       string `json:"gender" validate:"omitempty,gender"`
	Status       string `json:"status" validate:"omitempty,bookingstatus"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomRules_Valid(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(bookingInput{
		StudentID:    "2024001",
		PropertyType: "pg",
		Phone:        "+91 98765 43210",
		Gender:       "Unisex",
		Status:       "approved",
	})
	assert.NoError(t, err)

	assert.NoError(t, v.Struct(bookingInput{StudentID: "CS-2024-17", PropertyType: "hostel"}))
}

func TestCustomRules_Invalid(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(bookingInput{
		StudentID:    "s1",
		PropertyType: "apartment",
		Phone:        "call me",
		Gender:       "any",
		Status:       "done",
	})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))

	messages := map[string]string{}
	for _, fe := range fieldErrs {
		messages[fe.Field()] = FieldMessage(fe)
	}
	assert.Equal(t, "student_id must be 4-20 letters, digits or dashes", messages["student_id"])
	assert.Equal(t, "property_type must be 'hostel' or 'pg'", messages["property_type"])
	assert.Equal(t, "phone must be a valid phone number", messages["phone"])
	assert.Equal(t, "gender must be Male, Female or Unisex", messages["gender"])
	assert.Equal(t, "status must be pending, approved, rejected or cancelled", messages["status"])
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsPhone("9876543210"))
	assert.False(t, IsPhone("12"))
	assert.True(t, IsPropertyType("hostel"))
	assert.False(t, IsPropertyType("Hostel"))
	assert.True(t, IsStudentID("2024001"))
	assert.False(t, IsStudentID("2024 001"))
}
