package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Student identifiers are 4 to 20 letters, digits or dashes
	StudentIDPattern = `^[A-Za-z0-9-]{4,20}$`

	// Phone numbers allow an optional leading + and 7 to 15 digits with spaces or dashes
	PhonePattern = `^\+?[0-9][0-9 -]{5,18}[0-9]$`

	// Password min length
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentID *regexp.Regexp
	Phone     *regexp.Regexp
}{
	StudentID: regexp.MustCompile(StudentIDPattern),
	Phone:     regexp.MustCompile(PhonePattern),
}

var (
	propertyTypes = map[string]bool{"hostel": true, "pg": true}
	genders       = map[string]bool{"Male": true, "Female": true, "Unisex": true}
	statuses      = map[string]bool{"pending": true, "approved": true, "rejected": true, "cancelled": true}
)

// IsStudentID reports whether s looks like a student identifier
func IsStudentID(s string) bool {
	return CompiledPatterns.StudentID.MatchString(s)
}

// IsPhone reports whether s looks like a phone number
func IsPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

// IsPropertyType reports whether s names a property table
func IsPropertyType(s string) bool {
	return propertyTypes[s]
}

// IsGenderPreference reports whether s is an accepted PG gender preference
func IsGenderPreference(s string) bool {
	return genders[s]
}

// IsBookingStatus reports whether s is a lifecycle status
func IsBookingStatus(s string) bool {
	return statuses[s]
}

func stringRule(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return check(fl.Field().String())
	}
}

// Register installs the custom tags on v. Empty optional values are left to omitempty.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"studentid":     stringRule(IsStudentID),
		"phone":         stringRule(IsPhone),
		"propertytype":  stringRule(IsPropertyType),
		"gender":        stringRule(IsGenderPreference),
		"bookingstatus": stringRule(IsBookingStatus),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	// Report json names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return nil
}

// RegisterWithGin installs the custom tags on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

// FieldMessage turns a validator failure into a readable message
func FieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "lte":
		return e.Field() + " must be less than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "studentid":
		return e.Field() + " must be 4-20 letters, digits or dashes"
	case "phone":
		return e.Field() + " must be a valid phone number"
	case "propertytype":
		return e.Field() + " must be 'hostel' or 'pg'"
	case "gender":
		return e.Field() + " must be Male, Female or Unisex"
	case "bookingstatus":
		return e.Field() + " must be pending, approved, rejected or cancelled"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
