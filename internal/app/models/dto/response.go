package dto

import "time"

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Count     *int         `json:"count,omitempty" example:"3"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewListResponse wraps a list and its count. total is the full match count for paged lists.
func NewListResponse(data interface{}, total int) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Count:     &total,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *APIResponse {
	return &APIResponse{
		Success:   false,
		Message:   errorDetail.Message,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status   string `json:"status" example:"OK"`
	Database string `json:"database" example:"connected"`
	Time     string `json:"timestamp"`
}
