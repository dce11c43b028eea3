package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2026-03-10T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in an APIResponse
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewAPIErrorResponse wraps an error detail in an APIResponse
func NewAPIErrorResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}

// PaginationRequest carries the common page query parameters
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" json:"pageSize" binding:"omitempty,min=1,max=100"`
}
