package dto

import "time"

// SuccessResponse represents a standard success response with just a message
type SuccessResponse struct {
	Message string `json:"message"`
}

// APIResponse is the standard response envelope
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// PaginationInfo carries paging metadata for list responses
type PaginationInfo struct {
	CurrentPage int   `json:"page" example:"1"`
	TotalPages  int   `json:"total_pages" example:"5"`
	PageSize    int   `json:"page_size" example:"20"`
	TotalItems  int64 `json:"total_count" example:"87"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}
