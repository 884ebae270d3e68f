package handler

// Flash categories.
const (
	CategorySuccess = "success"
	CategoryError   = "error"
)

// FlashResponse carries a user-visible message after a form submission.
type FlashResponse struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// FormResponse describes the form a page expects.
type FormResponse struct {
	Form   string   `json:"form"`
	Fields []string `json:"fields"`
}

// UploadFailure is returned when an upload is rejected or cannot be processed.
// Result holds the underlying error text for storage and provider failures.
type UploadFailure struct {
	Message string `json:"message"`
	Result  string `json:"result"`
}

// ResultBody is the classification part of a result.
type ResultBody struct {
	Classification string  `json:"classification"`
	Score          float64 `json:"score"`
}

// ResultResponse represents a stored classification outcome.
type ResultResponse struct {
	RequestID int64      `json:"request_id"`
	Result    ResultBody `json:"result"`
	ImagePath string     `json:"image_path"`
}

// ErrorBody is the payload of NotFoundResponse.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NotFoundResponse is returned for unknown result ids.
type NotFoundResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// ImageResponse represents one classified image
type ImageResponse struct {
	ID             int64  `json:"id"`
	Path           string `json:"path"`
	Classification string `json:"classification"`
}

// Pagination represents pagination information
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// HomeResponse is the signed-in user's landing page.
type HomeResponse struct {
	User       UserResponse    `json:"user"`
	Images     []ImageResponse `json:"images"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// ProcessedResponse counts classification jobs by state.
type ProcessedResponse struct {
	Success int64 `json:"success"`
	Fail    int64 `json:"fail"`
	Running int64 `json:"running"`
	Queued  int64 `json:"queued"`
}

// StatusResponse represents GET /status.
type StatusResponse struct {
	Uptime     int64             `json:"uptime"`
	Processed  ProcessedResponse `json:"processed"`
	Health     string            `json:"health"`
	APIVersion int               `json:"api_version"`
}
