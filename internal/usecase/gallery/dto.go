package gallery

import "image-classifier-service/internal/domain/image"

// ListImagesRequest represents a page of the owner's images.
// Query filters by label and is optional.
type ListImagesRequest struct {
	UserID int64
	Query  string
	Page   int64
	Limit  int64
}

// ListImagesResponse represents the response payload for an image listing.
type ListImagesResponse struct {
	Images     []Image
	Pagination *image.Pagination
}

// Image represents an image DTO for API responses.
type Image struct {
	ID             int64
	Path           string
	Classification string
}
