package upload

import (
	"io"

	"image-classifier-service/internal/domain/classification"
)

// SubmitRequest is one image-plus-question upload.
type SubmitRequest struct {
	UserID      int64
	HasFilePart bool   // false when the form had no "file" field
	Filename    string // client-supplied name, may be empty
	File        io.Reader
	Question    string
}

// SubmitResponse carries the id the outcome was stored under.
type SubmitResponse struct {
	ID int64
}

// ResultResponse is a stored classification outcome.
type ResultResponse struct {
	RequestID int64
	Outcome   classification.Outcome
}
