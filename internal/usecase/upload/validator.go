package upload

import (
	"strings"

	apperrors "image-classifier-service/pkg/errors"
)

// Upload rejection messages.
const (
	MsgNoFilePart     = "No file part"
	MsgNoFileSelected = "No selected file"
	MsgDisallowedType = "Allowed file types are png, jpg, jpeg, gif"
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// AllowedFile reports whether filename has an accepted image extension.
// Only the name is checked, never the content.
func AllowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

// Validate checks the shape of an upload before anything touches the disk.
// hasFilePart is false when the form carried no "file" field at all.
func Validate(hasFilePart bool, filename string) error {
	switch {
	case !hasFilePart:
		return apperrors.NewValidationError(apperrors.CodeNoFilePart, "file", MsgNoFilePart)
	case filename == "":
		return apperrors.NewValidationError(apperrors.CodeNoFileSelected, "file", MsgNoFileSelected)
	case !AllowedFile(filename):
		return apperrors.NewValidationError(apperrors.CodeDisallowedType, "file", MsgDisallowedType)
	}
	return nil
}
