package image

// Image is a persisted classification record.
type Image struct {
	ID             int64
	Path           string  // Path is where the upload was stored on disk
	Classification *string // Classification is the label, nil until classified
	UserID         *int64  // UserID is the owner, nil for unowned images
}

// Label returns the classification label or an empty string.
func (i Image) Label() string {
	if i.Classification == nil {
		return ""
	}
	return *i.Classification
}
