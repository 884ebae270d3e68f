package classification

// Outcome is the normalized answer of the classification provider.
type Outcome struct {
	Classification string  `json:"classification"`
	Score          float64 `json:"score"`
	ImagePath      string  `json:"image_path"`
}
