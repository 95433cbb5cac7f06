package dto

// ExtractResponse is returned by the image and audio extraction endpoints.
// The extracted text is meant to be shown to the user for confirmation
// before it is submitted to the solve endpoint.
type ExtractResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
