package model

// ExtractedPlace is one place name returned by the text-understanding
// capability, with optional visiting-order and time-phrase annotations.
type ExtractedPlace struct {
	Address       string `json:"address"`
	Order         *int   `json:"order,omitempty"`
	TimeMentioned string `json:"time_mentioned,omitempty"`
}

// ExtractedPlaces wraps the model output so lenient JSON parsing has a single
// object to find.
type ExtractedPlaces struct {
	Places []ExtractedPlace `json:"places"`
}
