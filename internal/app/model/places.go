package model

// PlacePrediction is one autocomplete suggestion, reduced to what the
// frontend needs.
type PlacePrediction struct {
	Description          string                 `json:"description"`
	PlaceID              string                 `json:"place_id"`
	StructuredFormatting map[string]interface{} `json:"structured_formatting"`
}

// PlaceDetails is the resolved location of a selected prediction.
type PlaceDetails struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
}
