package model

// Review is a single review excerpt attached to a competitor. Used as a bag
// of words for keyword frequency; not persisted beyond the competitor store.
type Review struct {
	PlaceID     string  `json:"place_id"`
	Source      string  `json:"source"`
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	PublishedAt string  `json:"published_at,omitempty"`
}

// Competitor is an external coffee shop returned by a nearby search.
type Competitor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	PriceLevel  *int     `json:"price_level"` // ordinal 0-4, nil when the provider omits it
	DistanceM   float64  `json:"distance_m"`
	Source      string   `json:"source"`
	Reviews     []Review `json:"reviews"`
}
