package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/brewbot/brewbot-backend/internal/app/store"
	"github.com/brewbot/brewbot-backend/pkg/logger"
	"github.com/brewbot/brewbot-backend/pkg/util"
)

var ErrMissingMapsKey = errors.New("missing GOOGLE_MAPS_API_KEY")

const (
	defaultPlacesBaseURL = "https://places.googleapis.com"
	reviewsPerPlace      = 5
	reviewTextLimit      = 400
	nearbyResultCap      = 20 // provider-side maximum for one searchNearby call
)

// UpstreamStatusError carries a provider's non-success status and body so
// controllers can propagate them to the client.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// priceLevelOrdinal maps the provider's price level enum to the 0-4 ordinal
// scale used across the report.
var priceLevelOrdinal = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// PlacesService searches for nearby competitor coffee shops through the
// Google Places API and attaches their newest reviews.
type PlacesService struct {
	apiKey          string
	baseURL         string
	client          *http.Client
	competitorStore *store.CompetitorStore
}

func NewPlacesService(apiKey string, timeout time.Duration, competitorStore *store.CompetitorStore) *PlacesService {
	return &PlacesService{
		apiKey:          apiKey,
		baseURL:         defaultPlacesBaseURL,
		client:          &http.Client{Timeout: timeout},
		competitorStore: competitorStore,
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	RankPreference      string   `json:"rankPreference"`
	LocationRestriction struct {
		Circle struct {
			Center struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type searchNearbyResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		Rating          float64 `json:"rating"`
		UserRatingCount int     `json:"userRatingCount"`
		PriceLevel      string  `json:"priceLevel"`
		Location        struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}

type placeDetailsResponse struct {
	Reviews []struct {
		Rating float64 `json:"rating"`
		Text   struct {
			Text string `json:"text"`
		} `json:"text"`
		PublishTime                    string `json:"publishTime"`
		RelativePublishTimeDescription string `json:"relativePublishTimeDescription"`
	} `json:"reviews"`
}

// NearbySearch finds up to maxResults coffee shops around the origin,
// attaches reviews and replaces the competitor store contents.
func (s *PlacesService) NearbySearch(ctx context.Context, lat, lng, radiusM float64, maxResults int, minRating float64) ([]model.Competitor, error) {
	if s.apiKey == "" {
		return nil, ErrMissingMapsKey
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	// Over-fetch so the rating filter still leaves enough candidates.
	fetchCount := maxResults * 2
	if fetchCount > nearbyResultCap {
		fetchCount = nearbyResultCap
	}

	reqBody := searchNearbyRequest{
		IncludedTypes:  []string{"coffee_shop"},
		MaxResultCount: fetchCount,
		RankPreference: "DISTANCE",
	}
	reqBody.LocationRestriction.Circle.Center.Latitude = lat
	reqBody.LocationRestriction.Circle.Center.Longitude = lng
	reqBody.LocationRestriction.Circle.Radius = radiusM

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/places:searchNearby", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask",
		"places.id,places.displayName,places.rating,places.userRatingCount,places.priceLevel,places.location")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call places API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result searchNearbyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse places response: %w", err)
	}

	competitors := make([]model.Competitor, 0, len(result.Places))
	for _, place := range result.Places {
		comp := model.Competitor{
			ID:          place.ID,
			Name:        place.DisplayName.Text,
			Rating:      place.Rating,
			ReviewCount: place.UserRatingCount,
			DistanceM:   util.HaversineMeters(lat, lng, place.Location.Latitude, place.Location.Longitude),
			Source:      "google",
		}
		if ordinal, ok := priceLevelOrdinal[place.PriceLevel]; ok {
			level := ordinal
			comp.PriceLevel = &level
		}
		competitors = append(competitors, comp)
	}

	filtered := make([]model.Competitor, 0, len(competitors))
	for _, comp := range competitors {
		if comp.Rating >= minRating {
			filtered = append(filtered, comp)
		}
	}
	// Rather than returning nothing, fall back to the unfiltered set when
	// the rating threshold empties it.
	if len(filtered) == 0 {
		filtered = competitors
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Rating != filtered[j].Rating {
			return filtered[i].Rating > filtered[j].Rating
		}
		return filtered[i].DistanceM < filtered[j].DistanceM
	})

	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}

	s.attachReviews(ctx, filtered)
	s.competitorStore.Set(filtered)

	return filtered, nil
}

// attachReviews fetches reviews for every competitor concurrently. A failed
// detail lookup just leaves that competitor without reviews; the batch waits
// for the slowest fetch.
func (s *PlacesService) attachReviews(ctx context.Context, competitors []model.Competitor) {
	var wg sync.WaitGroup
	for i := range competitors {
		wg.Add(1)
		go func(comp *model.Competitor) {
			defer wg.Done()
			reviews, err := s.fetchReviews(ctx, comp.ID)
			if err != nil {
				logger.Warn("Failed to fetch place reviews", map[string]interface{}{
					"place_id": comp.ID,
					"error":    err.Error(),
				})
				return
			}
			comp.Reviews = reviews
		}(&competitors[i])
	}
	wg.Wait()
}

func (s *PlacesService) fetchReviews(ctx context.Context, placeID string) ([]model.Review, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/places/"+placeID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask", "reviews")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var details placeDetailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, err
	}

	// Newest first.
	sort.SliceStable(details.Reviews, func(i, j int) bool {
		return details.Reviews[i].PublishTime > details.Reviews[j].PublishTime
	})

	reviews := make([]model.Review, 0, reviewsPerPlace)
	for _, r := range details.Reviews {
		if len(reviews) == reviewsPerPlace {
			break
		}
		reviews = append(reviews, model.Review{
			PlaceID:     placeID,
			Source:      "google",
			Rating:      r.Rating,
			Text:        truncateRunes(r.Text.Text, reviewTextLimit),
			PublishedAt: r.PublishTime,
		})
	}
	return reviews, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
