package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/brewbot/brewbot-backend/internal/app/model"
)

const defaultMapsBaseURL = "https://maps.googleapis.com"

// FindPlacesService proxies the legacy Maps autocomplete and details
// endpoints so the frontend never touches the API key.
type FindPlacesService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewFindPlacesService(apiKey string, timeout time.Duration) *FindPlacesService {
	return &FindPlacesService{
		apiKey:  apiKey,
		baseURL: defaultMapsBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		Description          string                 `json:"description"`
		PlaceID              string                 `json:"place_id"`
		StructuredFormatting map[string]interface{} `json:"structured_formatting"`
	} `json:"predictions"`
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

// Autocomplete returns address predictions for the given input.
func (s *FindPlacesService) Autocomplete(ctx context.Context, input, sessionToken, types, components string) ([]model.PlacePrediction, error) {
	if s.apiKey == "" {
		return nil, ErrMissingMapsKey
	}

	params := url.Values{}
	params.Set("input", input)
	params.Set("types", types)
	params.Set("key", s.apiKey)
	params.Set("sessiontoken", sessionToken)
	if components != "" {
		params.Set("components", components)
	}

	body, status, err := s.get(ctx, "/maps/api/place/autocomplete/json", params)
	if err != nil {
		return nil, err
	}

	var result autocompleteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse autocomplete response: %w", err)
	}
	if status != http.StatusOK || (result.Status != "OK" && result.Status != "ZERO_RESULTS") {
		return nil, &UpstreamStatusError{StatusCode: status, Body: string(body)}
	}

	predictions := make([]model.PlacePrediction, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		predictions = append(predictions, model.PlacePrediction{
			Description:          p.Description,
			PlaceID:              p.PlaceID,
			StructuredFormatting: p.StructuredFormatting,
		})
	}
	return predictions, nil
}

// Details resolves a place into coordinates, name and formatted address.
func (s *FindPlacesService) Details(ctx context.Context, placeID, sessionToken string) (*model.PlaceDetails, error) {
	if s.apiKey == "" {
		return nil, ErrMissingMapsKey
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "geometry/location,name,formatted_address")
	params.Set("key", s.apiKey)
	params.Set("sessiontoken", sessionToken)

	body, status, err := s.get(ctx, "/maps/api/place/details/json", params)
	if err != nil {
		return nil, err
	}

	var result detailsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse details response: %w", err)
	}
	if status != http.StatusOK || result.Status != "OK" {
		return nil, &UpstreamStatusError{StatusCode: status, Body: string(body)}
	}

	return &model.PlaceDetails{
		Lat:              result.Result.Geometry.Location.Lat,
		Lng:              result.Result.Geometry.Location.Lng,
		Name:             result.Result.Name,
		FormattedAddress: result.Result.FormattedAddress,
	}, nil
}

func (s *FindPlacesService) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call maps API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read maps response: %w", err)
	}
	return body, resp.StatusCode, nil
}
