package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"scamwatch/internal/usecase"
	"scamwatch/pkg/logger"
)

// HTTPGeocoder resolves coordinates against a Nominatim-compatible
// reverse-geocoding endpoint. It never fails: any upstream problem
// degrades to the deterministic "lat, lng" fallback.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL string) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) *usecase.GeocodeResult {
	fallback := &usecase.GeocodeResult{
		Address: fmt.Sprintf("%.4f, %.4f", lat, lng),
	}
	if g.baseURL == "" {
		return fallback
	}

	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		g.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fallback
	}

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Warn("Reverse geocode unavailable: %v", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Reverse geocode returned status %d", resp.StatusCode)
		return fallback
	}

	var parsed reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fallback
	}
	if parsed.DisplayName == "" {
		return fallback
	}

	city := parsed.Address.City
	if city == "" {
		city = parsed.Address.Town
	}

	return &usecase.GeocodeResult{
		Address: parsed.DisplayName,
		City:    city,
		State:   parsed.Address.State,
		Country: parsed.Address.Country,
	}
}
