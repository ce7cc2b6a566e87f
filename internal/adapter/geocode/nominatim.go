package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/housemarket/browse-service/internal/config"
	"github.com/housemarket/browse-service/internal/entity"
)

// NominatimClient queries an OpenStreetMap Nominatim search endpoint. The
// endpoint is rate-sensitive, so every outbound request waits on a limiter in
// addition to the caller-side debounce.
type NominatimClient struct {
	baseURL   string
	userAgent string
	http      *retryablehttp.Client
	limiter   *rate.Limiter
}

func NewNominatimClient(cfg *config.GeocoderConfig) *NominatimClient {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &NominatimClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      rc,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

type nominatimAddress struct {
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	Village       string `json:"village"`
	Road          string `json:"road"`
	Quarter       string `json:"quarter"`
	Locality      string `json:"locality"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Municipality  string `json:"municipality"`
	County        string `json:"county"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

type nominatimResult struct {
	PlaceID     json.Number       `json:"place_id"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     *nominatimAddress `json:"address"`
}

func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]*entity.AddressSuggestion, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(limit))

	u := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("nominatim search: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim decode: %w", err)
	}

	suggestions := make([]*entity.AddressSuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, toSuggestion(r))
	}
	return suggestions, nil
}

func toSuggestion(r nominatimResult) *entity.AddressSuggestion {
	s := &entity.AddressSuggestion{
		PlaceID:     r.PlaceID.String(),
		DisplayName: r.DisplayName,
		Lat:         r.Lat,
		Lon:         r.Lon,
	}
	if r.Address != nil {
		s.Address = &entity.AddressDetails{
			Suburb:        r.Address.Suburb,
			Neighbourhood: r.Address.Neighbourhood,
			Village:       r.Address.Village,
			Road:          r.Address.Road,
			Quarter:       r.Address.Quarter,
			Locality:      r.Address.Locality,
			City:          r.Address.City,
			Town:          r.Address.Town,
			Municipality:  r.Address.Municipality,
			County:        r.Address.County,
			State:         r.Address.State,
			Country:       r.Address.Country,
		}
	}
	return s
}
