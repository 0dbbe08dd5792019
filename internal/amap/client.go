package amap

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://restapi.amap.com/v3"

// Client talks to the AMap web-service API. When a secret is configured every
// request carries the digital signature AMap computes as the MD5 of the sorted
// query string concatenated with the secret.
// https://lbs.amap.com/api/webservice/guide/create-project/signature
type Client struct {
	apiKey     string
	secret     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, secret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Sign returns the request signature over params, or "" when no secret is set.
func (c *Client) Sign(params url.Values) string {
	if c.secret == "" {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params.Get(k)))
	}

	sum := md5.Sum([]byte(strings.Join(pairs, "&") + c.secret))
	return fmt.Sprintf("%x", sum)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	params.Set("output", "JSON")
	if sig := c.Sign(params); sig != "" {
		params.Set("sig", sig)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amap %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("amap %s: decode response: %w", endpoint, err)
	}
	return nil
}

type geocodeResponse struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Geocodes []struct {
		Location         string `json:"location"`
		FormattedAddress string `json:"formatted_address"`
		Level            string `json:"level"`
	} `json:"geocodes"`
}

// Geocode resolves an address via /geocode/geo. A service-side "no result" is
// reported as Matched=false, not as an error, so callers can distinguish it
// from transient failures worth retrying.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "geocode/geo", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "1" {
		return nil, fmt.Errorf("amap geocode: status %s (%s)", resp.Status, resp.Info)
	}
	if len(resp.Geocodes) == 0 {
		return &GeocodeResult{Matched: false}, nil
	}

	g := resp.Geocodes[0]
	lng, lat, err := parseLocation(g.Location)
	if err != nil {
		return nil, fmt.Errorf("amap geocode: %w", err)
	}

	return &GeocodeResult{
		Matched:          true,
		Lng:              lng,
		Lat:              lat,
		FormattedAddress: g.FormattedAddress,
		Level:            g.Level,
	}, nil
}

var directionEndpoints = map[string]string{
	"driving":   "direction/driving",
	"walking":   "direction/walking",
	"transit":   "direction/transit/integrated",
	"bicycling": "direction/bicycling",
}

type directionResponse struct {
	Status string `json:"status"`
	Info   string `json:"info"`
	Route  struct {
		Paths []DirectionPath `json:"paths"`
	} `json:"route"`
}

// PlanRoute requests a route over the ordered waypoints. The first and last
// waypoints become origin and destination; the rest go into the waypoints
// parameter semicolon-joined.
func (c *Client) PlanRoute(ctx context.Context, waypoints []Waypoint, mode string) (*DirectionResponse, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("amap direction: need at least 2 waypoints, got %d", len(waypoints))
	}

	endpoint, ok := directionEndpoints[mode]
	if !ok {
		endpoint = directionEndpoints["driving"]
		mode = "driving"
	}

	params := url.Values{}
	params.Set("origin", formatWaypoint(waypoints[0]))
	params.Set("destination", formatWaypoint(waypoints[len(waypoints)-1]))
	params.Set("extensions", "all")
	if mode == "driving" {
		params.Set("strategy", "10")
	}
	if len(waypoints) > 2 {
		mids := make([]string, 0, len(waypoints)-2)
		for _, w := range waypoints[1 : len(waypoints)-1] {
			mids = append(mids, formatWaypoint(w))
		}
		params.Set("waypoints", strings.Join(mids, ";"))
	}

	var resp directionResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "1" {
		return nil, fmt.Errorf("amap direction: status %s (%s)", resp.Status, resp.Info)
	}

	return &DirectionResponse{Paths: resp.Route.Paths}, nil
}

func formatWaypoint(w Waypoint) string {
	return fmt.Sprintf("%.6f,%.6f", w.Lng, w.Lat)
}

func parseLocation(loc string) (lng, lat float64, err error) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location %q", loc)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed location %q", loc)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed location %q", loc)
	}
	return lng, lat, nil
}
