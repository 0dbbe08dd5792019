package amap

import "context"

// Waypoint is a lng,lat pair in AMap's coordinate order.
type Waypoint struct {
	Lng float64
	Lat float64
}

// GeocodeResult is the distilled answer from the geocoding capability.
// Matched=false means the service answered but found nothing.
type GeocodeResult struct {
	Matched          bool
	Lng              float64
	Lat              float64
	FormattedAddress string
	// Level is AMap's match granularity ("门牌号", "兴趣点", "市", ...);
	// coarse levels indicate an approximate match.
	Level string
}

// GeocodeService resolves a free-text address to a coordinate.
type GeocodeService interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}

// DirectionStep is one leg of a planned route; Polyline is
// "lng,lat;lng,lat;..." as returned on the wire.
type DirectionStep struct {
	Polyline string `json:"polyline"`
}

type DirectionPath struct {
	Steps []DirectionStep `json:"steps"`
}

type DirectionResponse struct {
	Paths []DirectionPath `json:"paths"`
}

// RouteService plans a multi-waypoint route. The waypoint order is the
// itinerary order; the first and last entries are origin and destination.
type RouteService interface {
	PlanRoute(ctx context.Context, waypoints []Waypoint, mode string) (*DirectionResponse, error)
}

// StaticMapService renders an itinerary as a shareable static map URL.
type StaticMapService interface {
	StaticMapURL(points []Waypoint) string
}
