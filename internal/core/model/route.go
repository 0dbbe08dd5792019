package model

// RouteStep mirrors one step of the routing collaborator's response; Polyline
// is the wire format "lng,lat;lng,lat;...".
type RouteStep struct {
	Polyline string `json:"polyline"`
}

type RoutePath struct {
	Steps []RouteStep `json:"steps"`
}

// Bounds is the coordinate-wise bounding box over route segments and
// itinerary points.
type Bounds struct {
	NorthEast LngLat `json:"northEast"`
	SouthWest LngLat `json:"southWest"`
}

// RouteGeometry is the decoded, map-ready route. Absent entirely when routing
// failed or fewer than two points exist.
type RouteGeometry struct {
	Segments [][]LngLat  `json:"-"`
	Bounds   Bounds      `json:"bounds"`
	Paths    []RoutePath `json:"paths"`
}
