package model

// Role markers the map frontend expects on each point.
const (
	TypeStart    = "起点"
	TypeWaypoint = "途经点"
	TypeEnd      = "终点"
)

// PointView is the serialized form of one itinerary point.
type PointView struct {
	Name          string     `json:"name"`
	LngLat        [2]float64 `json:"lnglat"`
	Type          string     `json:"type"`
	TimeMentioned string     `json:"timeMentioned,omitempty"`
}

// RouteData wraps the route paths in the shape the map widget consumes.
type RouteData struct {
	Route struct {
		Paths []RoutePath `json:"paths"`
	} `json:"route"`
}

// MapArtifact is the terminal, serializable output of one request. It is
// owned by the request that produced it; nothing in it is shared.
type MapArtifact struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	Points       []PointView `json:"points"`
	RouteData    *RouteData  `json:"routeData,omitempty"`
	Bounds       *Bounds     `json:"bounds,omitempty"`
	StaticMapURL string      `json:"staticMapUrl,omitempty"`
	Ordering     string      `json:"ordering,omitempty"`
	Failures     []Failure   `json:"failures"`
}
