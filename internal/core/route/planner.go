package route

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/core/model"
)

// Planner requests route geometry for an ordered itinerary. Routing is an
// enhancement: any failure here leaves the itinerary renderable on its own.
type Planner struct {
	Service amap.RouteService
	Mode    string
}

func NewPlanner(service amap.RouteService, mode string) *Planner {
	if mode == "" {
		mode = "driving"
	}
	return &Planner{Service: service, Mode: mode}
}

// Plan returns nil geometry (and nil error) when the itinerary has fewer than
// two points. Bounds cover every decoded segment point and every itinerary
// point, so an isolated point outside the route stays visible.
func (p *Planner) Plan(ctx context.Context, it model.Itinerary) (*model.RouteGeometry, error) {
	return p.PlanMode(ctx, it, p.Mode)
}

func (p *Planner) PlanMode(ctx context.Context, it model.Itinerary, mode string) (*model.RouteGeometry, error) {
	if len(it.Points) < 2 {
		return nil, nil
	}
	if mode == "" {
		mode = p.Mode
	}

	waypoints := make([]amap.Waypoint, len(it.Points))
	for i, pt := range it.Points {
		waypoints[i] = amap.Waypoint{Lng: pt.Lng, Lat: pt.Lat}
	}

	resp, err := p.Service.PlanRoute(ctx, waypoints, mode)
	if err != nil {
		return nil, fmt.Errorf("route planning failed: %w", err)
	}

	geom := &model.RouteGeometry{}
	for _, path := range resp.Paths {
		steps := make([]model.RouteStep, 0, len(path.Steps))
		for _, step := range path.Steps {
			seg := decodePolyline(step.Polyline)
			if len(seg) > 0 {
				geom.Segments = append(geom.Segments, seg)
			}
			steps = append(steps, model.RouteStep{Polyline: step.Polyline})
		}
		geom.Paths = append(geom.Paths, model.RoutePath{Steps: steps})
	}

	geom.Bounds = computeBounds(geom.Segments, it.Points)
	return geom, nil
}

// decodePolyline parses "lng,lat;lng,lat;...". Malformed pairs are skipped
// rather than discarding the whole step.
func decodePolyline(s string) []model.LngLat {
	var coords []model.LngLat
	for _, pair := range strings.Split(s, ";") {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			continue
		}
		lng, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		coords = append(coords, model.LngLat{Lng: lng, Lat: lat})
	}
	return coords
}

func computeBounds(segments [][]model.LngLat, points []model.ResolvedPoint) model.Bounds {
	first := true
	var b model.Bounds

	extend := func(c model.LngLat) {
		if first {
			b.NorthEast = c
			b.SouthWest = c
			first = false
			return
		}
		if c.Lng > b.NorthEast.Lng {
			b.NorthEast.Lng = c.Lng
		}
		if c.Lat > b.NorthEast.Lat {
			b.NorthEast.Lat = c.Lat
		}
		if c.Lng < b.SouthWest.Lng {
			b.SouthWest.Lng = c.Lng
		}
		if c.Lat < b.SouthWest.Lat {
			b.SouthWest.Lat = c.Lat
		}
	}

	for _, seg := range segments {
		for _, c := range seg {
			extend(c)
		}
	}
	for _, p := range points {
		extend(model.LngLat{Lng: p.Lng, Lat: p.Lat})
	}

	return b
}
