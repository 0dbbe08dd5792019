package assemble

import (
	"fmt"

	"github.com/geoweave/geoweave/internal/core/model"
)

// Assemble merges the ordered points, optional route geometry, and every
// recorded failure into the terminal artifact. Success requires at least one
// resolved point; resolving nothing is a failed request even when no error
// was raised anywhere.
func Assemble(it model.Itinerary, geom *model.RouteGeometry, staticMapURL string, failures []model.Failure) model.MapArtifact {
	points := make([]model.PointView, 0, len(it.Points))
	for _, p := range it.Points {
		points = append(points, model.PointView{
			Name:          p.Name,
			LngLat:        [2]float64{p.Lng, p.Lat},
			Type:          typeMarker(p.Role),
			TimeMentioned: p.TimeMentioned,
		})
	}

	if failures == nil {
		failures = []model.Failure{}
	}

	artifact := model.MapArtifact{
		Success:      len(points) > 0,
		Points:       points,
		StaticMapURL: staticMapURL,
		Ordering:     string(it.OrderingMethod),
		Failures:     failures,
	}

	if artifact.Success {
		artifact.Message = fmt.Sprintf("resolved %d point(s)", len(points))
	} else {
		artifact.Message = "no resolvable places found"
		artifact.Ordering = ""
	}

	if geom != nil {
		rd := &model.RouteData{}
		rd.Route.Paths = geom.Paths
		artifact.RouteData = rd
		bounds := geom.Bounds
		artifact.Bounds = &bounds
	}

	return artifact
}

func typeMarker(role model.Role) string {
	switch role {
	case model.RoleStart:
		return model.TypeStart
	case model.RoleEnd:
		return model.TypeEnd
	default:
		return model.TypeWaypoint
	}
}
