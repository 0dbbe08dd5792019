package assemble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoweave/geoweave/internal/core/model"
)

func makeItinerary(n int) model.Itinerary {
	points := make([]model.ResolvedPoint, n)
	for i := range points {
		points[i] = model.ResolvedPoint{
			ID: string(rune('a' + i)), Name: string(rune('A' + i)),
			Lng: 116 + float64(i), Lat: 39, Confidence: model.ConfidenceExact,
			Role: model.RoleWaypoint,
		}
	}
	if n >= 2 {
		points[0].Role = model.RoleStart
		points[n-1].Role = model.RoleEnd
	}
	return model.Itinerary{Points: points, OrderingMethod: model.OrderFallback}
}

func TestAssembleSuccess(t *testing.T) {
	artifact := Assemble(makeItinerary(3), nil, "https://maps.example/static", nil)

	assert.True(t, artifact.Success)
	require.Len(t, artifact.Points, 3)
	assert.Equal(t, model.TypeStart, artifact.Points[0].Type)
	assert.Equal(t, model.TypeWaypoint, artifact.Points[1].Type)
	assert.Equal(t, model.TypeEnd, artifact.Points[2].Type)
	assert.Equal(t, [2]float64{116, 39}, artifact.Points[0].LngLat)
	assert.Equal(t, "https://maps.example/static", artifact.StaticMapURL)
	assert.NotNil(t, artifact.Failures)
	assert.Empty(t, artifact.Failures)
}

// Resolving nothing is a failed request even when nothing errored.
func TestAssembleEmptyItineraryIsFailure(t *testing.T) {
	artifact := Assemble(model.Itinerary{}, nil, "", nil)

	assert.False(t, artifact.Success)
	assert.Empty(t, artifact.Points)
	assert.Empty(t, artifact.Failures)
}

func TestAssembleFailuresAlwaysIncluded(t *testing.T) {
	failures := []model.Failure{
		{SourceID: "text-1#1", Reason: "geocoding failed: no geocoding match"},
	}
	artifact := Assemble(makeItinerary(2), nil, "", failures)

	assert.True(t, artifact.Success)
	require.Len(t, artifact.Failures, 1)
	assert.Equal(t, "text-1#1", artifact.Failures[0].SourceID)
}

func TestAssembleRouteData(t *testing.T) {
	geom := &model.RouteGeometry{
		Paths: []model.RoutePath{{Steps: []model.RouteStep{{Polyline: "116.40,39.90;116.41,39.91"}}}},
		Bounds: model.Bounds{
			NorthEast: model.LngLat{Lng: 116.41, Lat: 39.91},
			SouthWest: model.LngLat{Lng: 116.40, Lat: 39.90},
		},
	}

	artifact := Assemble(makeItinerary(2), geom, "", nil)

	require.NotNil(t, artifact.RouteData)
	require.Len(t, artifact.RouteData.Route.Paths, 1)
	require.NotNil(t, artifact.Bounds)
	assert.Equal(t, 116.41, artifact.Bounds.NorthEast.Lng)
}

// The wire shape is fixed: success, points[].lnglat/type, routeData.route.paths,
// failures[].sourceId/reason.
func TestAssembleSerializedShape(t *testing.T) {
	geom := &model.RouteGeometry{
		Paths: []model.RoutePath{{Steps: []model.RouteStep{{Polyline: "1,2;3,4"}}}},
	}
	failures := []model.Failure{{SourceID: "x", Reason: "y"}}

	data, err := json.Marshal(Assemble(makeItinerary(2), geom, "", failures))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, true, decoded["success"])
	points := decoded["points"].([]any)
	first := points[0].(map[string]any)
	assert.Equal(t, model.TypeStart, first["type"])
	assert.Len(t, first["lnglat"].([]any), 2)

	routeData := decoded["routeData"].(map[string]any)
	route := routeData["route"].(map[string]any)
	assert.Len(t, route["paths"].([]any), 1)

	failure := decoded["failures"].([]any)[0].(map[string]any)
	assert.Equal(t, "x", failure["sourceId"])
	assert.Equal(t, "y", failure["reason"])
}
