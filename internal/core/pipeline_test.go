package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/config"
	"github.com/geoweave/geoweave/internal/core/model"
	"github.com/geoweave/geoweave/internal/imagemeta"
)

func newTestPipeline(llm *MockLLM, services *MockAMap, meta *MockMetaReader) *Pipeline {
	if meta == nil {
		meta = &MockMetaReader{}
	}
	return NewPipeline(llm, services, meta, &config.Config{})
}

var tripRoute = &amap.DirectionResponse{
	Paths: []amap.DirectionPath{{
		Steps: []amap.DirectionStep{{Polyline: "116.40,39.90;113.26,23.13"}},
	}},
}

// Three extracted addresses, the middle one fails geocoding. The request
// still succeeds with two points, one recorded failure, and a route over the
// survivors.
func TestProcessTextPartialFailure(t *testing.T) {
	mockLLM := &MockLLM{Response: `{
		"places": [
			{"address": "北京", "order": 1},
			{"address": "上海", "order": 2},
			{"address": "广州", "order": 3}
		]
	}`}
	services := &MockAMap{
		GeocodeResults: map[string]*amap.GeocodeResult{
			"北京": {Matched: true, Lng: 116.407526, Lat: 39.904030, FormattedAddress: "北京市", Level: "市"},
			"广州": {Matched: true, Lng: 113.264385, Lat: 23.129112, FormattedAddress: "广州市", Level: "市"},
			// 上海 intentionally absent: unmatched.
		},
		RouteResp: tripRoute,
	}

	p := newTestPipeline(mockLLM, services, nil)
	artifact := p.Process(context.Background(), Request{Text: "从北京出发，经过上海，最后到达广州"})

	assert.True(t, artifact.Success)
	require.Len(t, artifact.Points, 2)
	assert.Equal(t, "北京市", artifact.Points[0].Name)
	assert.Equal(t, model.TypeStart, artifact.Points[0].Type)
	assert.Equal(t, "广州市", artifact.Points[1].Name)
	assert.Equal(t, model.TypeEnd, artifact.Points[1].Type)
	assert.Equal(t, string(model.OrderExtractionOrder), artifact.Ordering)

	require.Len(t, artifact.Failures, 1)
	assert.True(t, strings.HasSuffix(artifact.Failures[0].SourceID, "#1"), "failure attributes the middle address")
	assert.Contains(t, artifact.Failures[0].Reason, "no geocoding match")

	require.NotNil(t, artifact.RouteData)
	assert.Len(t, artifact.RouteData.Route.Paths, 1)
	assert.Equal(t, 1, services.RouteCalls)
	assert.NotEmpty(t, artifact.StaticMapURL)
}

// A photo without GPS tags is not an error: nothing resolved, nothing failed.
func TestProcessImageNoGPS(t *testing.T) {
	p := newTestPipeline(&MockLLM{}, &MockAMap{}, &MockMetaReader{
		Meta: map[string]*imagemeta.Metadata{"photo": {}},
	})

	artifact := p.ProcessImage(context.Background(), "photo.jpg", []byte("photo"))

	assert.False(t, artifact.Success)
	assert.Empty(t, artifact.Points)
	assert.Empty(t, artifact.Failures)
	assert.Nil(t, artifact.RouteData)
}

func TestProcessUnreadableImage(t *testing.T) {
	p := newTestPipeline(&MockLLM{}, &MockAMap{}, &MockMetaReader{Err: errors.New("bad bytes")})

	artifact := p.ProcessImage(context.Background(), "broken.bin", []byte{0x00})

	assert.False(t, artifact.Success)
	require.Len(t, artifact.Failures, 1)
	assert.Equal(t, "broken.bin", artifact.Failures[0].SourceID)
}

// One geocoded text point without a timestamp plus one image point with a
// timestamp: ordering must fall back, never treating the missing timestamp as
// earliest or latest.
func TestProcessMixedSources(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	meta := &MockMetaReader{Meta: map[string]*imagemeta.Metadata{
		"photo": {HasGPS: true, Lng: 120.153576, Lat: 30.287459, Timestamp: &ts},
	}}
	mockLLM := &MockLLM{Response: `{"places": [{"address": "西湖"}]}`}
	services := &MockAMap{
		GeocodeResults: map[string]*amap.GeocodeResult{
			"西湖": {Matched: true, Lng: 120.15, Lat: 30.25, FormattedAddress: "杭州市西湖", Level: "兴趣点"},
		},
		RouteResp: tripRoute,
	}

	p := newTestPipeline(mockLLM, services, meta)
	artifact := p.Process(context.Background(), Request{
		Text:   "我去了西湖",
		Images: []ImageInput{{Name: "photo.jpg", Data: []byte("photo")}},
	})

	assert.True(t, artifact.Success)
	require.Len(t, artifact.Points, 2)
	assert.Equal(t, string(model.OrderFallback), artifact.Ordering)
	// Images are normalized before text, and fallback keeps that order.
	assert.Equal(t, "120.153576,30.287459", artifact.Points[0].Name)
	assert.Equal(t, "杭州市西湖", artifact.Points[1].Name)
	assert.Empty(t, artifact.Failures)
}

// Extraction capability failure attributes the whole text input and the
// pipeline continues with zero candidates.
func TestProcessExtractionFailure(t *testing.T) {
	services := &MockAMap{}
	p := newTestPipeline(&MockLLM{Err: errors.New("model timeout")}, services, nil)

	artifact := p.ProcessText(context.Background(), "从北京到上海")

	assert.False(t, artifact.Success)
	assert.Empty(t, artifact.Points)
	require.Len(t, artifact.Failures, 1)
	assert.Contains(t, artifact.Failures[0].Reason, "address extraction failed")
	assert.Zero(t, services.GeocodeCalls)
}

// Routing failure degrades: points and static map survive, the failure is
// recorded, and no route is attached.
func TestProcessRoutingFailure(t *testing.T) {
	mockLLM := &MockLLM{Response: `{"places": [{"address": "北京", "order": 1}, {"address": "广州", "order": 2}]}`}
	services := &MockAMap{
		GeocodeResults: map[string]*amap.GeocodeResult{
			"北京": {Matched: true, Lng: 116.40, Lat: 39.90, Level: "市"},
			"广州": {Matched: true, Lng: 113.26, Lat: 23.13, Level: "市"},
		},
		RouteErr: errors.New("route service down"),
	}

	p := newTestPipeline(mockLLM, services, nil)
	artifact := p.ProcessText(context.Background(), "从北京到广州")

	assert.True(t, artifact.Success)
	assert.Len(t, artifact.Points, 2)
	assert.Nil(t, artifact.RouteData)
	assert.NotEmpty(t, artifact.StaticMapURL)

	require.Len(t, artifact.Failures, 1)
	assert.Equal(t, "route", artifact.Failures[0].SourceID)
}

// A single resolved point succeeds without any routing call.
func TestProcessSinglePointNoRoute(t *testing.T) {
	mockLLM := &MockLLM{Response: `{"places": [{"address": "西湖"}]}`}
	services := &MockAMap{
		GeocodeResults: map[string]*amap.GeocodeResult{
			"西湖": {Matched: true, Lng: 120.15, Lat: 30.25, Level: "兴趣点"},
		},
	}

	p := newTestPipeline(mockLLM, services, nil)
	artifact := p.ProcessText(context.Background(), "我去了西湖")

	assert.True(t, artifact.Success)
	assert.Len(t, artifact.Points, 1)
	assert.Nil(t, artifact.RouteData)
	assert.Zero(t, services.RouteCalls)
}

func TestProcessEmptyRequest(t *testing.T) {
	p := newTestPipeline(&MockLLM{}, &MockAMap{}, nil)

	artifact := p.Process(context.Background(), Request{})

	assert.False(t, artifact.Success)
	assert.Empty(t, artifact.Points)
	assert.Empty(t, artifact.Failures)
}

func TestProcessModeThreadedToPlanner(t *testing.T) {
	mockLLM := &MockLLM{Response: `{"places": [{"address": "北京", "order": 1}, {"address": "广州", "order": 2}]}`}
	services := &MockAMap{
		GeocodeResults: map[string]*amap.GeocodeResult{
			"北京": {Matched: true, Lng: 116.40, Lat: 39.90, Level: "市"},
			"广州": {Matched: true, Lng: 113.26, Lat: 23.13, Level: "市"},
		},
		RouteResp: tripRoute,
	}

	p := newTestPipeline(mockLLM, services, nil)
	p.Process(context.Background(), Request{Text: "从北京到广州", Mode: "walking"})

	assert.Equal(t, "walking", services.RouteMode)
}
