package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/imagemeta"
)

type MockLLM struct {
	Response      string
	Err           error
	ResponseQueue []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// MockAMap satisfies core.AMapServices from fixed tables.
type MockAMap struct {
	mu sync.Mutex

	GeocodeResults map[string]*amap.GeocodeResult
	GeocodeErr     error
	GeocodeCalls   int

	RouteResp  *amap.DirectionResponse
	RouteErr   error
	RouteCalls int
	RouteMode  string
}

func (m *MockAMap) Geocode(ctx context.Context, address string) (*amap.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeocodeCalls++
	if m.GeocodeErr != nil {
		return nil, m.GeocodeErr
	}
	if res, ok := m.GeocodeResults[address]; ok {
		return res, nil
	}
	return &amap.GeocodeResult{Matched: false}, nil
}

func (m *MockAMap) PlanRoute(ctx context.Context, waypoints []amap.Waypoint, mode string) (*amap.DirectionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteCalls++
	m.RouteMode = mode
	if m.RouteErr != nil {
		return nil, m.RouteErr
	}
	return m.RouteResp, nil
}

func (m *MockAMap) StaticMapURL(points []amap.Waypoint) string {
	if len(points) == 0 {
		return ""
	}
	return fmt.Sprintf("https://maps.test/static?n=%d", len(points))
}

// MockMetaReader keys metadata by the image bytes themselves.
type MockMetaReader struct {
	Meta map[string]*imagemeta.Metadata
	Err  error
}

func (m *MockMetaReader) Read(data []byte) (*imagemeta.Metadata, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if meta, ok := m.Meta[string(data)]; ok {
		return meta, nil
	}
	return &imagemeta.Metadata{}, nil
}
