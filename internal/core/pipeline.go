package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/config"
	"github.com/geoweave/geoweave/internal/core/assemble"
	"github.com/geoweave/geoweave/internal/core/extraction"
	"github.com/geoweave/geoweave/internal/core/geocode"
	"github.com/geoweave/geoweave/internal/core/itinerary"
	"github.com/geoweave/geoweave/internal/core/model"
	"github.com/geoweave/geoweave/internal/core/normalize"
	"github.com/geoweave/geoweave/internal/core/route"
	"github.com/geoweave/geoweave/internal/imagemeta"
	"github.com/geoweave/geoweave/internal/llm"
)

// ImageInput is one uploaded image. Name is used to attribute failures.
type ImageInput struct {
	Name string
	Data []byte
}

// Request is one unit of work: free text and/or images arriving together.
// Mode overrides the configured travel mode for route planning.
type Request struct {
	Text   string
	Images []ImageInput
	Mode   string
}

// Pipeline wires the extraction-to-itinerary stages for one request at a
// time. It holds no per-request state; every Process call works on its own
// data, so concurrent requests never share anything mutable.
type Pipeline struct {
	Normalizer *normalize.Normalizer
	Extractor  *extraction.Extractor
	Geocoder   *geocode.Geocoder
	Planner    *route.Planner
	StaticMap  amap.StaticMapService
}

// AMapServices groups the capability interfaces one AMap client satisfies.
type AMapServices interface {
	amap.GeocodeService
	amap.RouteService
	amap.StaticMapService
}

func NewPipeline(llmClient llm.LLMClient, services AMapServices, meta imagemeta.Reader, cfg *config.Config) *Pipeline {
	return &Pipeline{
		Normalizer: normalize.NewNormalizer(meta),
		Extractor:  extraction.NewExtractor(llmClient, cfg.Extraction.Places),
		Geocoder: geocode.NewGeocoder(services, geocode.Config{
			Concurrency: cfg.Concurrency.Geocode,
			MaxRetries:  cfg.Geocode.MaxRetries,
			Timeout:     secondsOrZero(cfg.Geocode.TimeoutSeconds),
		}),
		Planner:   route.NewPlanner(services, cfg.Route.Mode),
		StaticMap: services,
	}
}

// ProcessText runs the pipeline over a free-text trip description.
func (p *Pipeline) ProcessText(ctx context.Context, text string) model.MapArtifact {
	return p.Process(ctx, Request{Text: text})
}

// ProcessImage runs the pipeline over a single uploaded image.
func (p *Pipeline) ProcessImage(ctx context.Context, name string, data []byte) model.MapArtifact {
	return p.Process(ctx, Request{Images: []ImageInput{{Name: name, Data: data}}})
}

// Process runs the full pipeline: normalize → extract → geocode → order →
// route → assemble. Partial failures are accumulated, never raised; only a
// request that resolves nothing comes back with success=false.
func (p *Pipeline) Process(ctx context.Context, req Request) model.MapArtifact {
	var mentions []model.CandidateMention
	var failures []model.Failure

	for _, img := range req.Images {
		sourceID := img.Name
		if sourceID == "" {
			sourceID = "image-" + uuid.New().String()
		}
		ms, fs := p.Normalizer.NormalizeImage(img.Data, sourceID)
		mentions = append(mentions, ms...)
		failures = append(failures, fs...)
	}

	if req.Text != "" {
		textID := "text-" + uuid.New().String()
		textMentions, fs := p.Normalizer.NormalizeText(req.Text, textID)
		failures = append(failures, fs...)

		for _, tm := range textMentions {
			extracted, fs := p.extractMentions(ctx, tm)
			mentions = append(mentions, extracted...)
			failures = append(failures, fs...)
		}
	}

	points := p.Geocoder.ResolveAll(ctx, mentions)
	for _, pt := range points {
		if pt.Failed() {
			failures = append(failures, model.Failure{SourceID: pt.ID, Reason: pt.Reason})
		}
	}

	it := itinerary.Build(points)

	geom, err := p.Planner.PlanMode(ctx, it, req.Mode)
	if err != nil {
		log.Printf("route planning failed: %v", err)
		failures = append(failures, model.Failure{SourceID: "route", Reason: err.Error()})
		geom = nil
	}

	staticURL := ""
	if len(it.Points) > 0 {
		waypoints := make([]amap.Waypoint, len(it.Points))
		for i, pt := range it.Points {
			waypoints[i] = amap.Waypoint{Lng: pt.Lng, Lat: pt.Lat}
		}
		staticURL = p.StaticMap.StaticMapURL(waypoints)
	}

	return assemble.Assemble(it, geom, staticURL, failures)
}

// extractMentions turns one text mention into per-place mentions. An
// extraction failure attributes the whole text input as unresolved and the
// pipeline continues with zero candidates from it.
func (p *Pipeline) extractMentions(ctx context.Context, tm model.CandidateMention) ([]model.CandidateMention, []model.Failure) {
	places, err := p.Extractor.Extract(ctx, tm.RawText)
	if err != nil {
		log.Printf("address extraction failed for %s: %v", tm.SourceID, err)
		return nil, []model.Failure{{SourceID: tm.SourceID, Reason: fmt.Sprintf("address extraction failed: %v", err)}}
	}

	mentions := make([]model.CandidateMention, 0, len(places))
	for i, place := range places {
		mentions = append(mentions, model.CandidateMention{
			RawText:       place.Address,
			SourceKind:    model.SourceText,
			SourceID:      fmt.Sprintf("%s#%d", tm.SourceID, i),
			OrderHint:     place.Order,
			TimeMentioned: place.TimeMentioned,
		})
	}
	return mentions, nil
}

func secondsOrZero(s int) (d time.Duration) {
	if s > 0 {
		d = time.Duration(s) * time.Second
	}
	return d
}
