package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/geoweave/geoweave/internal/amap"
	"github.com/geoweave/geoweave/internal/core/model"
)

const (
	defaultConcurrency = 4
	maxConcurrency     = 8
	defaultMaxRetries  = 2
	defaultTimeout     = 10 * time.Second
)

var errNoMatch = errors.New("no geocoding match")

// Config bounds the geocoder's use of the external service: a parallelism cap
// for rate limits, a retry ceiling, and a per-mention deadline so a dead
// service cannot stall the batch.
type Config struct {
	Concurrency int
	MaxRetries  int
	Timeout     time.Duration
}

type Geocoder struct {
	Service     amap.GeocodeService
	concurrency int
	maxRetries  uint64
	timeout     time.Duration

	// retryInterval overrides the backoff's initial interval; zero keeps the
	// library default.
	retryInterval time.Duration
}

func NewGeocoder(service amap.GeocodeService, cfg Config) *Geocoder {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Concurrency > maxConcurrency {
		cfg.Concurrency = maxConcurrency
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Geocoder{
		Service:     service,
		concurrency: cfg.Concurrency,
		maxRetries:  uint64(cfg.MaxRetries),
		timeout:     cfg.Timeout,
	}
}

// Resolve maps one mention to a ResolvedPoint. It never returns an error: a
// terminal failure is encoded as confidence=failed with a reason, so a bad
// mention cannot abort its siblings.
func (g *Geocoder) Resolve(ctx context.Context, m model.CandidateMention) model.ResolvedPoint {
	point := model.ResolvedPoint{
		ID:            m.SourceID,
		Name:          m.RawText,
		SourceKind:    m.SourceKind,
		Timestamp:     m.TimestampHint,
		OrderHint:     m.OrderHint,
		TimeMentioned: m.TimeMentioned,
	}

	// Image mentions already carry coordinates; no external call.
	if m.Coordinate != nil {
		if !m.Coordinate.Valid() {
			point.Confidence = model.ConfidenceFailed
			point.Reason = fmt.Sprintf("coordinate out of range: %.6f,%.6f", m.Coordinate.Lng, m.Coordinate.Lat)
			return point
		}
		point.Lng = m.Coordinate.Lng
		point.Lat = m.Coordinate.Lat
		point.Confidence = model.ConfidenceExact
		return point
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	operation := func() (*amap.GeocodeResult, error) {
		res, err := g.Service.Geocode(ctx, m.RawText)
		if err != nil {
			return nil, err
		}
		if !res.Matched {
			// A definitive "not found" is not worth retrying.
			return nil, backoff.Permanent(errNoMatch)
		}
		return res, nil
	}

	res, err := backoff.RetryWithData(operation, g.newPolicy(ctx))
	if err != nil {
		point.Confidence = model.ConfidenceFailed
		point.Reason = fmt.Sprintf("geocoding %q failed: %v", m.RawText, err)
		return point
	}

	coord := model.LngLat{Lng: res.Lng, Lat: res.Lat}
	if !coord.Valid() {
		point.Confidence = model.ConfidenceFailed
		point.Reason = fmt.Sprintf("service returned coordinate out of range: %.6f,%.6f", coord.Lng, coord.Lat)
		return point
	}

	point.Lng = coord.Lng
	point.Lat = coord.Lat
	point.Confidence = confidenceFromLevel(res.Level)
	if res.FormattedAddress != "" {
		point.Name = res.FormattedAddress
	}
	return point
}

func (g *Geocoder) newPolicy(ctx context.Context) backoff.BackOffContext {
	eb := backoff.NewExponentialBackOff()
	if g.retryInterval > 0 {
		eb.InitialInterval = g.retryInterval
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, g.maxRetries), ctx)
}

// ResolveAll resolves mentions with bounded parallelism. The returned slice
// always has len(mentions) entries in input order, whatever the completion
// order was.
func (g *Geocoder) ResolveAll(ctx context.Context, mentions []model.CandidateMention) []model.ResolvedPoint {
	results := make([]model.ResolvedPoint, len(mentions))

	var grp errgroup.Group
	grp.SetLimit(g.concurrency)
	for i, m := range mentions {
		i, m := i, m
		grp.Go(func() error {
			results[i] = g.Resolve(ctx, m)
			return nil
		})
	}
	// Workers never return errors; failures are encoded per-point.
	_ = grp.Wait()

	return results
}

// Coarse administrative match levels from the geocoding service; anything
// finer counts as exact.
var approximateLevels = map[string]bool{
	"国家":   true,
	"省":    true,
	"市":    true,
	"区县":   true,
	"开发区":  true,
	"乡镇":   true,
	"村庄":   true,
	"热点商圈": true,
	"未知":   true,
}

func confidenceFromLevel(level string) model.Confidence {
	if approximateLevels[level] {
		return model.ConfidenceApproximate
	}
	return model.ConfidenceExact
}
