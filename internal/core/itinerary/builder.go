package itinerary

import (
	"sort"

	"github.com/geoweave/geoweave/internal/core/model"
)

// Build orders resolved points into a single trip sequence.
//
// Policy, in priority order:
//  1. every point has a timestamp → chronological, ties broken by input index
//  2. at least two points carry extraction order hints → hinted points sorted
//     by hint, un-hinted points appended in their original relative order
//  3. otherwise input order is preserved
//
// A mix of dated and undated points is never partially sorted by time; guessing
// "undated = now" would silently interleave photos and text mentions.
func Build(points []model.ResolvedPoint) model.Itinerary {
	kept := make([]model.ResolvedPoint, 0, len(points))
	for _, p := range points {
		if !p.Failed() {
			kept = append(kept, p)
		}
	}

	var method model.OrderingMethod
	switch {
	case len(kept) > 0 && allTimestamped(kept):
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Timestamp.Before(*kept[j].Timestamp)
		})
		method = model.OrderChronological

	case countHinted(kept) >= 2:
		kept = sortByHint(kept)
		method = model.OrderExtractionOrder

	default:
		method = model.OrderFallback
	}

	if len(kept) >= 2 {
		for i := range kept {
			kept[i].Role = model.RoleWaypoint
		}
		kept[0].Role = model.RoleStart
		kept[len(kept)-1].Role = model.RoleEnd
	}

	return model.Itinerary{Points: kept, OrderingMethod: method}
}

func allTimestamped(points []model.ResolvedPoint) bool {
	for _, p := range points {
		if p.Timestamp == nil {
			return false
		}
	}
	return true
}

func countHinted(points []model.ResolvedPoint) int {
	n := 0
	for _, p := range points {
		if p.OrderHint != nil {
			n++
		}
	}
	return n
}

func sortByHint(points []model.ResolvedPoint) []model.ResolvedPoint {
	hinted := make([]model.ResolvedPoint, 0, len(points))
	rest := make([]model.ResolvedPoint, 0, len(points))
	for _, p := range points {
		if p.OrderHint != nil {
			hinted = append(hinted, p)
		} else {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(hinted, func(i, j int) bool {
		return *hinted[i].OrderHint < *hinted[j].OrderHint
	})
	return append(hinted, rest...)
}
