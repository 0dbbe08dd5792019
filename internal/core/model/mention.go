package model

import "time"

type SourceKind string

const (
	SourceImage SourceKind = "image"
	SourceText  SourceKind = "text"
)

// CandidateMention is an unresolved reference to a place, produced either from
// image metadata or from LLM address extraction over free text.
type CandidateMention struct {
	RawText    string
	SourceKind SourceKind
	SourceID   string

	// TimestampHint is the image capture time, when metadata carried one.
	TimestampHint *time.Time

	// Coordinate is set for image mentions whose GPS tags were already read;
	// the geocoder copies it instead of calling out.
	Coordinate *LngLat

	// OrderHint is the extraction-supplied relative visiting order, if any.
	OrderHint *int

	// TimeMentioned is a free-text time phrase the extractor attached to the
	// place ("下午三点", "last Tuesday"). Display only, never a sort key.
	TimeMentioned string
}

// LngLat is a WGS84-ish coordinate pair in AMap's lng-first convention.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Valid reports whether the pair is inside the representable range.
func (c LngLat) Valid() bool {
	return c.Lng >= -180 && c.Lng <= 180 && c.Lat >= -90 && c.Lat <= 90
}
