package model

import "time"

type Confidence string

const (
	ConfidenceExact       Confidence = "exact"
	ConfidenceApproximate Confidence = "approximate"
	ConfidenceFailed      Confidence = "failed"
)

type Role string

const (
	RoleStart    Role = "start"
	RoleEnd      Role = "end"
	RoleWaypoint Role = "waypoint"
)

// ResolvedPoint is a mention after geocoding. Confidence=failed means the
// coordinate fields are meaningless; the record survives only so the failure
// can be reported.
type ResolvedPoint struct {
	ID         string
	Name       string
	Lng        float64
	Lat        float64
	Confidence Confidence
	SourceKind SourceKind
	Timestamp  *time.Time
	OrderHint  *int
	Role       Role

	TimeMentioned string

	// Reason explains a failed resolution.
	Reason string
}

// Failed is shorthand for a terminal geocoding failure.
func (p ResolvedPoint) Failed() bool {
	return p.Confidence == ConfidenceFailed
}

// Failure is one recorded defect, attributed to the input that caused it.
type Failure struct {
	SourceID string `json:"sourceId"`
	Reason   string `json:"reason"`
}
