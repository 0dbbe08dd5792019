package model

type OrderingMethod string

const (
	OrderChronological   OrderingMethod = "chronological"
	OrderExtractionOrder OrderingMethod = "extraction-order"
	OrderFallback        OrderingMethod = "fallback"
)

// Itinerary is the final ordered trip sequence. Only successfully resolved
// points appear in it; it is immutable once built.
type Itinerary struct {
	Points         []ResolvedPoint
	OrderingMethod OrderingMethod
}
