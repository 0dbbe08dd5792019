package normalize

import (
	"fmt"
	"strings"

	"github.com/geoweave/geoweave/internal/core/model"
	"github.com/geoweave/geoweave/internal/imagemeta"
)

// Normalizer turns raw inputs into candidate mentions. It does no linguistic
// analysis and no network I/O; image metadata is read through the injected
// Reader.
type Normalizer struct {
	Meta imagemeta.Reader
}

func NewNormalizer(meta imagemeta.Reader) *Normalizer {
	return &Normalizer{Meta: meta}
}

// NormalizeText emits a single mention carrying the full raw text. Splitting
// into place names belongs to the address extractor. Empty text is an input
// defect, recorded rather than raised.
func (n *Normalizer) NormalizeText(text, sourceID string) ([]model.CandidateMention, []model.Failure) {
	if strings.TrimSpace(text) == "" {
		return nil, []model.Failure{{SourceID: sourceID, Reason: "empty text input"}}
	}

	return []model.CandidateMention{{
		RawText:    text,
		SourceKind: model.SourceText,
		SourceID:   sourceID,
	}}, nil
}

// NormalizeImage emits exactly one mention when the image carries GPS tags,
// and zero otherwise. A photo without location metadata is valid input that
// contributes nothing; only unreadable bytes produce a failure entry.
func (n *Normalizer) NormalizeImage(data []byte, sourceID string) ([]model.CandidateMention, []model.Failure) {
	meta, err := n.Meta.Read(data)
	if err != nil {
		return nil, []model.Failure{{SourceID: sourceID, Reason: fmt.Sprintf("unreadable image: %v", err)}}
	}

	if !meta.HasGPS {
		return nil, nil
	}

	coord := model.LngLat{Lng: meta.Lng, Lat: meta.Lat}
	return []model.CandidateMention{{
		RawText:       fmt.Sprintf("%.6f,%.6f", coord.Lng, coord.Lat),
		SourceKind:    model.SourceImage,
		SourceID:      sourceID,
		TimestampHint: meta.Timestamp,
		Coordinate:    &coord,
	}}, nil
}
