// Package imagemeta isolates EXIF parsing behind a small capability boundary:
// image bytes in, an optional GPS coordinate and capture time out.
package imagemeta

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is what a photo contributes to the pipeline. HasGPS=false with a
// nil error is the normal case for a photo without location tags.
type Metadata struct {
	HasGPS    bool
	Lng       float64
	Lat       float64
	Timestamp *time.Time
}

// Reader extracts Metadata from raw image bytes. An error means the bytes
// were not a readable image, not that GPS tags were missing.
type Reader interface {
	Read(data []byte) (*Metadata, error)
}

// ExifReader is the production Reader backed by goexif.
type ExifReader struct{}

func NewExifReader() *ExifReader {
	return &ExifReader{}
}

func (r *ExifReader) Read(data []byte) (*Metadata, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// goexif cannot distinguish "no EXIF block" from garbage bytes, so a
		// recognizable image container still counts as readable: it simply
		// contributes nothing.
		if looksLikeImage(data) {
			return &Metadata{}, nil
		}
		return nil, err
	}

	meta := &Metadata{}

	// goexif converts the DMS rationals and N/S/E/W refs to signed decimal.
	lat, lng, err := x.LatLong()
	if err == nil {
		meta.HasGPS = true
		meta.Lat = lat
		meta.Lng = lng
	}

	if ts, err := x.DateTime(); err == nil {
		meta.Timestamp = &ts
	}

	return meta, nil
}

var imageMagics = [][]byte{
	{0xFF, 0xD8, 0xFF},             // JPEG
	{0x89, 'P', 'N', 'G'},          // PNG
	{'I', 'I', 0x2A, 0x00},         // TIFF little-endian
	{'M', 'M', 0x00, 0x2A},         // TIFF big-endian
	{'R', 'I', 'F', 'F'},           // WebP (RIFF container)
	{'G', 'I', 'F', '8'},           // GIF
}

func looksLikeImage(data []byte) bool {
	for _, magic := range imageMagics {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}
