// Package exifmeta extracts camera and GPS metadata from uploaded photos.
// Extraction is best-effort: corrupt files, missing tags, and unparsable
// values degrade to a partial or empty result, never to an upload failure.
package exifmeta

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"pms-service/internal/geo"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// Metadata is the fully-typed partial result of an extraction attempt.
// Every field is optional; HasExif reports whether any tag was read at all.
type Metadata struct {
	CameraMake  *string
	CameraModel *string
	CapturedAt  *time.Time
	Latitude    *float64
	Longitude   *float64
}

func (m Metadata) HasGPS() bool {
	return m.Latitude != nil && m.Longitude != nil
}

func (m Metadata) HasExif() bool {
	return m.CameraMake != nil || m.CameraModel != nil || m.CapturedAt != nil || m.HasGPS()
}

type Extractor struct {
	log zerolog.Logger
}

func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract reads EXIF tags from the raw image bytes. Only JPEG carries
// extractable tags; other MIME types yield an empty result without error.
func (e *Extractor) Extract(data []byte, mimeType string) Metadata {
	var meta Metadata

	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
	default:
		return meta
	}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		e.log.Warn().Err(err).Msg("exif decode failed, continuing without metadata")
		return meta
	}

	if cameraMake, err := stringTag(x, exif.Make); err == nil {
		meta.CameraMake = &cameraMake
	}
	if cameraModel, err := stringTag(x, exif.Model); err == nil {
		meta.CameraModel = &cameraModel
	}

	if raw, err := stringTag(x, exif.DateTimeOriginal); err == nil {
		if ts, err := time.Parse(exifTimeLayout, raw); err == nil {
			meta.CapturedAt = &ts
		} else {
			e.log.Warn().Str("value", raw).Msg("unparsable exif capture timestamp")
		}
	}

	lat, lng, ok := e.gpsCoordinates(x)
	if ok {
		meta.Latitude = &lat
		meta.Longitude = &lng
	}

	return meta
}

// gpsCoordinates returns decimal-degree coordinates only when both the
// latitude and longitude tag groups are present. Reference hemisphere tags
// default to N/E when absent.
func (e *Extractor) gpsCoordinates(x *exif.Exif) (float64, float64, bool) {
	latTag, err := x.Get(exif.GPSLatitude)
	if err != nil {
		return 0, 0, false
	}
	lngTag, err := x.Get(exif.GPSLongitude)
	if err != nil {
		return 0, 0, false
	}

	latRef := "N"
	if ref, err := stringTag(x, exif.GPSLatitudeRef); err == nil && ref != "" {
		latRef = ref
	}
	lngRef := "E"
	if ref, err := stringTag(x, exif.GPSLongitudeRef); err == nil && ref != "" {
		lngRef = ref
	}

	latDeg, latMin, latSec, err := dmsComponents(latTag)
	if err != nil {
		e.log.Warn().Err(err).Msg("malformed gps latitude tag")
		return 0, 0, false
	}
	lngDeg, lngMin, lngSec, err := dmsComponents(lngTag)
	if err != nil {
		e.log.Warn().Err(err).Msg("malformed gps longitude tag")
		return 0, 0, false
	}

	lat := geo.DMSToDecimal(latDeg, latMin, latSec, latRef)
	lng := geo.DMSToDecimal(lngDeg, lngMin, lngSec, lngRef)
	return lat, lng, true
}

// dmsComponents renders the three rationals of a GPS tag as fraction strings,
// leaving zero-denominator handling to the decimal conversion.
func dmsComponents(tag *tiff.Tag) (string, string, string, error) {
	parts := make([]string, 3)
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return "", "", "", fmt.Errorf("rational %d: %w", i, err)
		}
		parts[i] = fmt.Sprintf("%d/%d", num, den)
	}
	return parts[0], parts[1], parts[2], nil
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", err
	}
	value, err := tag.StringVal()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
