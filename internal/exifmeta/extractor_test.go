package exifmeta

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNonJPEG(t *testing.T) {
	t.Parallel()

	e := NewExtractor(zerolog.Nop())

	tests := []struct {
		name     string
		mimeType string
	}{
		{name: "png", mimeType: "image/png"},
		{name: "gif", mimeType: "image/gif"},
		{name: "pdf", mimeType: "application/pdf"},
		{name: "empty mime", mimeType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta := e.Extract([]byte{0x89, 0x50, 0x4e, 0x47}, tt.mimeType)
			assert.False(t, meta.HasExif())
			assert.False(t, meta.HasGPS())
		})
	}
}

func TestExtractCorruptJPEG(t *testing.T) {
	t.Parallel()

	e := NewExtractor(zerolog.Nop())

	// Truncated garbage must degrade to an empty result, never an error.
	meta := e.Extract([]byte{0xff, 0xd8, 0xff, 0x00, 0x01, 0x02}, "image/jpeg")
	assert.False(t, meta.HasExif())
	assert.Nil(t, meta.CapturedAt)
	assert.Nil(t, meta.Latitude)
	assert.Nil(t, meta.Longitude)
}

func TestExtractEmptyPayload(t *testing.T) {
	t.Parallel()

	e := NewExtractor(zerolog.Nop())
	meta := e.Extract(nil, "image/jpg")
	assert.False(t, meta.HasExif())
}

func TestExtractFullMetadata(t *testing.T) {
	t.Parallel()

	e := NewExtractor(zerolog.Nop())

	t.Run("hemisphere refs present", func(t *testing.T) {
		t.Parallel()

		meta := e.Extract(exifFixture(true), "image/jpeg")

		require.NotNil(t, meta.CameraMake)
		assert.Equal(t, "Canon", *meta.CameraMake)
		require.NotNil(t, meta.CameraModel)
		assert.Equal(t, "EOS 80D", *meta.CameraModel)

		require.NotNil(t, meta.CapturedAt)
		assert.True(t, meta.CapturedAt.Equal(time.Date(2023, 5, 17, 10, 11, 12, 0, time.UTC)))

		require.True(t, meta.HasGPS())
		assert.InDelta(t, -14.5547, *meta.Latitude, 1e-6)
		assert.InDelta(t, 120.9822, *meta.Longitude, 1e-6)
		assert.True(t, meta.HasExif())
	})

	t.Run("missing refs default to north and east", func(t *testing.T) {
		t.Parallel()

		meta := e.Extract(exifFixture(false), "image/jpeg")

		require.True(t, meta.HasGPS())
		assert.InDelta(t, 14.5547, *meta.Latitude, 1e-6)
		assert.InDelta(t, 120.9822, *meta.Longitude, 1e-6)
	})
}

const (
	tiffTypeASCII    = 2
	tiffTypeLong     = 4
	tiffTypeRational = 5
)

// exifFixture builds the little-endian TIFF structure that a JPEG APP1
// segment embeds; goexif decodes it from the bare bytes, so the fixture
// skips the JPEG wrapper. IFD0 carries Make/Model plus pointers to an Exif
// sub-IFD (DateTimeOriginal) and a GPS sub-IFD (14°33'16.92" S-or-default,
// 120°58'55.92" E-or-default).
func exifFixture(withRefs bool) []byte {
	type entry struct {
		tag   uint16
		typ   uint16
		count uint32
		value []byte
	}

	ascii := func(s string) []byte { return append([]byte(s), 0) }
	rationals := func(parts ...uint32) []byte {
		b := make([]byte, 0, len(parts)*4)
		for _, v := range parts {
			b = binary.LittleEndian.AppendUint32(b, v)
		}
		return b
	}
	pointer := func(offset uint32) []byte {
		return binary.LittleEndian.AppendUint32(nil, offset)
	}

	var gpsEntries []entry
	if withRefs {
		gpsEntries = append(gpsEntries, entry{tag: 0x0001, typ: tiffTypeASCII, value: ascii("S")})
	}
	gpsEntries = append(gpsEntries, entry{tag: 0x0002, typ: tiffTypeRational, count: 3, value: rationals(14, 1, 33, 1, 1692, 100)})
	if withRefs {
		gpsEntries = append(gpsEntries, entry{tag: 0x0003, typ: tiffTypeASCII, value: ascii("E")})
	}
	gpsEntries = append(gpsEntries, entry{tag: 0x0004, typ: tiffTypeRational, count: 3, value: rationals(120, 1, 58, 1, 5592, 100)})

	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }
	ifd0Offset := uint32(8)
	exifOffset := ifd0Offset + ifdSize(4)
	gpsOffset := exifOffset + ifdSize(1)
	valueBase := gpsOffset + ifdSize(len(gpsEntries))

	ifd0 := []entry{
		{tag: 0x010f, typ: tiffTypeASCII, value: ascii("Canon")},
		{tag: 0x0110, typ: tiffTypeASCII, value: ascii("EOS 80D")},
		{tag: 0x8769, typ: tiffTypeLong, count: 1, value: pointer(exifOffset)},
		{tag: 0x8825, typ: tiffTypeLong, count: 1, value: pointer(gpsOffset)},
	}
	exifIFD := []entry{
		{tag: 0x9003, typ: tiffTypeASCII, value: ascii("2023:05:17 10:11:12")},
	}

	var out bytes.Buffer
	var values bytes.Buffer
	out.Write([]byte{'I', 'I', 0x2a, 0x00})
	out.Write(pointer(ifd0Offset))

	writeIFD := func(entries []entry) {
		var b [4]byte
		binary.LittleEndian.PutUint16(b[:2], uint16(len(entries)))
		out.Write(b[:2])
		for _, e := range entries {
			count := e.count
			if e.typ == tiffTypeASCII {
				count = uint32(len(e.value))
			}
			binary.LittleEndian.PutUint16(b[:2], e.tag)
			out.Write(b[:2])
			binary.LittleEndian.PutUint16(b[:2], e.typ)
			out.Write(b[:2])
			binary.LittleEndian.PutUint32(b[:], count)
			out.Write(b[:])
			if len(e.value) <= 4 {
				var inline [4]byte
				copy(inline[:], e.value)
				out.Write(inline[:])
			} else {
				binary.LittleEndian.PutUint32(b[:], valueBase+uint32(values.Len()))
				out.Write(b[:])
				values.Write(e.value)
			}
		}
		out.Write([]byte{0, 0, 0, 0})
	}

	writeIFD(ifd0)
	writeIFD(exifIFD)
	writeIFD(gpsEntries)
	out.Write(values.Bytes())

	return out.Bytes()
}

func TestMetadataFlags(t *testing.T) {
	t.Parallel()

	lat, lng := 14.5547, 121.0244
	camera := "TestCam"

	assert.False(t, Metadata{}.HasExif())
	assert.True(t, Metadata{CameraMake: &camera}.HasExif())
	assert.False(t, Metadata{Latitude: &lat}.HasGPS())
	assert.True(t, Metadata{Latitude: &lat, Longitude: &lng}.HasGPS())
}
