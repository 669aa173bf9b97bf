// Package layout decodes the HWiNFO shared memory tables.
//
// The region starts with a fixed 44-byte header describing two tables:
// sensors (devices) and readings (typed values linked to a sensor by
// index). Fields are read explicitly in little-endian order; nothing is
// overlaid on the mapped memory. The publisher may rewrite the region
// while it is being decoded and offers no generation counter, so a torn
// read is possible and tolerated: every value is copied out once and any
// entry whose bytes fall outside the view is skipped.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Signature is the header magic, "HWiS" in little-endian byte order.
const Signature uint32 = 0x53695748

// Record sizes in bytes.
const (
	HeaderSize  = 44
	SensorSize  = 264
	ReadingSize = 316

	nameSize = 128
	unitSize = 16
)

// Header field offsets.
const (
	offSignature     = 0
	offVersion       = 4
	offRevision      = 8
	offPollTime      = 12
	OffSensorOffset  = 20
	OffSensorStride  = 24
	OffSensorCount   = 28
	OffReadingOffset = 32
	OffReadingStride = 36
	OffReadingCount  = 40
)

// ErrShortHeader is returned when the view cannot hold a header.
var ErrShortHeader = errors.New("shared memory view smaller than header")

// SignatureError reports an unexpected header magic.
type SignatureError struct {
	Observed uint32
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid HWiNFO signature 0x%08X (want 0x%08X)", e.Observed, Signature)
}

// Header describes the two tables.
type Header struct {
	Signature     uint32 `json:"signature"`
	Version       uint32 `json:"version"`
	Revision      uint32 `json:"revision"`
	PollTime      int64  `json:"pollTime"`
	SensorOffset  uint32 `json:"sensorSectionOffset"`
	SensorStride  uint32 `json:"sensorSectionSize"`
	SensorCount   uint32 `json:"sensorCount"`
	ReadingOffset uint32 `json:"readingSectionOffset"`
	ReadingStride uint32 `json:"readingSectionSize"`
	ReadingCount  uint32 `json:"readingCount"`
}

// View is a bounds-checked window over a mapped region.
type View struct {
	data []byte
}

func NewView(b []byte) View {
	return View{data: b}
}

func (v View) Len() int {
	return len(v.data)
}

// Slice returns n bytes at off. It reports false instead of panicking when
// the range does not fit.
func (v View) Slice(off, n uint64) ([]byte, bool) {
	size := uint64(len(v.data))
	if off > size || n > size-off {
		return nil, false
	}
	return v.data[off : off+n], true
}

// DecodeHeader reads and validates the header at offset 0.
func DecodeHeader(v View) (Header, error) {
	b, ok := v.Slice(0, HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, v.Len())
	}

	le := binary.LittleEndian
	h := Header{
		Signature:     le.Uint32(b[offSignature:]),
		Version:       le.Uint32(b[offVersion:]),
		Revision:      le.Uint32(b[offRevision:]),
		PollTime:      int64(le.Uint64(b[offPollTime:])),
		SensorOffset:  le.Uint32(b[OffSensorOffset:]),
		SensorStride:  le.Uint32(b[OffSensorStride:]),
		SensorCount:   le.Uint32(b[OffSensorCount:]),
		ReadingOffset: le.Uint32(b[OffReadingOffset:]),
		ReadingStride: le.Uint32(b[OffReadingStride:]),
		ReadingCount:  le.Uint32(b[OffReadingCount:]),
	}
	if h.Signature != Signature {
		return h, &SignatureError{Observed: h.Signature}
	}
	return h, nil
}

// eachRecord calls fn for every in-range entry of a table. Entries whose
// bytes exceed the view are skipped; once the start offset is past the end
// of the view no later entry can fit, so iteration stops.
func eachRecord(v View, offset, stride, count uint32, size int, fn func(index int, rec []byte)) {
	if stride == 0 {
		stride = uint32(size)
	}
	end := uint64(v.Len())
	for i := uint64(0); i < uint64(count); i++ {
		start := uint64(offset) + i*uint64(stride)
		if start > end {
			return
		}
		rec, ok := v.Slice(start, uint64(size))
		if !ok {
			continue
		}
		fn(int(i), rec)
	}
}

func float64At(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
