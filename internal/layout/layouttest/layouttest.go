// Package layouttest builds synthetic shared memory regions for tests.
package layouttest

import (
	"encoding/binary"
	"math"

	"hwpanel/internal/layout"
)

type Sensor struct {
	ID       uint32
	Instance uint32
	Name     string
	UserName string
}

type Reading struct {
	Type        layout.ReadingType
	SensorIndex uint32
	ID          uint32
	Label       string
	UserLabel   string
	Unit        string
	Value       float64
}

// Region describes a region to encode. A zero Signature encodes the
// expected magic.
type Region struct {
	Signature uint32
	Version   uint32
	Revision  uint32
	PollTime  int64
	Sensors   []Sensor
	Readings  []Reading
}

// Build encodes the region with the sensor table right after the header
// and the reading table right after the sensors.
func Build(sensors []Sensor, readings []Reading) []byte {
	return Region{Sensors: sensors, Readings: readings}.Bytes()
}

func (r Region) Bytes() []byte {
	sensorOff := layout.HeaderSize
	readingOff := sensorOff + len(r.Sensors)*layout.SensorSize
	buf := make([]byte, readingOff+len(r.Readings)*layout.ReadingSize)

	sig := r.Signature
	if sig == 0 {
		sig = layout.Signature
	}
	le := binary.LittleEndian
	le.PutUint32(buf[0:], sig)
	le.PutUint32(buf[4:], r.Version)
	le.PutUint32(buf[8:], r.Revision)
	le.PutUint64(buf[12:], uint64(r.PollTime))
	le.PutUint32(buf[layout.OffSensorOffset:], uint32(sensorOff))
	le.PutUint32(buf[layout.OffSensorStride:], layout.SensorSize)
	le.PutUint32(buf[layout.OffSensorCount:], uint32(len(r.Sensors)))
	le.PutUint32(buf[layout.OffReadingOffset:], uint32(readingOff))
	le.PutUint32(buf[layout.OffReadingStride:], layout.ReadingSize)
	le.PutUint32(buf[layout.OffReadingCount:], uint32(len(r.Readings)))

	for i, s := range r.Sensors {
		b := buf[sensorOff+i*layout.SensorSize:]
		le.PutUint32(b[0:], s.ID)
		le.PutUint32(b[4:], s.Instance)
		copy(b[8:8+128], s.Name)
		copy(b[136:136+128], s.UserName)
	}
	for i, rd := range r.Readings {
		b := buf[readingOff+i*layout.ReadingSize:]
		le.PutUint32(b[0:], uint32(rd.Type))
		le.PutUint32(b[4:], rd.SensorIndex)
		le.PutUint32(b[8:], rd.ID)
		copy(b[12:12+128], rd.Label)
		copy(b[140:140+128], rd.UserLabel)
		copy(b[268:268+16], rd.Unit)
		for j := 0; j < 4; j++ {
			le.PutUint64(b[284+8*j:], math.Float64bits(rd.Value))
		}
	}
	return buf
}

// SetUint32 overwrites a header field, e.g. layout.OffReadingCount.
func SetUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}
