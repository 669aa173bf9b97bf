package layout

import (
	"encoding/binary"
	"strings"
)

// ReadingType tags what a reading measures.
type ReadingType uint32

const (
	TypeNone ReadingType = iota
	TypeTemperature
	TypeVoltage
	TypeFan
	TypeCurrent
	TypePower
	TypeClock
	TypeUsage
	TypeOther
)

var readingTypeNames = [...]string{"none", "temperature", "voltage", "fan", "current", "power", "clock", "usage", "other"}

func (t ReadingType) String() string {
	if int(t) < len(readingTypeNames) {
		return readingTypeNames[t]
	}
	return "unknown"
}

// Sensor is one entry of the sensor table.
type Sensor struct {
	Index        int
	ID           uint32
	Instance     uint32
	NameOriginal string
	NameUser     string
}

// Reading is one entry of the reading table.
type Reading struct {
	Index         int
	Type          ReadingType
	SensorIndex   uint32
	ID            uint32
	LabelOriginal string
	LabelUser     string
	Unit          string
	Value         float64
	Min           float64
	Max           float64
	Avg           float64
}

// Label returns the lower-cased original label used for matching.
func (r Reading) Label() string {
	return strings.ToLower(r.LabelOriginal)
}

// DisplayLabel prefers the user's custom label.
func (r Reading) DisplayLabel() string {
	if r.LabelUser != "" {
		return r.LabelUser
	}
	return r.LabelOriginal
}

// DecodeSensors returns the in-range sensor entries in table order.
// Index records each entry's table position.
func DecodeSensors(v View, h Header) []Sensor {
	sensors := make([]Sensor, 0, min(int(h.SensorCount), v.Len()/SensorSize))
	eachRecord(v, h.SensorOffset, h.SensorStride, h.SensorCount, SensorSize, func(i int, b []byte) {
		le := binary.LittleEndian
		sensors = append(sensors, Sensor{
			Index:        i,
			ID:           le.Uint32(b[0:]),
			Instance:     le.Uint32(b[4:]),
			NameOriginal: Text(b[8 : 8+nameSize]),
			NameUser:     Text(b[8+nameSize : 8+2*nameSize]),
		})
	})
	return sensors
}

// DecodeReadings returns the in-range reading entries in table order.
func DecodeReadings(v View, h Header) []Reading {
	readings := make([]Reading, 0, min(int(h.ReadingCount), v.Len()/ReadingSize))
	eachRecord(v, h.ReadingOffset, h.ReadingStride, h.ReadingCount, ReadingSize, func(i int, b []byte) {
		le := binary.LittleEndian
		const labels = 12
		const unit = labels + 2*nameSize
		const values = unit + unitSize
		readings = append(readings, Reading{
			Index:         i,
			Type:          ReadingType(le.Uint32(b[0:])),
			SensorIndex:   le.Uint32(b[4:]),
			ID:            le.Uint32(b[8:]),
			LabelOriginal: Text(b[labels : labels+nameSize]),
			LabelUser:     Text(b[labels+nameSize : unit]),
			Unit:          Text(b[unit:values]),
			Value:         float64At(b[values:]),
			Min:           float64At(b[values+8:]),
			Max:           float64At(b[values+16:]),
			Avg:           float64At(b[values+24:]),
		})
	})
	return readings
}
