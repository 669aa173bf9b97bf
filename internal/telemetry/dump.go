package telemetry

import (
	"strings"

	"hwpanel/internal/layout"
)

// SensorEntry is one row of the sensor table dump.
type SensorEntry struct {
	Index          int    `json:"index"`
	SensorID       uint32 `json:"sensorId"`
	SensorInstance uint32 `json:"sensorInstance"`
	NameOriginal   string `json:"nameOriginal"`
	NameUser       string `json:"nameUser"`
}

type SensorDump struct {
	Header  layout.Header `json:"header"`
	Sensors []SensorEntry `json:"sensors"`
}

// ReadingEntry is one row of the reading table dump.
type ReadingEntry struct {
	Index         int     `json:"index"`
	SensorIndex   uint32  `json:"sensorIndex"`
	Type          string  `json:"type"`
	LabelOriginal string  `json:"labelOriginal"`
	LabelUser     string  `json:"labelUser"`
	Unit          string  `json:"unit"`
	Value         float64 `json:"value"`
}

type ReadingDump struct {
	Header   layout.Header  `json:"header"`
	Readings []ReadingEntry `json:"readings"`
}

// DumpSensors lists the raw sensor table in table order.
func (p *Poller) DumpSensors() (SensorDump, error) {
	var dump SensorDump
	err := p.withTables(func(h layout.Header, sensors []layout.Sensor, _ []layout.Reading) {
		dump.Header = h
		dump.Sensors = make([]SensorEntry, 0, len(sensors))
		for _, s := range sensors {
			dump.Sensors = append(dump.Sensors, SensorEntry{
				Index:          s.Index,
				SensorID:       s.ID,
				SensorInstance: s.Instance,
				NameOriginal:   s.NameOriginal,
				NameUser:       s.NameUser,
			})
		}
	})
	return dump, err
}

// DumpReadings lists the raw reading table in table order, keeping only
// readings whose original label contains filter (case-insensitive). An
// empty filter keeps everything.
func (p *Poller) DumpReadings(filter string) (ReadingDump, error) {
	filter = strings.ToLower(filter)

	var dump ReadingDump
	err := p.withTables(func(h layout.Header, _ []layout.Sensor, readings []layout.Reading) {
		dump.Header = h
		dump.Readings = make([]ReadingEntry, 0, len(readings))
		for _, r := range readings {
			if filter != "" && !strings.Contains(r.Label(), filter) {
				continue
			}
			dump.Readings = append(dump.Readings, ReadingEntry{
				Index:         r.Index,
				SensorIndex:   r.SensorIndex,
				Type:          r.Type.String(),
				LabelOriginal: r.LabelOriginal,
				LabelUser:     r.LabelUser,
				Unit:          r.Unit,
				Value:         r.Value,
			})
		}
	})
	return dump, err
}
