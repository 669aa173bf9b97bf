// Package correlate matches readings to their owning sensor's role and to
// the snapshot metric they describe.
//
// Each slot accepts only the first matching reading in table order; later
// matches are dropped. Readings that match no rule are ignored.
package correlate

import (
	"hwpanel/internal/layout"
	"hwpanel/internal/model"
	"hwpanel/internal/resolve"
)

// Result holds the CPU and GPU metrics plus every spinning fan that does
// not belong to a graphics card.
type Result struct {
	CPU  model.CPUMetrics
	GPU  model.GPUMetrics
	Fans []model.FanReading
}

// Correlate walks the reading table once.
func Correlate(readings []layout.Reading, roles resolve.Roles) Result {
	res := Result{
		CPU:  model.CPUMetrics{Name: roles.CPUName, CoreTemps: []float64{}},
		GPU:  model.GPUMetrics{Name: roles.GPUName},
		Fans: []model.FanReading{},
	}

	var filled [numSlots]bool
	seenCores := make(map[string]bool)

	for _, rd := range readings {
		if !roles.Valid(rd.SensorIndex) {
			continue
		}
		role := roles.Of(int(rd.SensorIndex)).Kind
		label := rd.Label()

		for _, rule := range Rules {
			if filled[rule.Slot] || rule.Type != rd.Type || rule.Role != role {
				continue
			}
			if !rule.Match(label, rd.Unit) {
				continue
			}
			v := rd.Value
			*res.slot(rule.Slot) = &v
			filled[rule.Slot] = true
		}

		if rd.Type == layout.TypeTemperature && role == resolve.CPU && isCoreTemp(label) && !seenCores[label] {
			seenCores[label] = true
			res.CPU.CoreTemps = append(res.CPU.CoreTemps, rd.Value)
		}

		if rd.Type == layout.TypeFan && role != resolve.GPU && !roles.GPUDevice(int(rd.SensorIndex)) && rd.Value > 0 {
			res.Fans = append(res.Fans, model.FanReading{Name: rd.DisplayLabel(), RPM: rd.Value})
		}
	}
	return res
}

func (r *Result) slot(s Slot) **float64 {
	switch s {
	case CPUTemp:
		return &r.CPU.PackageTempC
	case CPUPower:
		return &r.CPU.PackagePowerW
	case CPUClock:
		return &r.CPU.CoreClockMHz
	case CPUUsage:
		return &r.CPU.UsagePercent
	case GPUHotspot:
		return &r.GPU.HotspotTempC
	case GPUMemoryJunction:
		return &r.GPU.MemoryJunctionTempC
	case GPUPower:
		return &r.GPU.PowerW
	case GPUCoreClock:
		return &r.GPU.CoreClockMHz
	case GPUMemoryClock:
		return &r.GPU.MemoryClockMHz
	case GPUUsage:
		return &r.GPU.UsagePercent
	case GPUVRAMUsed:
		return &r.GPU.VRAMUsedMB
	case GPUVRAMTotal:
		return &r.GPU.VRAMTotalMB
	case GPUFanRPM:
		return &r.GPU.FanSpeedRPM
	case GPUFanPercent:
		return &r.GPU.FanSpeedPercent
	}
	panic("correlate: unknown slot")
}
