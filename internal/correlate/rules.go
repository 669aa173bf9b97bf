package correlate

import (
	"regexp"
	"strings"

	"hwpanel/internal/layout"
	"hwpanel/internal/resolve"
)

// Slot is a single metric in the snapshot that a reading can fill.
type Slot int

const (
	CPUTemp Slot = iota
	CPUPower
	CPUClock
	CPUUsage
	GPUHotspot
	GPUMemoryJunction
	GPUPower
	GPUCoreClock
	GPUMemoryClock
	GPUUsage
	GPUVRAMUsed
	GPUVRAMTotal
	GPUFanRPM
	GPUFanPercent

	numSlots
)

// Predicate matches a lower-cased reading label and its unit.
type Predicate func(label, unit string) bool

// Rule routes readings of one type, owned by a sensor of one role, into a
// slot. New vendor label variants are added here as data.
type Rule struct {
	Slot  Slot
	Type  layout.ReadingType
	Role  resolve.Kind
	Match Predicate
}

// Rules are evaluated in order for every reading.
var Rules = []Rule{
	{CPUTemp, layout.TypeTemperature, resolve.CPU, or(
		anyOf("cpu temp", "tctl", "tdie"),
		allOf("cpu", "package", "temp"),
		equals("cpu package"),
	)},
	{CPUPower, layout.TypePower, resolve.CPU, anyOf("cpu power", "cpu ppt", "package power")},
	{CPUClock, layout.TypeClock, resolve.CPU, anyOf("core clocks", "average effective clock", "cpu clock")},
	{CPUUsage, layout.TypeUsage, resolve.CPU, anyOf("total cpu usage", "total cpu utility", "cpu usage")},

	{GPUHotspot, layout.TypeTemperature, resolve.GPU, anyOf("hot spot", "hotspot", "gpu temp")},
	{GPUMemoryJunction, layout.TypeTemperature, resolve.GPU, anyOf("memory junction")},
	{GPUPower, layout.TypePower, resolve.GPU, excluding(
		or(anyOf("gpu power"), allOf("gpu", "power")),
		"limit", "percent", "%",
	)},
	{GPUCoreClock, layout.TypeClock, resolve.GPU, anyOf("gpu clock", "gpu core clock")},
	{GPUMemoryClock, layout.TypeClock, resolve.GPU, anyOf("gpu memory clock")},
	{GPUUsage, layout.TypeUsage, resolve.GPU, anyOf("gpu core load", "gpu utilization", "gpu load")},
	{GPUVRAMUsed, layout.TypeOther, resolve.GPU, anyOf("gpu memory allocated", "gpu d3d memory dedicated", "gpu memory used")},
	{GPUVRAMTotal, layout.TypeOther, resolve.GPU, anyOf("gpu memory size", "gpu memory total")},
	{GPUFanRPM, layout.TypeFan, resolve.GPU, anyOf("fan")},
	{GPUFanPercent, layout.TypeUsage, resolve.GPU, anyOf("fan")},
}

var coreTempRe = regexp.MustCompile(`^core\s*#?\d+`)

// isCoreTemp matches per-core temperatures such as "Core 3" or
// "Core0 (CCD1)" but not derived values like "Core 3 Distance to TjMAX".
func isCoreTemp(label string) bool {
	return coreTempRe.MatchString(label) &&
		!strings.Contains(label, "distance") &&
		!strings.Contains(label, "tjmax")
}

func anyOf(subs ...string) Predicate {
	return func(label, _ string) bool {
		for _, s := range subs {
			if strings.Contains(label, s) {
				return true
			}
		}
		return false
	}
}

func allOf(subs ...string) Predicate {
	return func(label, _ string) bool {
		for _, s := range subs {
			if !strings.Contains(label, s) {
				return false
			}
		}
		return true
	}
}

func equals(want string) Predicate {
	return func(label, _ string) bool {
		return label == want
	}
}

func or(ps ...Predicate) Predicate {
	return func(label, unit string) bool {
		for _, p := range ps {
			if p(label, unit) {
				return true
			}
		}
		return false
	}
}

// excluding rejects labels containing any of subs, and percentage units.
func excluding(p Predicate, subs ...string) Predicate {
	return func(label, unit string) bool {
		if unit == "%" {
			return false
		}
		for _, s := range subs {
			if strings.Contains(label, s) {
				return false
			}
		}
		return p(label, unit)
	}
}
