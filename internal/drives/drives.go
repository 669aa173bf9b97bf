// Package drives groups SMART sensors into per-drive records.
package drives

import (
	"math"
	"sort"
	"strings"

	"hwpanel/internal/derive"
	"hwpanel/internal/layout"
	"hwpanel/internal/model"
	"hwpanel/internal/resolve"
)

// PrimaryLetter is the volume preferred as primary storage.
const PrimaryLetter = "C:"

// DiskProbe reports the capacity of a mounted volume such as "C:".
type DiskProbe interface {
	Capacity(volume string) (total, free uint64, ok bool)
}

type drive struct {
	name        string
	letter      string
	temp        *float64
	airflowTemp *float64
	life        *float64
}

// Aggregate builds one DriveInfo per storage sensor, sorted by drive
// letter with unlettered drives last, and picks the primary drive: the
// one on C: if present, else the first storage sensor in table order.
func Aggregate(readings []layout.Reading, roles resolve.Roles, probe DiskProbe) ([]model.DriveInfo, model.StorageMetrics) {
	order := roles.StorageSensors()
	acc := make(map[int]*drive, len(order))
	for _, idx := range order {
		role := roles.Of(idx)
		acc[idx] = &drive{name: role.DriveName, letter: role.DriveLetter}
	}

	for _, rd := range readings {
		if !roles.Valid(rd.SensorIndex) {
			continue
		}
		d, ok := acc[int(rd.SensorIndex)]
		if !ok {
			continue
		}
		label := rd.Label()
		v := rd.Value

		if rd.Type == layout.TypeTemperature {
			switch {
			case strings.Contains(label, "airflow"):
				if d.airflowTemp == nil {
					d.airflowTemp = &v
				}
			case isDriveTemp(label):
				if d.temp == nil {
					d.temp = &v
				}
			}
		}
		if d.life == nil && (strings.Contains(label, "remaining life") || strings.Contains(label, "health")) {
			d.life = &v
		}
	}

	drives := make([]model.DriveInfo, 0, len(order))
	for _, idx := range order {
		drives = append(drives, acc[idx].info(probe))
	}

	primary := model.StorageMetrics{SmartHealth: model.HealthUnknown}
	if len(drives) > 0 {
		p := drives[0]
		for _, d := range drives {
			if d.DriveLetter == PrimaryLetter {
				p = d
				break
			}
		}
		primary = model.StorageMetrics{Name: p.Name, TempC: p.TempC, SmartHealth: p.SmartHealth}
	}

	sort.SliceStable(drives, func(i, j int) bool {
		a, b := drives[i].DriveLetter, drives[j].DriveLetter
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})
	return drives, primary
}

func isDriveTemp(label string) bool {
	return strings.Contains(label, "drive temperature") || label == "temperature"
}

func (d *drive) info(probe DiskProbe) model.DriveInfo {
	temp := d.temp
	if temp == nil {
		temp = d.airflowTemp
	}
	info := model.DriveInfo{
		Name:        d.name,
		DriveLetter: d.letter,
		TempC:       temp,
		SmartHealth: derive.Health(d.life),
	}
	if d.letter != "" && probe != nil {
		if total, free, ok := probe.Capacity(d.letter); ok {
			info.TotalGB = gigabytes(total)
			info.FreeGB = gigabytes(free)
		}
	}
	return info
}

func gigabytes(b uint64) *float64 {
	gb := math.Round(float64(b)/(1024*1024*1024)*100) / 100
	return &gb
}
