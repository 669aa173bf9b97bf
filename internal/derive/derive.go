// Package derive computes summary status fields from raw readings.
package derive

import "hwpanel/internal/model"

// Thresholds for the derived fields.
const (
	HealthGoodMin    = 70.0
	HealthWarningMin = 30.0
	FanWarnBelowRPM  = 200.0
)

// Health buckets a drive's remaining-life percentage. A nil value means
// the drive reported none.
func Health(remainingLife *float64) model.Health {
	switch {
	case remainingLife == nil:
		return model.HealthUnknown
	case *remainingLife >= HealthGoodMin:
		return model.HealthGood
	case *remainingLife >= HealthWarningMin:
		return model.HealthWarning
	default:
		return model.HealthCritical
	}
}

// FanStatus is warning when any spinning fan runs below FanWarnBelowRPM.
// Stopped fans are not counted; with none spinning the status is unknown.
func FanStatus(fans []model.FanReading) model.FanStatus {
	status := model.FanUnknown
	for _, f := range fans {
		if f.RPM <= 0 {
			continue
		}
		if f.RPM < FanWarnBelowRPM {
			return model.FanWarning
		}
		status = model.FanOK
	}
	return status
}
