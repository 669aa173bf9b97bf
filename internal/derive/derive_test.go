package derive

import (
	"strconv"
	"testing"

	"hwpanel/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestHealth_Boundaries(t *testing.T) {
	cases := []struct {
		value *float64
		want  model.Health
	}{
		{ptr(100), model.HealthGood},
		{ptr(70.0), model.HealthGood},
		{ptr(69.9), model.HealthWarning},
		{ptr(30.0), model.HealthWarning},
		{ptr(29.9), model.HealthCritical},
		{ptr(0), model.HealthCritical},
		{nil, model.HealthUnknown},
	}
	for _, c := range cases {
		if got := Health(c.value); got != c.want {
			v := "nil"
			if c.value != nil {
				v = formatFloat(*c.value)
			}
			t.Errorf("Health(%s): got %s, want %s", v, got, c.want)
		}
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestFanStatus(t *testing.T) {
	fans := func(rpms ...float64) []model.FanReading {
		out := make([]model.FanReading, len(rpms))
		for i, r := range rpms {
			out[i] = model.FanReading{Name: "Fan", RPM: r}
		}
		return out
	}

	if got := FanStatus(fans(150, 900)); got != model.FanWarning {
		t.Errorf("{150, 900}: got %s, want warning", got)
	}
	if got := FanStatus(fans(900, 1200)); got != model.FanOK {
		t.Errorf("{900, 1200}: got %s, want ok", got)
	}
	if got := FanStatus(nil); got != model.FanUnknown {
		t.Errorf("{}: got %s, want unknown", got)
	}
	if got := FanStatus(fans(0, 0)); got != model.FanUnknown {
		t.Errorf("stopped fans: got %s, want unknown", got)
	}
	if got := FanStatus(fans(0, 1100)); got != model.FanOK {
		t.Errorf("{0, 1100}: got %s, want ok", got)
	}
}
