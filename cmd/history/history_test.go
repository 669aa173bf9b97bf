package history

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"hwpanel/internal/model"
	"hwpanel/internal/store"
)

func TestParseLimit(t *testing.T) {
	if n, err := ParseLimit(nil); err != nil || n != DefaultLimit {
		t.Errorf("default: got %d (%v), want %d", n, err, DefaultLimit)
	}
	if n, err := ParseLimit([]string{"5"}); err != nil || n != 5 {
		t.Errorf("got %d (%v), want 5", n, err)
	}
	for _, bad := range []string{"0", "-3", "ten"} {
		if _, err := ParseLimit([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDisplayHistoryTable(t *testing.T) {
	temp := 63.24
	snap := model.Snapshot{
		Status: model.StatusConnected,
		CPU:    model.CPUMetrics{PackageTempC: &temp},
		System: model.SystemMetrics{Name: "a-very-long-workstation-name", FanStatus: model.FanOK},
	}
	records := []store.Record{
		{At: time.Now(), Snapshot: snap},
		{At: time.Now(), Snapshot: model.NotConnected(false, "gone")},
	}

	var buf bytes.Buffer
	displayHistoryTable(&buf, records)
	out := buf.String()

	if !strings.Contains(out, "63.2") {
		t.Errorf("expected CPU temperature in output:\n%s", out)
	}
	if !strings.Contains(out, "not_connected") {
		t.Errorf("expected not_connected row:\n%s", out)
	}
	if !strings.Contains(out, "a-very-long-worksta…") {
		t.Errorf("expected truncated host name:\n%s", out)
	}
}

func TestNumber(t *testing.T) {
	if got := number(nil); got != "-" {
		t.Errorf("got %q, want -", got)
	}
	v := 41.0
	if got := number(&v); got != "41.0" {
		t.Errorf("got %q, want 41.0", got)
	}
}
