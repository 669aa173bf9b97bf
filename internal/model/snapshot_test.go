package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNotConnected(t *testing.T) {
	s := NotConnected(true, "Shared memory not available")

	if s.Connected() {
		t.Fatal("expected not connected")
	}
	if s.LastReadAt != nil {
		t.Errorf("LastReadAt: got %v, want nil", *s.LastReadAt)
	}
	if !s.Diagnostics.HWiNFOProcessDetected || s.Diagnostics.SharedMemoryDetected {
		t.Errorf("Diagnostics: got %+v", s.Diagnostics)
	}
	if s.Storage.SmartHealth != HealthUnknown {
		t.Errorf("SmartHealth: got %s, want unknown", s.Storage.SmartHealth)
	}
	if s.System.FanStatus != FanUnknown {
		t.Errorf("FanStatus: got %s, want unknown", s.System.FanStatus)
	}
	if s.Drives == nil || s.System.Fans == nil || s.CPU.CoreTemps == nil {
		t.Error("lists must be empty, not nil")
	}
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	temp := 38.0
	s := NotConnected(false, "")
	s.Storage.TempC = &temp

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"status":"not_connected"`, `"nvmeTempC":38`, `"hwinfoProcessDetected":false`, `"coreTemps":[]`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
	if strings.Contains(out, `"message"`) {
		t.Errorf("empty message should be omitted: %s", out)
	}
}
