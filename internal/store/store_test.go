package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hwpanel/internal/model"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := New(dbPath, testLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, func() {
		s.Close()
		os.Remove(dbPath)
	}
}

func sampleSnapshot(temp float64) model.Snapshot {
	ts := "2026-10-19T12:00:00Z"
	up := uint64(120)
	return model.Snapshot{
		Status:      model.StatusConnected,
		LastReadAt:  &ts,
		Diagnostics: model.Diagnostics{HWiNFOProcessDetected: true, SharedMemoryDetected: true},
		CPU:         model.CPUMetrics{Name: "AMD Ryzen 9 7950X", PackageTempC: &temp, CoreTemps: []float64{temp - 2, temp - 1}},
		Storage:     model.StorageMetrics{Name: "WD SN850X", SmartHealth: model.HealthGood},
		Drives:      []model.DriveInfo{{Name: "WD SN850X", DriveLetter: "C:", SmartHealth: model.HealthGood}},
		System: model.SystemMetrics{
			Name:          "workstation",
			UptimeSeconds: &up,
			FanStatus:     model.FanOK,
			Fans:          []model.FanReading{{Name: "Chassis1", RPM: 900}},
		},
	}
}

var base = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestStore_AppendAndLatest(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	if _, ok, err := s.Latest(); err != nil || ok {
		t.Fatalf("empty store: got ok=%v err=%v", ok, err)
	}

	if err := s.Append(base, sampleSnapshot(60)); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := s.Append(base.Add(time.Second), sampleSnapshot(61)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	r, ok, err := s.Latest()
	if err != nil || !ok {
		t.Fatalf("latest failed: ok=%v err=%v", ok, err)
	}
	if !r.At.Equal(base.Add(time.Second)) {
		t.Errorf("At: got %v, want %v", r.At, base.Add(time.Second))
	}
	if r.Snapshot.CPU.PackageTempC == nil || *r.Snapshot.CPU.PackageTempC != 61 {
		t.Errorf("PackageTempC: got %v, want 61", r.Snapshot.CPU.PackageTempC)
	}
	if r.Snapshot.System.FanStatus != model.FanOK || len(r.Snapshot.System.Fans) != 1 {
		t.Errorf("System: got %+v", r.Snapshot.System)
	}
	if r.Snapshot.GPU.PowerW != nil {
		t.Errorf("absent metric came back as %v", *r.Snapshot.GPU.PowerW)
	}
}

func TestStore_RecentNewestFirst(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		if err := s.Append(base.Add(time.Duration(i)*time.Second), sampleSnapshot(float64(50+i))); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	records, err := s.Recent(3)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []float64{54, 53, 52} {
		if got := *records[i].Snapshot.CPU.PackageTempC; got != want {
			t.Errorf("record %d: got %v, want %v", i, got, want)
		}
	}

	all, err := s.Recent(0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 records, got %d", len(all))
	}
}

func TestStore_NotConnectedSnapshot(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	if err := s.Append(base, model.NotConnected(true, "Shared memory not available")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	r, _, err := s.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if r.Snapshot.Status != model.StatusNotConnected || r.Snapshot.LastReadAt != nil {
		t.Errorf("got %+v", r.Snapshot)
	}
	if r.Snapshot.Diagnostics.Message != "Shared memory not available" {
		t.Errorf("Message: got %q", r.Snapshot.Diagnostics.Message)
	}
}

func TestStore_Prune(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	for i := 0; i < 10; i++ {
		s.Append(base.Add(time.Duration(i)*time.Minute), sampleSnapshot(50))
	}

	removed, err := s.Prune(base.Add(4 * time.Minute))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("removed: got %d, want 4", removed)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 6 {
		t.Errorf("count: got %d, want 6", n)
	}

	records, _ := s.Recent(0)
	if oldest := records[len(records)-1].At; !oldest.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("oldest: got %v", oldest)
	}
}

func TestStore_PruneOlderThan(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	s.Append(base, sampleSnapshot(50))
	s.Append(base.Add(20*time.Minute), sampleSnapshot(51))

	s.pruneOlderThan(base.Add(25*time.Minute), 10*time.Minute)

	n, _ := s.Count()
	if n != 1 {
		t.Errorf("count: got %d, want 1", n)
	}
}

func TestStore_RunPruneStopsOnCancel(t *testing.T) {
	s, cleanup := testStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	done := s.RunPrune(ctx, time.Millisecond, time.Hour)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("prune goroutine did not exit after cancel")
	}
}
