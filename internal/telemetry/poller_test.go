package telemetry

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hwpanel/internal/layout"
	"hwpanel/internal/layout/layouttest"
	"hwpanel/internal/model"
	"hwpanel/internal/shm"
)

// trackingOpener counts acquisitions and releases.
type trackingOpener struct {
	data   []byte
	err    error
	opens  int
	closes int
}

func (o *trackingOpener) Open() (shm.Region, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.opens++
	return &trackedRegion{data: o.data, owner: o}, nil
}

type trackedRegion struct {
	data  []byte
	owner *trackingOpener
}

func (r *trackedRegion) Bytes() []byte { return r.data }
func (r *trackedRegion) Close() error  { r.owner.closes++; return nil }

type fixedProcess bool

func (f fixedProcess) IsMonitoringProcessRunning() bool { return bool(f) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type fixedHost struct {
	uptime uint64
	name   string
}

func (h fixedHost) UptimeSeconds() (uint64, error) { return h.uptime, nil }
func (h fixedHost) HostName() string               { return h.name }
func (h fixedHost) Capacity(volume string) (uint64, uint64, bool) {
	if volume == "C:" {
		return 512 << 30, 128 << 30, true
	}
	return 0, 0, false
}

var testTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestPoller(opener shm.Opener, running bool) *Poller {
	host := fixedHost{uptime: 3600, name: "workstation"}
	return New(Deps{
		Source:  opener,
		Process: fixedProcess(running),
		Disks:   host,
		Uptime:  host,
		Host:    host,
		Clock:   fixedClock(testTime),
	}, zerolog.Nop())
}

func minimalRegion() []byte {
	return layouttest.Build(
		[]layouttest.Sensor{
			{Name: "CPU [#0]: Intel Core i9-13900K: DTS"},
			{Name: "S.M.A.R.T.: Samsung SSD 980 PRO 1TB [C:]"},
		},
		[]layouttest.Reading{
			{Type: layout.TypeTemperature, SensorIndex: 0, Label: "CPU Package", Unit: "°C", Value: 64},
			{Type: layout.TypeTemperature, SensorIndex: 1, Label: "Drive Temperature", Unit: "°C", Value: 41},
			{Type: layout.TypeOther, SensorIndex: 1, Label: "Drive Remaining Life", Unit: "%", Value: 95},
		},
	)
}

func TestPoll_Connected(t *testing.T) {
	opener := &trackingOpener{data: minimalRegion()}
	snap := newTestPoller(opener, true).Poll()

	if snap.Status != model.StatusConnected {
		t.Fatalf("Status: got %s, want connected (%s)", snap.Status, snap.Diagnostics.Message)
	}
	if !snap.Diagnostics.SharedMemoryDetected || !snap.Diagnostics.HWiNFOProcessDetected {
		t.Errorf("Diagnostics: got %+v", snap.Diagnostics)
	}
	if snap.LastReadAt == nil || *snap.LastReadAt != "2026-10-19T12:00:00Z" {
		t.Errorf("LastReadAt: got %v", snap.LastReadAt)
	}
	if snap.CPU.PackageTempC == nil || *snap.CPU.PackageTempC != 64 {
		t.Errorf("CPU temp: got %v, want 64", snap.CPU.PackageTempC)
	}
	if snap.CPU.Name != "Intel Core i9-13900K" {
		t.Errorf("CPU name: got %q", snap.CPU.Name)
	}
	if snap.Storage.Name != "Samsung SSD 980 PRO 1TB" || snap.Storage.SmartHealth != model.HealthGood {
		t.Errorf("Storage: got %+v", snap.Storage)
	}
	if len(snap.Drives) != 1 || snap.Drives[0].TotalGB == nil || *snap.Drives[0].TotalGB != 512 {
		t.Errorf("Drives: got %+v", snap.Drives)
	}
	if snap.System.Name != "workstation" || snap.System.UptimeSeconds == nil || *snap.System.UptimeSeconds != 3600 {
		t.Errorf("System: got %+v", snap.System)
	}
	if snap.System.FanStatus != model.FanUnknown {
		t.Errorf("FanStatus: got %s, want unknown", snap.System.FanStatus)
	}
	if opener.opens != 1 || opener.closes != 1 {
		t.Errorf("acquire/release: got %d/%d, want 1/1", opener.opens, opener.closes)
	}
}

func TestPoll_SignatureMismatch(t *testing.T) {
	buf := layouttest.Region{Signature: 0x12345678}.Bytes()

	for _, running := range []bool{true, false} {
		opener := &trackingOpener{data: buf}
		snap := newTestPoller(opener, running).Poll()

		if snap.Status != model.StatusNotConnected {
			t.Fatalf("Status: got %s, want not_connected", snap.Status)
		}
		if !strings.Contains(snap.Diagnostics.Message, "0x12345678") {
			t.Errorf("Message: got %q, want observed signature", snap.Diagnostics.Message)
		}
		if snap.Diagnostics.SharedMemoryDetected {
			t.Error("SharedMemoryDetected must be false")
		}
		if snap.Diagnostics.HWiNFOProcessDetected != running {
			t.Errorf("HWiNFOProcessDetected: got %v, want %v", snap.Diagnostics.HWiNFOProcessDetected, running)
		}
		if snap.LastReadAt != nil {
			t.Error("LastReadAt must be absent")
		}
		if opener.closes != opener.opens {
			t.Errorf("region not released: %d opens, %d closes", opener.opens, opener.closes)
		}
	}
}

func TestPoll_UndersizedView(t *testing.T) {
	opener := &trackingOpener{data: make([]byte, 10)}
	snap := newTestPoller(opener, false).Poll()

	if snap.Status != model.StatusNotConnected {
		t.Fatalf("Status: got %s, want not_connected", snap.Status)
	}
	if opener.closes != 1 {
		t.Errorf("closes: got %d, want 1", opener.closes)
	}
}

func TestPoll_MappingUnavailable(t *testing.T) {
	opener := &trackingOpener{err: fmt.Errorf("%w: opening test", shm.ErrMappingUnavailable)}
	snap := newTestPoller(opener, true).Poll()

	if snap.Status != model.StatusNotConnected {
		t.Fatalf("Status: got %s, want not_connected", snap.Status)
	}
	if !snap.Diagnostics.HWiNFOProcessDetected {
		t.Error("process detection must be independent of shared memory")
	}
	if !strings.Contains(snap.Diagnostics.Message, "Shared Memory Support") {
		t.Errorf("Message: got %q", snap.Diagnostics.Message)
	}
	if snap.Storage.SmartHealth != model.HealthUnknown || snap.System.FanStatus != model.FanUnknown {
		t.Errorf("defaults: got %+v / %+v", snap.Storage, snap.System)
	}
}

func TestPoll_NoSource(t *testing.T) {
	snap := New(Deps{}, zerolog.Nop()).Poll()
	if snap.Status != model.StatusNotConnected {
		t.Fatalf("Status: got %s, want not_connected", snap.Status)
	}
}

func TestPoll_LowFanWarns(t *testing.T) {
	buf := layouttest.Build(
		[]layouttest.Sensor{{Name: "CPU [#0]: AMD Ryzen 7 5800X"}, {Name: "Nuvoton NCT6798D"}},
		[]layouttest.Reading{
			{Type: layout.TypeTemperature, SensorIndex: 0, Label: "CPU (Tctl/Tdie)", Value: 55},
			{Type: layout.TypeFan, SensorIndex: 1, Label: "CPU", Value: 150},
			{Type: layout.TypeFan, SensorIndex: 1, Label: "Chassis1", Value: 900},
		},
	)
	snap := newTestPoller(shm.Static{Data: buf}, false).Poll()

	if snap.Status != model.StatusConnected || !snap.Diagnostics.SharedMemoryDetected {
		t.Fatalf("got %s / %+v", snap.Status, snap.Diagnostics)
	}
	if snap.System.FanStatus != model.FanWarning {
		t.Errorf("FanStatus: got %s, want warning", snap.System.FanStatus)
	}
	if len(snap.System.Fans) != 2 {
		t.Errorf("Fans: got %d, want 2", len(snap.System.Fans))
	}
}

func TestPoll_IntelDriveNextToAMDCPU(t *testing.T) {
	buf := layouttest.Build(
		[]layouttest.Sensor{
			{Name: "CPU [#0]: AMD Ryzen 9 7950X"},
			{Name: "S.M.A.R.T.: INTEL SSDPEKNW010T8 [C:]"},
		},
		[]layouttest.Reading{
			{Type: layout.TypeTemperature, SensorIndex: 0, Label: "CPU (Tctl/Tdie)", Unit: "°C", Value: 58},
			{Type: layout.TypeTemperature, SensorIndex: 1, Label: "Drive Temperature", Unit: "°C", Value: 39},
			{Type: layout.TypeOther, SensorIndex: 1, Label: "Drive Remaining Life", Unit: "%", Value: 97},
		},
	)
	snap := newTestPoller(shm.Static{Data: buf}, true).Poll()

	if snap.Status != model.StatusConnected {
		t.Fatalf("Status: got %s, want connected (%s)", snap.Status, snap.Diagnostics.Message)
	}
	if snap.CPU.PackageTempC == nil || *snap.CPU.PackageTempC != 58 {
		t.Errorf("CPU temp: got %v, want 58", snap.CPU.PackageTempC)
	}
	if snap.Storage.Name != "INTEL SSDPEKNW010T8" || snap.Storage.SmartHealth != model.HealthGood {
		t.Errorf("Storage: got %+v", snap.Storage)
	}
	if len(snap.Drives) != 1 || snap.Drives[0].DriveLetter != "C:" {
		t.Errorf("Drives: got %+v", snap.Drives)
	}
}

func TestPoll_ReadingPastSensorCountIgnored(t *testing.T) {
	buf := layouttest.Build(
		[]layouttest.Sensor{{Name: "CPU [#0]: AMD Ryzen 7 5800X"}},
		[]layouttest.Reading{
			{Type: layout.TypeTemperature, SensorIndex: 7, Label: "CPU (Tctl/Tdie)", Value: 99},
			{Type: layout.TypeTemperature, SensorIndex: 0, Label: "CPU (Tctl/Tdie)", Value: 52},
		},
	)
	snap := newTestPoller(shm.Static{Data: buf}, true).Poll()
	if snap.CPU.PackageTempC == nil || *snap.CPU.PackageTempC != 52 {
		t.Errorf("PackageTempC: got %v, want 52", snap.CPU.PackageTempC)
	}
}

func TestDescribe(t *testing.T) {
	msg := Describe(fmt.Errorf("%w: boom", shm.ErrViewMappingFailed))
	if !strings.HasPrefix(msg, "Failed to map shared memory view") {
		t.Errorf("got %q", msg)
	}
	if got := Describe(errors.New("other")); got != "other" {
		t.Errorf("got %q, want other", got)
	}
}
