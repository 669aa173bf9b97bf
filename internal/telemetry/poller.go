// Package telemetry turns one read of the publisher's shared memory into a
// Snapshot.
//
// A poll opens the region, decodes the header and both tables, resolves
// sensor roles, correlates readings into metrics and releases the region
// before returning. Nothing is kept between polls; the caller decides how
// often to poll.
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hwpanel/internal/correlate"
	"hwpanel/internal/derive"
	"hwpanel/internal/drives"
	"hwpanel/internal/layout"
	"hwpanel/internal/model"
	"hwpanel/internal/resolve"
	"hwpanel/internal/shm"
)

// ProcessDetector reports whether the publisher process is running.
type ProcessDetector interface {
	IsMonitoringProcessRunning() bool
}

// UptimeSource reports seconds since boot.
type UptimeSource interface {
	UptimeSeconds() (uint64, error)
}

// HostNameSource returns the machine name, or "" when unknown.
type HostNameSource interface {
	HostName() string
}

// Clock supplies the snapshot timestamp.
type Clock interface {
	Now() time.Time
}

// Deps are the poller's collaborators. Only Source is required.
type Deps struct {
	Source  shm.Opener
	Process ProcessDetector
	Disks   drives.DiskProbe
	Uptime  UptimeSource
	Host    HostNameSource
	Clock   Clock
}

// Poller reads snapshots. It keeps no state between polls and is safe for
// concurrent use when its collaborators are.
type Poller struct {
	deps Deps
	log  zerolog.Logger
}

// New returns a Poller; missing optional collaborators report nothing.
func New(deps Deps, log zerolog.Logger) *Poller {
	if deps.Process == nil {
		deps.Process = noProcess{}
	}
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	return &Poller{deps: deps, log: log}
}

// Poll never fails: every failure is reported as a not_connected snapshot
// whose diagnostics say why.
func (p *Poller) Poll() model.Snapshot {
	running := p.deps.Process.IsMonitoringProcessRunning()

	var snap model.Snapshot
	err := p.withTables(func(h layout.Header, sensors []layout.Sensor, readings []layout.Reading) {
		snap = p.assemble(h, sensors, readings)
	})
	if err != nil {
		p.log.Debug().Err(err).Bool("process_detected", running).Msg("Shared memory unavailable")
		return model.NotConnected(running, Describe(err))
	}

	snap.Diagnostics = model.Diagnostics{
		HWiNFOProcessDetected: running,
		SharedMemoryDetected:  true,
	}
	return snap
}

// withTables acquires the region, decodes it and hands the tables to fn.
// The region is released on every path, including a bad signature.
func (p *Poller) withTables(fn func(layout.Header, []layout.Sensor, []layout.Reading)) error {
	if p.deps.Source == nil {
		return fmt.Errorf("%w: no source configured", shm.ErrMappingUnavailable)
	}
	region, err := p.deps.Source.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := region.Close(); cerr != nil {
			p.log.Warn().Err(cerr).Msg("Failed to release shared memory")
		}
	}()

	view := layout.NewView(region.Bytes())
	header, err := layout.DecodeHeader(view)
	if err != nil {
		return err
	}

	sensors := layout.DecodeSensors(view, header)
	readings := layout.DecodeReadings(view, header)

	p.log.Debug().
		Int("view_bytes", view.Len()).
		Uint32("sensor_count", header.SensorCount).
		Int("sensors_decoded", len(sensors)).
		Uint32("reading_count", header.ReadingCount).
		Int("readings_decoded", len(readings)).
		Msg("Shared memory decoded")

	fn(header, sensors, readings)
	return nil
}

func (p *Poller) assemble(h layout.Header, sensors []layout.Sensor, readings []layout.Reading) model.Snapshot {
	roles := resolve.Resolve(sensors, int(h.SensorCount))
	metrics := correlate.Correlate(readings, roles)
	driveList, primary := drives.Aggregate(readings, roles, p.deps.Disks)

	system := model.SystemMetrics{
		FanStatus: derive.FanStatus(metrics.Fans),
		Fans:      metrics.Fans,
	}
	if p.deps.Host != nil {
		system.Name = p.deps.Host.HostName()
	}
	if p.deps.Uptime != nil {
		if up, err := p.deps.Uptime.UptimeSeconds(); err == nil {
			system.UptimeSeconds = &up
		} else {
			p.log.Debug().Err(err).Msg("Uptime unavailable")
		}
	}

	ts := p.deps.Clock.Now().UTC().Format(time.RFC3339Nano)
	return model.Snapshot{
		Status:     model.StatusConnected,
		LastReadAt: &ts,
		CPU:        metrics.CPU,
		GPU:        metrics.GPU,
		Storage:    primary,
		Drives:     driveList,
		System:     system,
	}
}

// Describe turns an acquire or decode failure into the message shown to
// the user.
func Describe(err error) string {
	var sigErr *layout.SignatureError
	switch {
	case errors.Is(err, shm.ErrMappingUnavailable):
		return "Shared memory not available. Is HWiNFO running with Shared Memory Support enabled? (" + err.Error() + ")"
	case errors.Is(err, shm.ErrViewMappingFailed):
		return "Failed to map shared memory view (" + err.Error() + ")"
	case errors.As(err, &sigErr):
		return fmt.Sprintf("Invalid HWiNFO signature: 0x%08X", sigErr.Observed)
	case errors.Is(err, layout.ErrShortHeader):
		return "Shared memory view too small (" + err.Error() + ")"
	default:
		return err.Error()
	}
}

type noProcess struct{}

func (noProcess) IsMonitoringProcessRunning() bool { return false }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
