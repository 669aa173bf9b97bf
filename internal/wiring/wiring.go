// Package wiring builds the concrete collaborators shared by every
// hwpanel command.
package wiring

import (
	"github.com/rs/zerolog"

	"hwpanel/internal/shm"
	"hwpanel/internal/sysinfo"
	"hwpanel/internal/telemetry"
	"hwpanel/pkg/config"
)

// NewPoller wires a Poller to the configured shared memory object and the
// local host.
func NewPoller(src config.SourceConfig, log zerolog.Logger) *telemetry.Poller {
	host := sysinfo.NewHost(src.ProcessNames, log)
	return telemetry.New(telemetry.Deps{
		Source:  shm.Named{Name: src.SHMName, Dir: src.SHMDir},
		Process: host,
		Disks:   host,
		Uptime:  host,
		Host:    host,
	}, log)
}
