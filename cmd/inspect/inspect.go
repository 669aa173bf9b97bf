// Package inspect implements the standalone hwpanel commands that decode
// the shared memory directly and print JSON.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hwpanel/internal/sysinfo"
	"hwpanel/internal/telemetry"
	"hwpanel/internal/wiring"
	"hwpanel/pkg/config"
	"hwpanel/pkg/logger"
)

func setup(configPath string) (*telemetry.Poller, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.Init(cfg.Panel.LogLevel)
	return wiring.NewPoller(cfg.Source, log), nil
}

// Poll prints one snapshot.
func Poll(configPath string) error {
	poller, err := setup(configPath)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, poller.Poll())
}

// Sensors prints the raw sensor table.
func Sensors(configPath string) error {
	poller, err := setup(configPath)
	if err != nil {
		return err
	}
	dump, err := poller.DumpSensors()
	if err != nil {
		return fmt.Errorf("dumping sensors: %s", telemetry.Describe(err))
	}
	return writeJSON(os.Stdout, dump)
}

// Readings prints the raw reading table, keeping labels containing filter.
func Readings(configPath, filter string) error {
	poller, err := setup(configPath)
	if err != nil {
		return err
	}
	dump, err := poller.DumpReadings(filter)
	if err != nil {
		return fmt.Errorf("dumping readings: %s", telemetry.Describe(err))
	}
	return writeJSON(os.Stdout, dump)
}

// Info prints the host inventory.
func Info() error {
	info, err := sysinfo.Collect()
	if err != nil {
		return fmt.Errorf("collecting system info: %w", err)
	}
	return writeJSON(os.Stdout, info)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
