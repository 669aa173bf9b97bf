// Package watch implements hwpanel watch, a live terminal dashboard.
package watch

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"hwpanel/internal/model"
	"hwpanel/internal/rpc"
	"hwpanel/internal/telemetry"
	"hwpanel/internal/ui"
	"hwpanel/internal/wiring"
	"hwpanel/pkg/config"
)

// Run shows the dashboard. Snapshots come from a running hwpanel serve
// when its socket answers, otherwise from polling shared memory directly.
func Run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	interval, err := cfg.Panel.ParsePollInterval()
	if err != nil {
		return fmt.Errorf("parsing poll interval: %w", err)
	}

	var (
		source ui.Source
		origin string
	)
	if client, err := rpc.NewClient(cfg.Panel.RPCSocket); err == nil {
		defer client.Close()
		source, origin = clientSource{client}, cfg.Panel.RPCSocket
	} else {
		// Log lines would corrupt the alternate screen.
		poller := wiring.NewPoller(cfg.Source, zerolog.Nop())
		source, origin = pollerSource{poller}, "shared memory"
	}

	p := tea.NewProgram(ui.NewModel(source, interval, origin), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type clientSource struct {
	client *rpc.Client
}

func (s clientSource) Snapshot() (model.Snapshot, error) {
	return s.client.Latest()
}

type pollerSource struct {
	poller *telemetry.Poller
}

func (s pollerSource) Snapshot() (model.Snapshot, error) {
	return s.poller.Poll(), nil
}
