// Package serve implements hwpanel serve: the polling loop, the snapshot
// history and the RPC bridge.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"hwpanel/internal/model"
	"hwpanel/internal/rpc"
	"hwpanel/internal/store"
	"hwpanel/internal/wiring"
	"hwpanel/pkg/config"
	"hwpanel/pkg/logger"
)

// pruneEvery is how often the history is checked for expired snapshots.
const pruneEvery = 5 * time.Second

// Run starts the poll loop and serves it until SIGINT or SIGTERM.
func Run(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.Init(cfg.Panel.LogLevel)

	interval, err := cfg.Panel.ParsePollInterval()
	if err != nil {
		return fmt.Errorf("parsing poll interval: %w", err)
	}
	retention, err := cfg.Panel.ParseHistoryRetention()
	if err != nil {
		return fmt.Errorf("parsing history retention: %w", err)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Panel.DBPath)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dbDir, err)
	}

	db, err := store.New(cfg.Panel.DBPath, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pruneDone := db.RunPrune(ctx, pruneEvery, retention)

	poller := wiring.NewPoller(cfg.Source, log)

	listener, err := rpc.StartServer(cfg.Panel.RPCSocket, poller, db, log)
	if err != nil {
		return fmt.Errorf("starting RPC server: %w", err)
	}
	defer func() {
		listener.Close()
		os.Remove(cfg.Panel.RPCSocket)
	}()

	log.Info().
		Str("shm_name", cfg.Source.SHMName).
		Str("db_path", cfg.Panel.DBPath).
		Dur("poll_interval", interval).
		Dur("history_retention", retention).
		Msg("Starting hwpanel")

	loop := &pollLoop{source: poller, history: db, log: log}
	loopDone := loop.start(ctx, interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	// Both writers must be gone before the deferred db.Close.
	cancel()
	<-loopDone
	<-pruneDone
	return nil
}

type snapshotSource interface {
	Poll() model.Snapshot
}

type snapshotSink interface {
	Append(at time.Time, snap model.Snapshot) error
}

// pollLoop polls at a fixed cadence and records every snapshot.
type pollLoop struct {
	source  snapshotSource
	history snapshotSink
	log     zerolog.Logger

	seen bool
	last model.Status
}

// start runs the loop in its own goroutine. The returned channel is closed
// after the last step has finished.
func (l *pollLoop) start(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.run(ctx, interval)
	}()
	return done
}

func (l *pollLoop) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.step(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.step(now)
		}
	}
}

// step takes one snapshot, logs status transitions and appends it to the
// history.
func (l *pollLoop) step(now time.Time) model.Snapshot {
	snap := l.source.Poll()
	l.observe(snap)

	if err := l.history.Append(now, snap); err != nil {
		l.log.Error().Err(err).Msg("Failed to record snapshot")
	}
	return snap
}

func (l *pollLoop) observe(snap model.Snapshot) {
	if l.seen && snap.Status == l.last {
		return
	}
	first := !l.seen
	l.seen = true
	l.last = snap.Status

	var ev *zerolog.Event
	switch {
	case snap.Connected() && first:
		ev = l.log.Info()
	case snap.Connected():
		ev = l.log.Warn()
	default:
		ev = l.log.Warn().
			Bool("process_detected", snap.Diagnostics.HWiNFOProcessDetected).
			Str("reason", snap.Diagnostics.Message)
	}
	ev.Str("status", string(snap.Status)).Msg("Shared memory status changed")
}
