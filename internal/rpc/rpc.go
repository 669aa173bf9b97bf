// Package rpc provides Unix socket IPC between hwpanel serve and the CLI.
package rpc

import (
	"errors"
	"fmt"
	"net"
	netrpc "net/rpc"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"hwpanel/internal/model"
	"hwpanel/internal/store"
	"hwpanel/internal/telemetry"
)

// ServiceName is the name the service is registered under.
const ServiceName = "Panel"

// Source takes live reads of the shared memory.
type Source interface {
	Poll() model.Snapshot
	DumpSensors() (telemetry.SensorDump, error)
	DumpReadings(filter string) (telemetry.ReadingDump, error)
}

// History serves stored snapshots.
type History interface {
	Latest() (store.Record, bool, error)
	Recent(limit int) ([]store.Record, error)
}

// Service is the RPC service exposed by hwpanel serve.
type Service struct {
	source  Source
	history History
	log     zerolog.Logger
}

// Empty is the request for calls that take no arguments.
type Empty struct{}

// SnapshotReply carries one snapshot.
type SnapshotReply struct {
	Snapshot model.Snapshot
}

// HistoryArgs is the request for History.
type HistoryArgs struct {
	Limit int
}

// HistoryReply is the response for History, newest first.
type HistoryReply struct {
	Records []store.Record
}

// DumpReadingsArgs is the request for DumpReadings.
type DumpReadingsArgs struct {
	Filter string
}

// Latest returns the newest stored snapshot, falling back to a live poll
// while the history is still empty.
func (s *Service) Latest(args *Empty, reply *SnapshotReply) error {
	if s.history != nil {
		record, ok, err := s.history.Latest()
		if err != nil {
			return fmt.Errorf("fetching latest snapshot: %w", err)
		}
		if ok {
			reply.Snapshot = record.Snapshot
			return nil
		}
	}
	reply.Snapshot = s.source.Poll()
	return nil
}

// Poll takes a fresh snapshot.
func (s *Service) Poll(args *Empty, reply *SnapshotReply) error {
	reply.Snapshot = s.source.Poll()
	return nil
}

// History returns up to Limit stored snapshots.
func (s *Service) History(args *HistoryArgs, reply *HistoryReply) error {
	if s.history == nil {
		return errors.New("history is not enabled")
	}
	records, err := s.history.Recent(args.Limit)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	reply.Records = records
	return nil
}

// DumpSensors returns the raw sensor table.
func (s *Service) DumpSensors(args *Empty, reply *telemetry.SensorDump) error {
	dump, err := s.source.DumpSensors()
	if err != nil {
		return fmt.Errorf("dumping sensors: %s", telemetry.Describe(err))
	}
	*reply = dump
	return nil
}

// DumpReadings returns the raw reading table, filtered by label.
func (s *Service) DumpReadings(args *DumpReadingsArgs, reply *telemetry.ReadingDump) error {
	dump, err := s.source.DumpReadings(args.Filter)
	if err != nil {
		return fmt.Errorf("dumping readings: %s", telemetry.Describe(err))
	}
	*reply = dump
	return nil
}

// StartServer starts the Unix socket RPC server. Closing the returned
// listener stops it. history may be nil.
func StartServer(socketPath string, source Source, history History, log zerolog.Logger) (net.Listener, error) {
	service := &Service{source: source, history: history, log: log}

	server := netrpc.NewServer()
	if err := server.RegisterName(ServiceName, service); err != nil {
		return nil, fmt.Errorf("registering RPC service: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return nil, fmt.Errorf("creating socket directory: %w", err)
	}

	// Remove existing socket file if present
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", socketPath, err)
	}

	// Set socket permissions
	if err := os.Chmod(socketPath, 0660); err != nil {
		log.Warn().Err(err).Msg("Failed to set socket permissions")
	}

	log.Info().Str("socket", socketPath).Msg("RPC server started")

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				log.Error().Err(err).Msg("RPC accept error")
				continue
			}
			go server.ServeConn(conn)
		}
	}()

	return listener, nil
}

// Client is a client for the hwpanel RPC service.
type Client struct {
	client *netrpc.Client
}

// NewClient dials the Unix socket and returns an RPC client.
func NewClient(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to RPC socket %s: %w", socketPath, err)
	}
	return &Client{client: netrpc.NewClient(conn)}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Latest fetches the newest snapshot from the server.
func (c *Client) Latest() (model.Snapshot, error) {
	reply := &SnapshotReply{}
	if err := c.client.Call(ServiceName+".Latest", &Empty{}, reply); err != nil {
		return model.Snapshot{}, err
	}
	return reply.Snapshot, nil
}

// Poll asks the server for a fresh snapshot.
func (c *Client) Poll() (model.Snapshot, error) {
	reply := &SnapshotReply{}
	if err := c.client.Call(ServiceName+".Poll", &Empty{}, reply); err != nil {
		return model.Snapshot{}, err
	}
	return reply.Snapshot, nil
}

// History fetches up to limit stored snapshots, newest first.
func (c *Client) History(limit int) ([]store.Record, error) {
	reply := &HistoryReply{}
	if err := c.client.Call(ServiceName+".History", &HistoryArgs{Limit: limit}, reply); err != nil {
		return nil, err
	}
	return reply.Records, nil
}

// DumpSensors fetches the raw sensor table.
func (c *Client) DumpSensors() (telemetry.SensorDump, error) {
	var reply telemetry.SensorDump
	err := c.client.Call(ServiceName+".DumpSensors", &Empty{}, &reply)
	return reply, err
}

// DumpReadings fetches the raw reading table filtered by label.
func (c *Client) DumpReadings(filter string) (telemetry.ReadingDump, error) {
	var reply telemetry.ReadingDump
	err := c.client.Call(ServiceName+".DumpReadings", &DumpReadingsArgs{Filter: filter}, &reply)
	return reply, err
}
