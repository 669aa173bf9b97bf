// Package history implements hwpanel history: recent snapshots fetched
// from a running hwpanel serve.
package history

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hwpanel/internal/rpc"
	"hwpanel/internal/store"
	"hwpanel/pkg/config"
)

// DefaultLimit is the number of snapshots shown when none is given.
const DefaultLimit = 20

// Run prints the newest limit snapshots as a table.
func Run(configPath string, limit int) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := rpc.NewClient(cfg.Panel.RPCSocket)
	if err != nil {
		return fmt.Errorf("connecting to server: %w\nIs 'hwpanel serve' running?", err)
	}
	defer client.Close()

	records, err := client.History(limit)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No snapshots recorded yet.")
		return nil
	}

	fmt.Printf("\n  Recent Snapshots (%d)\n\n", len(records))
	displayHistoryTable(os.Stdout, records)
	return nil
}

// ParseLimit reads the optional count argument.
func ParseLimit(args []string) (int, error) {
	if len(args) == 0 {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count: %s", args[0])
	}
	return n, nil
}

func displayHistoryTable(w io.Writer, records []store.Record) {
	fmt.Fprintf(w, "  %-8s %-13s %-8s %-8s %-8s %-8s %-7s %-20s\n",
		"Time", "Status", "CPU °C", "CPU W", "GPU °C", "SSD °C", "Fans", "Host")
	fmt.Fprintf(w, "  %s %s %s %s %s %s %s %s\n",
		strings.Repeat("─", 8),
		strings.Repeat("─", 13),
		strings.Repeat("─", 8),
		strings.Repeat("─", 8),
		strings.Repeat("─", 8),
		strings.Repeat("─", 8),
		strings.Repeat("─", 7),
		strings.Repeat("─", 20))

	for _, r := range records {
		s := r.Snapshot
		fmt.Fprintf(w, "  %-8s %-13s %-8s %-8s %-8s %-8s %-7s %-20s\n",
			r.At.Local().Format("15:04:05"),
			s.Status,
			number(s.CPU.PackageTempC),
			number(s.CPU.PackagePowerW),
			number(s.GPU.HotspotTempC),
			number(s.Storage.TempC),
			s.System.FanStatus,
			truncate(s.System.Name, 20),
		)
	}
}

func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
