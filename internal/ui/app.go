// Package ui renders live snapshots as a terminal dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hwpanel/internal/model"
)

// Source supplies the snapshot shown on each refresh.
type Source interface {
	Snapshot() (model.Snapshot, error)
}

type tickMsg time.Time

type collectMsg struct {
	snap model.Snapshot
	err  error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	source   Source
	interval time.Duration
	origin   string

	snap   *model.Snapshot
	err    error
	paused bool
	width  int
	height int
}

// NewModel creates a dashboard refreshing from source every interval.
// origin names where snapshots come from, e.g. the RPC socket.
func NewModel(source Source, interval time.Duration, origin string) Model {
	return Model{source: source, interval: interval, origin: origin}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), collectOnce(m.source))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func collectOnce(source Source) tea.Cmd {
	return func() tea.Msg {
		snap, err := source.Snapshot()
		return collectMsg{snap: snap, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
		case "r":
			return m, collectOnce(m.source)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.paused {
			return m, tick(m.interval)
		}
		return m, tea.Batch(tick(m.interval), collectOnce(m.source))
	case collectMsg:
		if m.paused {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			snap := msg.snap
			m.snap = &snap
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.snap == nil {
		if m.err != nil {
			return critStyle.Render("Error: "+m.err.Error()) + "\n\n" + m.renderHelp()
		}
		return "Collecting first sample..."
	}

	innerW := maxBoxInner
	if m.width > 0 && m.width/2-5 < innerW {
		innerW = max(m.width/2-5, minBoxInner)
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader() + "\n\n")

	s := m.snap
	if !s.Connected() {
		sb.WriteString(renderKVBox("Diagnostics", diagnosticsRows(s.Diagnostics), innerW*2+5))
		sb.WriteString("\n" + m.renderHelp())
		return sb.String()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		renderKVBox(cpuTitle(s.CPU), cpuRows(s.CPU), innerW),
		renderKVBox(gpuTitle(s.GPU), gpuRows(s.GPU), innerW),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		renderKVBox("Storage", storageRows(s.Storage, s.Drives), innerW),
		renderKVBox(systemTitle(s.System), systemRows(s.System), innerW),
	)
	if m.width > 0 && m.width < 2*(innerW+5) {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, left, right))
	} else {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	}
	sb.WriteString("\n" + m.renderHelp())
	return sb.String()
}

func (m Model) renderHeader() string {
	status := okStyle.Render("● connected")
	if !m.snap.Connected() {
		status = critStyle.Render("● not connected")
	}
	line := " " + headerStyle.Render("hwpanel") + "  " + status
	if m.snap.LastReadAt != nil {
		line += "  " + dimStyle.Render("read "+*m.snap.LastReadAt)
	}
	if m.origin != "" {
		line += "  " + dimStyle.Render("via "+m.origin)
	}
	if m.paused {
		line += "  " + warnStyle.Render("PAUSED")
	}
	if m.err != nil {
		line += "  " + critStyle.Render(m.err.Error())
	}
	return line
}

func (m Model) renderHelp() string {
	return " " + helpStyle.Render("q: quit  p: pause  r: refresh")
}

func diagnosticsRows(d model.Diagnostics) []kv {
	yesNo := func(b bool) string {
		if b {
			return okStyle.Render("yes")
		}
		return critStyle.Render("no")
	}
	rows := []kv{
		{"HWiNFO running", yesNo(d.HWiNFOProcessDetected)},
		{"Shared memory", yesNo(d.SharedMemoryDetected)},
	}
	if d.Message != "" {
		rows = append(rows, kv{"Reason", valueStyle.Render(d.Message)})
	}
	return rows
}

func cpuTitle(c model.CPUMetrics) string {
	if c.Name == "" {
		return "CPU"
	}
	return "CPU · " + c.Name
}

func cpuRows(c model.CPUMetrics) []kv {
	rows := []kv{
		{"Package", temp(c.PackageTempC)},
		{"Power", num(c.PackagePowerW, " W", 1)},
		{"Clock", num(c.CoreClockMHz, " MHz", 0)},
		{"Usage", percent(c.UsagePercent)},
	}
	if len(c.CoreTemps) > 0 {
		hottest := c.CoreTemps[0]
		for _, t := range c.CoreTemps[1:] {
			hottest = max(hottest, t)
		}
		rows = append(rows, kv{"Cores", fmt.Sprintf("%s %s",
			valueStyle.Render(fmt.Sprintf("%d, hottest", len(c.CoreTemps))), temp(&hottest))})
	}
	return rows
}

func gpuTitle(g model.GPUMetrics) string {
	if g.Name == "" {
		return "GPU"
	}
	return "GPU · " + g.Name
}

func gpuRows(g model.GPUMetrics) []kv {
	vram := dimStyle.Render(dash)
	if g.VRAMUsedMB != nil && g.VRAMTotalMB != nil && *g.VRAMTotalMB > 0 {
		pct := *g.VRAMUsedMB / *g.VRAMTotalMB * 100
		vram = bar(pct, barWidth) + " " + valueStyle.Render(fmt.Sprintf("%.0f / %.0f MB", *g.VRAMUsedMB, *g.VRAMTotalMB))
	} else if g.VRAMUsedMB != nil {
		vram = num(g.VRAMUsedMB, " MB", 0)
	}
	return []kv{
		{"Hotspot", temp(g.HotspotTempC)},
		{"Mem junction", temp(g.MemoryJunctionTempC)},
		{"Power", num(g.PowerW, " W", 1)},
		{"Core clock", num(g.CoreClockMHz, " MHz", 0)},
		{"Mem clock", num(g.MemoryClockMHz, " MHz", 0)},
		{"Usage", percent(g.UsagePercent)},
		{"VRAM", vram},
		{"Fan", fmt.Sprintf("%s %s", num(g.FanSpeedRPM, " RPM", 0), percent(g.FanSpeedPercent))},
	}
}

func storageRows(primary model.StorageMetrics, drives []model.DriveInfo) []kv {
	rows := []kv{
		{"Primary", text(primary.Name)},
		{"Temperature", temp(primary.TempC)},
		{"SMART", healthColor(primary.SmartHealth).Render(string(primary.SmartHealth))},
	}
	for _, d := range drives {
		key := d.DriveLetter
		if key == "" {
			key = "?"
		}
		val := temp(d.TempC) + " " + healthColor(d.SmartHealth).Render(string(d.SmartHealth))
		if d.TotalGB != nil && d.FreeGB != nil && *d.TotalGB > 0 {
			used := (*d.TotalGB - *d.FreeGB) / *d.TotalGB * 100
			val += " " + bar(used, 8)
		}
		rows = append(rows, kv{key, val})
	}
	return rows
}

func systemTitle(s model.SystemMetrics) string {
	if s.Name == "" {
		return "System"
	}
	return "System · " + s.Name
}

func systemRows(s model.SystemMetrics) []kv {
	uptime := dimStyle.Render(dash)
	if s.UptimeSeconds != nil {
		uptime = valueStyle.Render(formatUptime(*s.UptimeSeconds))
	}
	rows := []kv{
		{"Uptime", uptime},
		{"Fans", fanColor(s.FanStatus).Render(string(s.FanStatus))},
	}
	for _, f := range s.Fans {
		rows = append(rows, kv{f.Name, valueStyle.Render(fmt.Sprintf("%.0f RPM", f.RPM))})
	}
	return rows
}
