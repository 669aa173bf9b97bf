// Package sysinfo collects host metadata and answers the poller's host
// questions: is the monitoring process running, how long has the machine
// been up, how large is a volume.
package sysinfo

import (
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// DefaultProcessNames are matched against running process names.
var DefaultProcessNames = []string{"hwinfo64", "hwinfo32"}

// SystemInfo holds all collected system information.
type SystemInfo struct {
	Hostname      string  `json:"hostname"`
	OSName        string  `json:"osName"`
	Kernel        string  `json:"kernel"`
	Arch          string  `json:"arch"`
	CPUModel      string  `json:"cpuModel"`
	CPUCores      int     `json:"cpuCores"`
	MemoryGB      float64 `json:"memoryGb"`
	DiskCount     int     `json:"diskCount"`
	UptimeSeconds uint64  `json:"uptimeSeconds"`
}

// Collect gathers local system information and returns a SystemInfo struct.
func Collect() (*SystemInfo, error) {
	hostname, _ := os.Hostname()
	osName, kernel := getOSInfo()

	info := &SystemInfo{
		Hostname: hostname,
		OSName:   osName,
		Kernel:   kernel,
		Arch:     runtime.GOARCH,
		CPUCores: runtime.NumCPU(),
	}

	// CPU model
	cpuInfo, err := cpu.Info()
	if err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}

	// Memory
	memInfo, err := mem.VirtualMemory()
	if err == nil {
		info.MemoryGB = math.Round(float64(memInfo.Total)/(1024*1024*1024)*100) / 100
	}

	// Disk count
	partitions, err := disk.Partitions(false)
	if err == nil {
		info.DiskCount = len(partitions)
	}

	if up, err := host.Uptime(); err == nil {
		info.UptimeSeconds = up
	}

	return info, nil
}

// Host answers host queries through gopsutil.
type Host struct {
	processNames []string
	log          zerolog.Logger
}

// NewHost returns a Host matching processNames, case-insensitively, as
// substrings of running process names. An empty list uses
// DefaultProcessNames.
func NewHost(processNames []string, log zerolog.Logger) *Host {
	if len(processNames) == 0 {
		processNames = DefaultProcessNames
	}
	names := make([]string, 0, len(processNames))
	for _, n := range processNames {
		names = append(names, strings.ToLower(n))
	}
	return &Host{processNames: names, log: log}
}

// IsMonitoringProcessRunning scans the process table. Processes whose name
// cannot be read are skipped; a failed listing reports false.
func (h *Host) IsMonitoringProcessRunning() bool {
	procs, err := process.Processes()
	if err != nil {
		h.log.Debug().Err(err).Msg("Process listing failed")
		return false
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if matchesProcess(name, h.processNames) {
			return true
		}
	}
	return false
}

func matchesProcess(name string, patterns []string) bool {
	name = strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// UptimeSeconds returns seconds since boot.
func (h *Host) UptimeSeconds() (uint64, error) {
	return host.Uptime()
}

// HostName returns the machine name, or "" when neither gopsutil nor the
// OS can tell.
func (h *Host) HostName() string {
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// Capacity reports total and free bytes of a volume such as "C:".
func (h *Host) Capacity(volume string) (total, free uint64, ok bool) {
	usage, err := disk.Usage(volumePath(volume, runtime.GOOS))
	if err != nil {
		h.log.Debug().Err(err).Str("volume", volume).Msg("Volume capacity unavailable")
		return 0, 0, false
	}
	return usage.Total, usage.Free, true
}

// volumePath turns a drive letter into a root path on Windows.
func volumePath(volume, goos string) string {
	if goos == "windows" && len(volume) == 2 && volume[1] == ':' {
		return volume + `\`
	}
	return volume
}

// getOSInfo retrieves OS name and kernel version.
func getOSInfo() (string, string) {
	var osName, kernel string

	hostInfo, err := host.Info()
	if err == nil {
		osName = hostInfo.Platform
		if hostInfo.PlatformVersion != "" {
			osName += " " + hostInfo.PlatformVersion
		}
		kernel = hostInfo.KernelVersion
	} else {
		osName = runtime.GOOS
	}

	if runtime.GOOS == "linux" {
		if prettyName := readOSReleasePrettyName(); prettyName != "" {
			osName = prettyName
		}
	}

	return osName, kernel
}

// readOSReleasePrettyName parses /etc/os-release for the PRETTY_NAME field.
func readOSReleasePrettyName() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return ""
	}
	return parsePrettyName(string(data))
}

func parsePrettyName(data string) string {
	for _, line := range strings.Split(data, "\n") {
		if strings.HasPrefix(line, "PRETTY_NAME=") {
			return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
		}
	}
	return ""
}
