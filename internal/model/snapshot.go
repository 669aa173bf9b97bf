// Package model defines the telemetry snapshot handed to the panel UI.
package model

// Status reports whether the publisher's shared memory could be read.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusNotConnected Status = "not_connected"
)

// Health is the SMART health bucket derived from a drive's remaining life.
type Health string

const (
	HealthGood     Health = "good"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
	HealthUnknown  Health = "unknown"
)

// FanStatus summarises all chassis and CPU fans.
type FanStatus string

const (
	FanOK      FanStatus = "ok"
	FanWarning FanStatus = "warning"
	FanUnknown FanStatus = "unknown"
)

// Snapshot is the result of a single poll. Every metric is optional;
// a nil pointer or empty string means the publisher did not report it.
type Snapshot struct {
	Status      Status         `json:"status" msgpack:"status"`
	LastReadAt  *string        `json:"lastReadAt" msgpack:"last_read_at"`
	Diagnostics Diagnostics    `json:"diagnostics" msgpack:"diagnostics"`
	CPU         CPUMetrics     `json:"cpu" msgpack:"cpu"`
	GPU         GPUMetrics     `json:"gpu" msgpack:"gpu"`
	Storage     StorageMetrics `json:"storage" msgpack:"storage"`
	Drives      []DriveInfo    `json:"drives" msgpack:"drives"`
	System      SystemMetrics  `json:"system" msgpack:"system"`
}

// Diagnostics describes how the poll went. The two flags are independent:
// the publisher can run with shared memory disabled.
type Diagnostics struct {
	HWiNFOProcessDetected bool   `json:"hwinfoProcessDetected" msgpack:"hwinfo_process_detected"`
	SharedMemoryDetected  bool   `json:"sharedMemoryDetected" msgpack:"shared_memory_detected"`
	Message               string `json:"message,omitempty" msgpack:"message,omitempty"`
}

type CPUMetrics struct {
	Name          string    `json:"name,omitempty" msgpack:"name,omitempty"`
	PackageTempC  *float64  `json:"packageTempC" msgpack:"package_temp_c"`
	PackagePowerW *float64  `json:"packagePowerW" msgpack:"package_power_w"`
	CoreClockMHz  *float64  `json:"coreClockMhz" msgpack:"core_clock_mhz"`
	UsagePercent  *float64  `json:"usagePercent" msgpack:"usage_percent"`
	CoreTemps     []float64 `json:"coreTemps" msgpack:"core_temps"`
}

type GPUMetrics struct {
	Name                string   `json:"name,omitempty" msgpack:"name,omitempty"`
	HotspotTempC        *float64 `json:"hotspotTempC" msgpack:"hotspot_temp_c"`
	MemoryJunctionTempC *float64 `json:"memoryJunctionTempC" msgpack:"memory_junction_temp_c"`
	PowerW              *float64 `json:"powerW" msgpack:"power_w"`
	CoreClockMHz        *float64 `json:"coreClockMhz" msgpack:"core_clock_mhz"`
	MemoryClockMHz      *float64 `json:"memoryClockMhz" msgpack:"memory_clock_mhz"`
	UsagePercent        *float64 `json:"usagePercent" msgpack:"usage_percent"`
	VRAMUsedMB          *float64 `json:"vramUsedMb" msgpack:"vram_used_mb"`
	VRAMTotalMB         *float64 `json:"vramTotalMb" msgpack:"vram_total_mb"`
	FanSpeedRPM         *float64 `json:"fanSpeedRpm" msgpack:"fan_speed_rpm"`
	FanSpeedPercent     *float64 `json:"fanSpeedPercent" msgpack:"fan_speed_percent"`
}

// StorageMetrics mirrors the primary drive.
type StorageMetrics struct {
	Name        string   `json:"name,omitempty" msgpack:"name,omitempty"`
	TempC       *float64 `json:"nvmeTempC" msgpack:"temp_c"`
	SmartHealth Health   `json:"smartHealth" msgpack:"smart_health"`
}

type DriveInfo struct {
	Name        string   `json:"name,omitempty" msgpack:"name,omitempty"`
	DriveLetter string   `json:"driveLetter,omitempty" msgpack:"drive_letter,omitempty"`
	TempC       *float64 `json:"tempC" msgpack:"temp_c"`
	SmartHealth Health   `json:"smartHealth" msgpack:"smart_health"`
	TotalGB     *float64 `json:"totalGb" msgpack:"total_gb"`
	FreeGB      *float64 `json:"freeGb" msgpack:"free_gb"`
}

type FanReading struct {
	Name string  `json:"name" msgpack:"name"`
	RPM  float64 `json:"rpm" msgpack:"rpm"`
}

type SystemMetrics struct {
	Name          string       `json:"name,omitempty" msgpack:"name,omitempty"`
	UptimeSeconds *uint64      `json:"uptimeSeconds" msgpack:"uptime_seconds"`
	FanStatus     FanStatus    `json:"fanStatus" msgpack:"fan_status"`
	Fans          []FanReading `json:"fans" msgpack:"fans"`
}

// NotConnected returns the snapshot reported when the shared region could
// not be read.
func NotConnected(processDetected bool, message string) Snapshot {
	return Snapshot{
		Status: StatusNotConnected,
		Diagnostics: Diagnostics{
			HWiNFOProcessDetected: processDetected,
			SharedMemoryDetected:  false,
			Message:               message,
		},
		CPU:     CPUMetrics{CoreTemps: []float64{}},
		Storage: StorageMetrics{SmartHealth: HealthUnknown},
		Drives:  []DriveInfo{},
		System:  SystemMetrics{FanStatus: FanUnknown, Fans: []FanReading{}},
	}
}

// Connected reports whether the snapshot was decoded from live shared memory.
func (s Snapshot) Connected() bool {
	return s.Status == StatusConnected
}
