// Package resolve classifies sensors into logical roles from their
// vendor-supplied names.
package resolve

import (
	"regexp"
	"strings"

	"hwpanel/internal/layout"
)

// Kind is the role a sensor plays for the panel.
type Kind int

const (
	Unclassified Kind = iota
	CPU
	GPU
	Storage
)

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	case Storage:
		return "storage"
	default:
		return "unclassified"
	}
}

// SmartPrefix starts the name of every per-drive SMART sensor.
const SmartPrefix = "S.M.A.R.T.:"

var (
	cpuPatterns    = []string{"ryzen", "intel", "core i"}
	nvidiaPatterns = []string{"geforce", "rtx", "gtx"}
	amdPatterns    = []string{"radeon"}

	driveLetterRe = regexp.MustCompile(`\[([A-Za-z]):[^\]]*\]`)
)

// Role is a sensor's classification. DriveLetter is set only for storage
// sensors whose name carries a bracketed volume such as "[C:]".
type Role struct {
	Kind        Kind
	DriveName   string
	DriveLetter string
}

// Roles maps sensor table positions to roles for a single poll.
type Roles struct {
	// CPU and GPU are the table positions of the primary devices, -1 if none.
	CPU     int
	GPU     int
	CPUName string
	GPUName string

	count      int
	gpuNVIDIA  bool
	roles      map[int]Role
	gpuDevices map[int]bool
	storage    []int
}

// Resolve makes a single pass over the sensors in table order.
//
// The SMART prefix is checked first, so a drive whose model string carries
// a vendor name ("S.M.A.R.T.: INTEL SSDPEKNW010T8") is always storage.
// The first sensor matching a CPU pattern names the CPU; later sensors are
// tagged CPU only when their matching segment names the same device, so a
// package's auxiliary sensors ("Enhanced", "C-State Residency") feed CPU
// metrics while an Intel iGPU or NIC does not. Exactly one sensor holds the
// GPU role: an NVIDIA match replaces any earlier GPU, a Radeon match is
// taken only while no GPU is assigned.
func Resolve(sensors []layout.Sensor, count int) Roles {
	r := Roles{
		CPU:        -1,
		GPU:        -1,
		count:      count,
		roles:      make(map[int]Role),
		gpuDevices: make(map[int]bool),
	}

	for _, s := range sensors {
		if s.Index >= count {
			continue
		}
		name := strings.ToLower(s.NameOriginal)

		switch {
		case strings.HasPrefix(s.NameOriginal, SmartPrefix):
			r.roles[s.Index] = Role{
				Kind:        Storage,
				DriveName:   DriveName(s.NameOriginal),
				DriveLetter: DriveLetter(s.NameOriginal),
			}
			r.storage = append(r.storage, s.Index)

		case r.isCPU(s.NameOriginal, name):
			r.roles[s.Index] = Role{Kind: CPU}
			if r.CPU < 0 {
				r.CPU = s.Index
				r.CPUName = displayName(s.NameOriginal, cpuPatterns)
			}

		case containsAny(name, nvidiaPatterns):
			r.gpuDevices[s.Index] = true
			r.setGPU(s, nvidiaPatterns)
			r.gpuNVIDIA = true

		case containsAny(name, amdPatterns):
			r.gpuDevices[s.Index] = true
			if r.GPU < 0 {
				r.setGPU(s, amdPatterns)
			}
		}
	}
	return r
}

func (r *Roles) isCPU(original, lower string) bool {
	if !containsAny(lower, cpuPatterns) {
		return false
	}
	return r.CPU < 0 || displayName(original, cpuPatterns) == r.CPUName
}

func (r *Roles) setGPU(s layout.Sensor, patterns []string) {
	if r.GPU >= 0 {
		delete(r.roles, r.GPU)
	}
	r.GPU = s.Index
	r.GPUName = displayName(s.NameOriginal, patterns)
	r.roles[s.Index] = Role{Kind: GPU}
}

// Of returns the role of the sensor at table position i.
func (r Roles) Of(i int) Role {
	return r.roles[i]
}

// GPUDevice reports whether the sensor at i named a graphics card, whether
// or not it ended up holding the GPU role.
func (r Roles) GPUDevice(i int) bool {
	return r.gpuDevices[i]
}

// Valid reports whether a reading's sensor index may be looked up.
func (r Roles) Valid(sensorIndex uint32) bool {
	return uint64(sensorIndex) < uint64(r.count)
}

// StorageSensors lists storage sensors in table order.
func (r Roles) StorageSensors() []int {
	return r.storage
}

// GPUIsNVIDIA reports whether the GPU role came from an NVIDIA match.
func (r Roles) GPUIsNVIDIA() bool {
	return r.GPU >= 0 && r.gpuNVIDIA
}

// DriveLetter extracts "C:" from a name containing "[C:]".
func DriveLetter(name string) string {
	m := driveLetterRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1]) + ":"
}

// DriveName strips the SMART prefix and the bracketed volume from a
// storage sensor name.
func DriveName(name string) string {
	name = strings.TrimPrefix(name, SmartPrefix)
	name = driveLetterRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// displayName picks the ": "-separated segment that matched, so
// "CPU [#0]: AMD Ryzen 9 7950X: Enhanced" becomes "AMD Ryzen 9 7950X".
func displayName(name string, patterns []string) string {
	for _, part := range strings.Split(name, ": ") {
		if containsAny(strings.ToLower(part), patterns) {
			return strings.TrimSpace(part)
		}
	}
	return strings.TrimSpace(name)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
