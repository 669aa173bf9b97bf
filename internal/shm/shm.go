// Package shm maps the publisher's named shared-memory object read-only.
//
// Each Open performs exactly one open/map; the returned Region owns the
// mapping and must be closed exactly once.
package shm

import "errors"

var (
	// ErrMappingUnavailable means the named object does not exist: the
	// publisher is not running or its shared memory support is disabled.
	ErrMappingUnavailable = errors.New("shared memory mapping unavailable")

	// ErrViewMappingFailed means the object exists but no view could be mapped.
	ErrViewMappingFailed = errors.New("mapping shared memory view failed")
)

// DefaultName is the object HWiNFO publishes its sensor tables under.
const DefaultName = `Global\HWiNFO_SENS_SM2`

// Region is a read-only view over a mapped object. The bytes are owned by
// the publisher and may change underneath the reader.
type Region interface {
	Bytes() []byte
	Close() error
}

// Opener acquires a Region.
type Opener interface {
	Open() (Region, error)
}

// Named opens an OS-level named shared-memory object.
type Named struct {
	Name string
	// Dir holds the backing files on non-Windows hosts, e.g. /dev/shm.
	Dir string
}

// Buffer is an in-memory Region, used to replay captured regions.
type Buffer []byte

func (b Buffer) Bytes() []byte { return b }
func (b Buffer) Close() error  { return nil }

// Static opens the same buffer on every call, or fails with Err.
type Static struct {
	Data []byte
	Err  error
}

func (s Static) Open() (Region, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return Buffer(s.Data), nil
}
