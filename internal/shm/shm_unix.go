//go:build !windows

package shm

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultDir is where POSIX shared memory objects live on Linux.
const DefaultDir = "/dev/shm"

// Path returns the backing file for the object. Windows namespace
// prefixes are dropped so the same configured name works under Wine.
func (n Named) Path() string {
	name := n.Name
	for _, prefix := range []string{`Global\`, `Local\`} {
		name = strings.TrimPrefix(name, prefix)
	}
	dir := n.Dir
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}

// Open maps the object's backing file read-only.
func (n Named) Open() (Region, error) {
	path := n.Path()

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrMappingUnavailable, path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: stating %s: %w", ErrViewMappingFailed, path, err)
	}
	if stat.Size <= 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: %s is empty", ErrViewMappingFailed, path)
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: mapping %s: %w", ErrViewMappingFailed, path, err)
	}

	return &mapping{fd: fd, data: data}, nil
}

type mapping struct {
	fd   int
	data []byte
}

func (m *mapping) Bytes() []byte { return m.data }

// Close unmaps the view and closes the descriptor, reporting the first error.
func (m *mapping) Close() error {
	var firstErr error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			firstErr = fmt.Errorf("unmapping view: %w", err)
		}
		m.data = nil
	}
	if m.fd >= 0 {
		if err := unix.Close(m.fd); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing mapping: %w", err)
		}
		m.fd = -1
	}
	return firstErr
}
