//go:build windows

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMappingW = kernel32.NewProc("OpenFileMappingW")
)

func openFileMapping(access uint32, name string) (windows.Handle, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	r, _, callErr := procOpenFileMappingW.Call(uintptr(access), 0, uintptr(unsafe.Pointer(namePtr)))
	if r == 0 {
		return 0, callErr
	}
	return windows.Handle(r), nil
}

// Open maps a read-only view of the named file mapping.
func (n Named) Open() (Region, error) {
	handle, err := openFileMapping(windows.FILE_MAP_READ, n.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrMappingUnavailable, n.Name, err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ, 0, 0, 0)
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("%w: %w", ErrViewMappingFailed, err)
	}

	// The view length is not returned by MapViewOfFile; the region size
	// of the committed pages bounds every later read.
	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		windows.UnmapViewOfFile(addr)
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("%w: querying view size: %w", ErrViewMappingFailed, err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(info.RegionSize))
	return &view{handle: handle, addr: addr, data: data}, nil
}

type view struct {
	handle windows.Handle
	addr   uintptr
	data   []byte
}

func (v *view) Bytes() []byte { return v.data }

func (v *view) Close() error {
	var firstErr error
	if v.addr != 0 {
		if err := windows.UnmapViewOfFile(v.addr); err != nil {
			firstErr = fmt.Errorf("unmapping view: %w", err)
		}
		v.addr = 0
		v.data = nil
	}
	if v.handle != 0 {
		if err := windows.CloseHandle(v.handle); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing mapping: %w", err)
		}
		v.handle = 0
	}
	return firstErr
}
