//go:build windows
// +build windows

// Package portmidi binds the portmidi shared library to the
// contracts.Driver surface on Windows.
package portmidi

import (
	"unsafe"

	"github.com/miditools/midiport/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Procedures from portmidi.dll, resolved lazily on first use.
var (
	pmdll = windows.NewLazySystemDLL("portmidi.dll")

	procInitialize         = pmdll.NewProc("Pm_Initialize")
	procTerminate          = pmdll.NewProc("Pm_Terminate")
	procCountDevices       = pmdll.NewProc("Pm_CountDevices")
	procGetDeviceInfo      = pmdll.NewProc("Pm_GetDeviceInfo")
	procGetDefaultInputID  = pmdll.NewProc("Pm_GetDefaultInputDeviceID")
	procGetDefaultOutputID = pmdll.NewProc("Pm_GetDefaultOutputDeviceID")
	procOpenInput          = pmdll.NewProc("Pm_OpenInput")
	procOpenOutput         = pmdll.NewProc("Pm_OpenOutput")
	procClose              = pmdll.NewProc("Pm_Close")
	procPoll               = pmdll.NewProc("Pm_Poll")
	procRead               = pmdll.NewProc("Pm_Read")
	procWriteShort         = pmdll.NewProc("Pm_WriteShort")
	procWriteSysEx         = pmdll.NewProc("Pm_WriteSysEx")
	procGetErrorText       = pmdll.NewProc("Pm_GetErrorText")
)

// pmDeviceInfo mirrors the PmDeviceInfo struct returned by
// Pm_GetDeviceInfo.
type pmDeviceInfo struct {
	structVersion int32
	interf        *byte
	name          *byte
	input         int32
	output        int32
	opened        int32
	isVirtual     int32
}

// pmEvent mirrors PmEvent: one packed message word plus a timestamp.
type pmEvent struct {
	message   int32
	timestamp int32
}

// Driver is the portmidi.dll binding.
type Driver struct{}

// NewDriver loads portmidi.dll and returns the binding. Loading fails
// when the library is not installed.
func NewDriver() (contracts.Driver, error) {
	if err := pmdll.Load(); err != nil {
		return nil, err
	}
	return &Driver{}, nil
}

func (d *Driver) Initialize() int {
	r, _, _ := procInitialize.Call()
	return int(int32(r))
}

func (d *Driver) Terminate() int {
	r, _, _ := procTerminate.Call()
	return int(int32(r))
}

func (d *Driver) DeviceCount() int {
	r, _, _ := procCountDevices.Call()
	return int(int32(r))
}

func (d *Driver) DeviceInfo(id int) (contracts.DeviceInfo, bool) {
	r, _, _ := procGetDeviceInfo.Call(uintptr(id))
	if r == 0 {
		return contracts.DeviceInfo{}, false
	}
	info := (*pmDeviceInfo)(unsafe.Pointer(r))
	return contracts.DeviceInfo{
		DeviceID:  id,
		Interface: windows.BytePtrToString(info.interf),
		Name:      windows.BytePtrToString(info.name),
		IsInput:   info.input != 0,
		IsOutput:  info.output != 0,
		Opened:    info.opened != 0,
	}, true
}

func (d *Driver) DefaultInputID() int {
	r, _, _ := procGetDefaultInputID.Call()
	return int(int32(r))
}

func (d *Driver) DefaultOutputID() int {
	r, _, _ := procGetDefaultOutputID.Call()
	return int(int32(r))
}

func (d *Driver) OpenInput(deviceID, bufferSize int) (contracts.Stream, int) {
	s := &stream{}
	r, _, _ := procOpenInput.Call(
		uintptr(unsafe.Pointer(&s.handle)),
		uintptr(deviceID),
		0, // inputDriverInfo
		uintptr(bufferSize),
		0, // time_proc: timestamps unused
		0, // time_info
	)
	if code := int(int32(r)); code < 0 {
		return nil, code
	}
	return s, 0
}

func (d *Driver) OpenOutput(deviceID, bufferSize, latency int) (contracts.Stream, int) {
	s := &stream{}
	r, _, _ := procOpenOutput.Call(
		uintptr(unsafe.Pointer(&s.handle)),
		uintptr(deviceID),
		0, // outputDriverInfo
		uintptr(bufferSize),
		0, // time_proc: default to the internal clock
		0, // time_info
		uintptr(latency),
	)
	if code := int(int32(r)); code < 0 {
		return nil, code
	}
	return s, 0
}

func (d *Driver) ErrorText(code int) string {
	r, _, _ := procGetErrorText.Call(uintptr(int32(code)))
	if r == 0 {
		return ""
	}
	return windows.BytePtrToString((*byte)(unsafe.Pointer(r)))
}

// stream wraps one PortMidiStream handle.
type stream struct {
	handle uintptr
}

func (s *stream) Close() int {
	r, _, _ := procClose.Call(s.handle)
	return int(int32(r))
}

func (s *stream) Poll() bool {
	r, _, _ := procPoll.Call(s.handle)
	return int32(r) > 0
}

func (s *stream) Read() (uint32, int) {
	var event pmEvent
	r, _, _ := procRead.Call(s.handle, uintptr(unsafe.Pointer(&event)), 1)
	status := int(int32(r))
	if status < 0 {
		return 0, status
	}
	return uint32(event.message), status
}

func (s *stream) WriteShort(timestamp int32, word uint32) int {
	r, _, _ := procWriteShort.Call(s.handle, uintptr(timestamp), uintptr(word))
	return int(int32(r))
}

func (s *stream) WriteSysEx(timestamp int32, data []byte) int {
	// Pm_WriteSysEx takes a NUL-terminated buffer.
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	r, _, _ := procWriteSysEx.Call(s.handle, uintptr(timestamp), uintptr(unsafe.Pointer(&buf[0])))
	return int(int32(r))
}
