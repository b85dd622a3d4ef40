package contracts

import "fmt"

// DeviceInfo describes one native MIDI device at enumeration time.
// Records are produced fresh on every registry query; only Opened
// reflects live state, tracking which device a port currently holds
// for exclusive use.
type DeviceInfo struct {
	DeviceID  int    // Stable identifier assigned by the native driver.
	Interface string // Driver interface name (for example "ALSA" or "CoreMIDI").
	Name      string // Device name, the same string used to open a port.
	IsInput   bool   // True if the device can be opened for input.
	IsOutput  bool   // True if the device can be opened for output.
	Opened    bool   // True while a port holds the device open.
}

func (d DeviceInfo) String() string {
	state := "closed"
	if d.Opened {
		state = "open"
	}
	kind := "output"
	if d.IsInput {
		kind = "input"
	}
	return fmt.Sprintf("<%s %s device %q %q>", state, kind, d.Name, d.Interface)
}
