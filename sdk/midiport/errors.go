package midiport

import (
	"errors"
	"fmt"

	"github.com/miditools/midiport/sdk/contracts"
)

// Error values reported by the registry and ports. Failures are
// surfaced synchronously at the operation that detects them; nothing
// is retried here, reselection is the caller's responsibility.
var (
	// ErrUnsupportedOS is returned when no native driver binding
	// exists for the current operating system.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrDeviceNotFound is returned when the driver lists a device id
	// but yields no record for it.
	ErrDeviceNotFound = errors.New("midi device not found")
	// ErrNoDefaultDevice is returned when the driver has no default
	// device for the requested direction.
	ErrNoDefaultDevice = errors.New("no default port found")
	// ErrUnknownPort is returned when no device with the requested
	// name and direction exists.
	ErrUnknownPort = errors.New("unknown port")
	// ErrPortAlreadyOpen is returned when the named device is already
	// held open by another port.
	ErrPortAlreadyOpen = errors.New("port already open")
	// ErrSendOnClosedPort is returned by Send after the port closed.
	ErrSendOnClosedPort = errors.New("send on closed port")
	// ErrPortClosed is returned by Receive when the port closes while
	// or before it waits.
	ErrPortClosed = errors.New("port closed")
	// ErrNilParser is returned when an input port is opened without a
	// parser collaborator.
	ErrNilParser = errors.New("nil parser")
)

// DriverError wraps a negative status code returned by the native
// driver, carrying the driver's own error text for it.
type DriverError struct {
	Code int
	Text string
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("native driver error %d: %s", e.Code, e.Text)
}

// translate turns a negative driver status into a *DriverError,
// resolving the message through the driver's error-text lookup.
// Non-negative statuses translate to nil.
func translate(drv contracts.Driver, status int) error {
	if status >= 0 {
		return nil
	}
	return &DriverError{Code: status, Text: drv.ErrorText(status)}
}
