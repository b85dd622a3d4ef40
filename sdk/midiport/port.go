package midiport

import (
	"fmt"
	"sync"

	"github.com/miditools/midiport/sdk/contracts"
)

// port is the lifecycle state machine shared by input and output
// ports: one direction tag, one bound device, one exclusively owned
// driver stream. It is created open by the registry and transitions
// to closed exactly once; closing again is a no-op.
type port struct {
	reg       *Registry
	direction Direction
	device    contracts.DeviceInfo
	stream    contracts.Stream

	mu     sync.Mutex
	closed bool
}

// Name returns the name of the bound device. When the port was opened
// without a name this is the resolved default device's name.
func (p *port) Name() string {
	return p.device.Name
}

// Device returns the record of the bound device as of the open call,
// with Opened tracking this port's state.
func (p *port) Device() contracts.DeviceInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device
}

// IsClosed reports whether the port has been closed.
func (p *port) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close releases the driver stream. Closing an already closed port is
// a no-op with no driver call. The port is marked closed even when the
// driver rejects the close: the handle is unusable either way, and a
// port that stays "open" around a dead handle can only leak.
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.device.Opened = false

	if p.stream == nil {
		// Partially constructed port: nothing to release.
		return nil
	}
	status := p.stream.Close()
	p.stream = nil

	if err := translate(p.reg.drv, status); err != nil {
		p.reg.log.Error("failed to close driver stream",
			p.reg.log.Field().String("direction", p.direction.String()),
			p.reg.log.Field().String("name", p.device.Name),
			p.reg.log.Field().Error("error", err))
		return err
	}
	p.reg.log.Info("port closed",
		p.reg.log.Field().String("direction", p.direction.String()),
		p.reg.log.Field().String("name", p.device.Name))
	return nil
}

func (p *port) String() string {
	state := "open"
	if p.IsClosed() {
		state = "closed"
	}
	return fmt.Sprintf("<%s %s port %q>", state, p.direction, p.device.Name)
}
