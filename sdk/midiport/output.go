package midiport

import (
	"fmt"

	"github.com/miditools/midiport/sdk/contracts"
)

// OutputPort sends MIDI messages to one native output device.
type OutputPort struct {
	port
}

// Send transmits one message through the driver stream. System-
// exclusive messages go out through the long-message write as a raw
// buffer; everything else is packed into a single event word. Both
// paths use timestamp zero — output streams open with zero latency, so
// the driver ignores timestamps and writes immediately.
//
// Sending on a closed port returns ErrSendOnClosedPort without any
// driver call.
func (p *OutputPort) Send(msg contracts.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("%w: %q", ErrSendOnClosedPort, p.device.Name)
	}

	if msg.IsSysEx() {
		return translate(p.reg.drv, p.stream.WriteSysEx(0, msg.Bytes()))
	}

	word, err := EncodeBytes(msg.Bytes())
	if err != nil {
		return err
	}
	return translate(p.reg.drv, p.stream.WriteShort(0, word))
}
