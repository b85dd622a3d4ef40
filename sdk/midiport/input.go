package midiport

import (
	"context"
	"time"

	"github.com/miditools/midiport/sdk/contracts"
)

// pollInterval is how long Receive sleeps between polls while waiting
// for a message.
const pollInterval = time.Millisecond

// InputPort receives MIDI messages from one native input device.
// It drives the parser collaborator: driver events are decoded into
// bytes and fed in, assembled messages are popped out.
//
// An input port is meant for a single goroutine of control; Close may
// be called from another goroutine to end a blocked Receive.
type InputPort struct {
	port
	parser contracts.Parser
}

// Poll drains every pending driver event and reports how many fully
// assembled messages the parser is buffering — not how many events
// were consumed. ok is false when the port is closed, in which case no
// driver access happens at all.
//
// Events are read strictly one at a time: batched reads make the
// driver drop note-off events.
//
// Poll supports a non-blocking drain:
//
//	for {
//		n, ok, err := in.Poll()
//		if err != nil || !ok || n == 0 {
//			break
//		}
//		msg, _ := in.Pop()
//		...
//	}
func (p *InputPort) Poll() (n int, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, false, nil
	}

	for p.stream.Poll() {
		word, status := p.stream.Read()
		if err := translate(p.reg.drv, status); err != nil {
			return 0, true, err
		}
		for _, b := range DecodeEvent(word) {
			p.parser.FeedByte(b)
		}
	}
	return p.parser.Pending(), true, nil
}

// Pop removes and returns the oldest buffered message without touching
// the driver. The second return is false when the parser buffer is
// empty.
func (p *InputPort) Pop() (contracts.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parser.PopMessage()
}

// Receive blocks until a message is available and returns the oldest
// one. A message already buffered by the parser is returned
// immediately with no driver access. Otherwise Receive waits by
// sleeping briefly and polling; the driver offers no true blocking
// primitive, so this documented busy wait stands in for one. ctx is
// the only way to abandon the wait early.
//
// Receive returns ErrPortClosed when the port is closed while or
// before it waits.
func (p *InputPort) Receive(ctx context.Context) (contracts.Message, error) {
	if msg, ok := p.Pop(); ok {
		return msg, nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			n, open, err := p.Poll()
			if err != nil {
				return nil, err
			}
			if !open {
				return nil, ErrPortClosed
			}
			if n > 0 {
				if msg, ok := p.Pop(); ok {
					return msg, nil
				}
			}
		}
	}
}

// Listen emits messages as they arrive, in arrival order, until ctx is
// cancelled or the port is closed; the channel is closed when either
// happens. The stream is not restartable — every call consumes from
// the same parser buffer.
func (p *InputPort) Listen(ctx context.Context) <-chan contracts.Message {
	out := make(chan contracts.Message)
	go func() {
		defer close(out)
		for {
			msg, err := p.Receive(ctx)
			if err != nil {
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
