package contracts

// Message is one fully assembled MIDI message produced by a Parser.
// The message grammar itself lives with the parser; ports only need
// the encoded bytes and the system-exclusive discriminator.
type Message interface {
	// Bytes returns the encoded message: 1 to 4 bytes for ordinary
	// messages, arbitrary length for system-exclusive messages
	// (framed by their own start and end markers).
	Bytes() []byte
	// IsSysEx reports whether the message takes the long-message
	// transmit path instead of the packed-word path.
	IsSysEx() bool
}

// Parser assembles a raw MIDI byte stream into messages. It owns all
// buffering of assembled messages and is responsible for discarding
// bytes that do not extend a valid in-progress message, which lets
// callers feed it fixed-size event words without trimming padding.
//
// Parsers are driven from a single goroutine per input port and need
// no internal synchronization.
type Parser interface {
	// FeedByte consumes one raw byte from the device.
	FeedByte(b byte)
	// PopMessage removes and returns the oldest buffered message.
	// The second return is false when the buffer is empty.
	PopMessage() (Message, bool)
	// Pending reports how many fully assembled messages are buffered.
	Pending() int
}
