package contracts

// Driver is the native MIDI layer the port machinery is built on.
// Implementations bind a platform driver (PortMidi, CoreMIDI) to this
// surface; tests substitute fakes.
//
// Methods that can fail return a raw driver status code: zero or
// positive on success, negative on error. Callers translate negative
// codes into errors using ErrorText, so the driver never constructs
// Go errors for stream operations itself.
type Driver interface {
	// Initialize prepares the driver for use. Safe to call more than
	// once; implementations must make repeated calls harmless.
	Initialize() int
	// Terminate releases driver-wide resources. All streams must be
	// closed first.
	Terminate() int

	// DeviceCount reports how many devices the driver currently
	// exposes. Device ids run 0..DeviceCount()-1.
	DeviceCount() int
	// DeviceInfo fetches the record for one device id. The second
	// return is false when the driver has no record for the id.
	DeviceInfo(id int) (DeviceInfo, bool)
	// DefaultInputID and DefaultOutputID return the driver's default
	// device for each direction, or a negative value if there is none.
	DefaultInputID() int
	DefaultOutputID() int

	// OpenInput opens an input stream with an internal buffer sized
	// for bufferSize pending events and no driver-side time callback.
	OpenInput(deviceID, bufferSize int) (Stream, int)
	// OpenOutput opens an output stream. With latency zero, writes use
	// the driver's internal clock and are never scheduled for future
	// delivery.
	OpenOutput(deviceID, bufferSize, latency int) (Stream, int)

	// ErrorText resolves a negative status code to the driver's error
	// message for it.
	ErrorText(code int) string
}

// Stream is one open driver stream. A stream is exclusively owned by
// the port that opened it: never shared, closed exactly once, never
// used after Close.
type Stream interface {
	// Close releases the stream handle.
	Close() int
	// Poll reports whether at least one event is pending. It never
	// blocks.
	Poll() bool
	// Read consumes exactly one pending event and returns its packed
	// word. The status is the number of events read (one) or a
	// negative driver code.
	Read() (word uint32, status int)
	// WriteShort transmits one packed event word.
	WriteShort(timestamp int32, word uint32) int
	// WriteSysEx transmits a complete system-exclusive buffer,
	// including its framing bytes.
	WriteSysEx(timestamp int32, data []byte) int
}
