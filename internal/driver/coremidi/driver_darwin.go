//go:build darwin
// +build darwin

// Package coremidi adapts CoreMIDI to the polled contracts.Driver
// surface on macOS. CoreMIDI pushes packets through callbacks, so
// input streams buffer incoming event words in a queue that Poll and
// Read consume.
package coremidi

import (
	"fmt"
	"sync"

	"github.com/miditools/midiport/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// hostErrorCode is the status reported for any CoreMIDI-level failure;
// the accompanying text is kept for ErrorText.
const hostErrorCode = -10000

// portConnection is the disconnectable handle returned when an input
// port connects to a source.
type portConnection interface {
	Disconnect()
}

// Driver adapts CoreMIDI endpoints to the device/stream model:
// sources enumerate as input devices, destinations as output devices,
// with ids assigned in that order.
type Driver struct {
	mu      sync.Mutex
	client  coremidi.Client
	ready   bool
	lastErr string
	opened  map[int]bool
}

// NewDriver returns the CoreMIDI binding.
func NewDriver() (contracts.Driver, error) {
	return &Driver{opened: make(map[int]bool)}, nil
}

func (d *Driver) Initialize() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return 0
	}
	client, err := coremidi.NewClient("midiport")
	if err != nil {
		return d.fail(err)
	}
	d.client = client
	d.ready = true
	return 0
}

func (d *Driver) Terminate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = false
	return 0
}

// fail records the failure text and returns the host error code.
// Callers must hold d.mu.
func (d *Driver) fail(err error) int {
	d.lastErr = err.Error()
	return hostErrorCode
}

func (d *Driver) failText(text string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastErr = text
	return hostErrorCode
}

func (d *Driver) ErrorText(code int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastErr != "" {
		return d.lastErr
	}
	return fmt.Sprintf("coremidi error %d", code)
}

func (d *Driver) endpoints() ([]coremidi.Source, []coremidi.Destination, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, nil, err
	}
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, nil, err
	}
	return sources, destinations, nil
}

func (d *Driver) DeviceCount() int {
	sources, destinations, err := d.endpoints()
	if err != nil {
		return 0
	}
	return len(sources) + len(destinations)
}

func (d *Driver) DeviceInfo(id int) (contracts.DeviceInfo, bool) {
	sources, destinations, err := d.endpoints()
	if err != nil || id < 0 || id >= len(sources)+len(destinations) {
		return contracts.DeviceInfo{}, false
	}

	d.mu.Lock()
	opened := d.opened[id]
	d.mu.Unlock()

	if id < len(sources) {
		return contracts.DeviceInfo{
			DeviceID:  id,
			Interface: "CoreMIDI",
			Name:      sources[id].Name(),
			IsInput:   true,
			Opened:    opened,
		}, true
	}
	return contracts.DeviceInfo{
		DeviceID:  id,
		Interface: "CoreMIDI",
		Name:      destinations[id-len(sources)].Name(),
		IsOutput:  true,
		Opened:    opened,
	}, true
}

func (d *Driver) DefaultInputID() int {
	sources, _, err := d.endpoints()
	if err != nil || len(sources) == 0 {
		return -1
	}
	return 0
}

func (d *Driver) DefaultOutputID() int {
	sources, destinations, err := d.endpoints()
	if err != nil || len(destinations) == 0 {
		return -1
	}
	return len(sources)
}

func (d *Driver) OpenInput(deviceID, bufferSize int) (contracts.Stream, int) {
	sources, _, err := d.endpoints()
	if err != nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		return nil, d.fail(err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return nil, d.failText(fmt.Sprintf("no input device with id %d", deviceID))
	}

	s := &inputStream{driver: d, id: deviceID, events: make(chan uint32, bufferSize)}

	d.mu.Lock()
	defer d.mu.Unlock()
	port, err := coremidi.NewInputPort(d.client, "midiport input", s.enqueue)
	if err != nil {
		return nil, d.fail(err)
	}
	conn, err := port.Connect(sources[deviceID])
	if err != nil {
		return nil, d.fail(err)
	}
	s.conn = conn
	d.opened[deviceID] = true
	return s, 0
}

func (d *Driver) OpenOutput(deviceID, bufferSize, latency int) (contracts.Stream, int) {
	sources, destinations, err := d.endpoints()
	if err != nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		return nil, d.fail(err)
	}
	index := deviceID - len(sources)
	if index < 0 || index >= len(destinations) {
		return nil, d.failText(fmt.Sprintf("no output device with id %d", deviceID))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	port, err := coremidi.NewOutputPort(d.client, "midiport output")
	if err != nil {
		return nil, d.fail(err)
	}
	s := &outputStream{driver: d, id: deviceID, port: port, destination: destinations[index]}
	d.opened[deviceID] = true
	return s, 0
}

func (d *Driver) release(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.opened, id)
}

// inputStream queues packed event words delivered by the CoreMIDI
// callback for Poll and Read to consume.
type inputStream struct {
	driver *Driver
	id     int
	conn   portConnection
	events chan uint32
}

// enqueue packs incoming packet bytes into event words, four bytes per
// word, and queues them. When the queue is full the rest of the packet
// is dropped, matching the buffer-overflow behavior of a fixed driver
// buffer.
func (s *inputStream) enqueue(source coremidi.Source, packet coremidi.Packet) {
	data := packet.Data
	for len(data) > 0 {
		n := len(data)
		if n > 4 {
			n = 4
		}
		var word uint32
		for i := n - 1; i >= 0; i-- {
			word = word<<8 | uint32(data[i])
		}
		select {
		case s.events <- word:
		default:
			return
		}
		data = data[n:]
	}
}

func (s *inputStream) Close() int {
	if s.conn != nil {
		s.conn.Disconnect()
		s.conn = nil
	}
	s.driver.release(s.id)
	return 0
}

func (s *inputStream) Poll() bool {
	return len(s.events) > 0
}

func (s *inputStream) Read() (uint32, int) {
	select {
	case word := <-s.events:
		return word, 1
	default:
		return 0, 0
	}
}

func (s *inputStream) WriteShort(timestamp int32, word uint32) int {
	return s.driver.failText("short write on an input stream")
}

func (s *inputStream) WriteSysEx(timestamp int32, data []byte) int {
	return s.driver.failText("sysex write on an input stream")
}

// outputStream sends packets to one CoreMIDI destination.
type outputStream struct {
	driver      *Driver
	id          int
	port        coremidi.OutputPort
	destination coremidi.Destination
}

func (s *outputStream) Close() int {
	s.driver.release(s.id)
	return 0
}

func (s *outputStream) Poll() bool {
	return false
}

func (s *outputStream) Read() (uint32, int) {
	return 0, s.driver.failText("read on an output stream")
}

func (s *outputStream) WriteShort(timestamp int32, word uint32) int {
	packet := coremidi.NewPacket(shortBytes(word), uint64(timestamp))
	if err := packet.Send(&s.port, &s.destination); err != nil {
		s.driver.mu.Lock()
		defer s.driver.mu.Unlock()
		return s.driver.fail(err)
	}
	return 0
}

func (s *outputStream) WriteSysEx(timestamp int32, data []byte) int {
	packet := coremidi.NewPacket(data, uint64(timestamp))
	if err := packet.Send(&s.port, &s.destination); err != nil {
		s.driver.mu.Lock()
		defer s.driver.mu.Unlock()
		return s.driver.fail(err)
	}
	return 0
}

// shortBytes recovers the significant bytes of a packed event word.
// CoreMIDI takes real byte strings, so the status byte decides how
// many of the four bytes belong to the message.
func shortBytes(word uint32) []byte {
	b := []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
	switch {
	case b[0] >= 0xF4:
		return b[:1] // single-byte system messages
	case b[0] == 0xF1 || b[0] == 0xF3:
		return b[:2]
	case b[0] == 0xF2:
		return b[:3]
	case b[0]&0xF0 == 0xC0 || b[0]&0xF0 == 0xD0:
		return b[:2] // program change, channel pressure
	default:
		return b[:3]
	}
}
