package midiport

import (
	"testing"

	"github.com/miditools/midiport/sdk/contracts"
	"github.com/stretchr/testify/require"
)

// fakeDriver implements contracts.Driver in memory, flipping the
// Opened flag on open and close the way the native driver does, and
// counting every call so tests can assert which driver paths ran.
type fakeDriver struct {
	devices       []contracts.DeviceInfo
	defaultInput  int
	defaultOutput int
	missing       map[int]bool

	errorTexts map[int]string

	openInputCode  int
	openOutputCode int

	initCalls        int
	termCalls        int
	lastInputBuffer  int
	lastOutputBuffer int
	lastLatency      int

	streams []*fakeStream
}

func newFakeDriver(devices ...contracts.DeviceInfo) *fakeDriver {
	return &fakeDriver{
		devices:       devices,
		defaultInput:  -1,
		defaultOutput: -1,
		missing:       make(map[int]bool),
		errorTexts:    make(map[int]string),
	}
}

func (d *fakeDriver) Initialize() int { d.initCalls++; return 0 }
func (d *fakeDriver) Terminate() int  { d.termCalls++; return 0 }

func (d *fakeDriver) DeviceCount() int { return len(d.devices) }

func (d *fakeDriver) DeviceInfo(id int) (contracts.DeviceInfo, bool) {
	if id < 0 || id >= len(d.devices) || d.missing[id] {
		return contracts.DeviceInfo{}, false
	}
	info := d.devices[id]
	info.DeviceID = id
	return info, true
}

func (d *fakeDriver) DefaultInputID() int  { return d.defaultInput }
func (d *fakeDriver) DefaultOutputID() int { return d.defaultOutput }

func (d *fakeDriver) OpenInput(deviceID, bufferSize int) (contracts.Stream, int) {
	d.lastInputBuffer = bufferSize
	if d.openInputCode < 0 {
		return nil, d.openInputCode
	}
	return d.open(deviceID), 0
}

func (d *fakeDriver) OpenOutput(deviceID, bufferSize, latency int) (contracts.Stream, int) {
	d.lastOutputBuffer = bufferSize
	d.lastLatency = latency
	if d.openOutputCode < 0 {
		return nil, d.openOutputCode
	}
	return d.open(deviceID), 0
}

func (d *fakeDriver) open(deviceID int) *fakeStream {
	d.devices[deviceID].Opened = true
	s := &fakeStream{drv: d, deviceID: deviceID}
	d.streams = append(d.streams, s)
	return s
}

func (d *fakeDriver) ErrorText(code int) string {
	if text, ok := d.errorTexts[code]; ok {
		return text
	}
	return "fake driver error"
}

type shortWrite struct {
	timestamp int32
	word      uint32
}

type sysexWrite struct {
	timestamp int32
	data      []byte
}

type fakeStream struct {
	drv      *fakeDriver
	deviceID int

	events    []uint32
	readCode  int
	closeCode int
	writeCode int

	pollCalls  int
	readCalls  int
	closeCalls int

	shortWrites []shortWrite
	sysexWrites []sysexWrite
}

func (s *fakeStream) Close() int {
	s.closeCalls++
	s.drv.devices[s.deviceID].Opened = false
	return s.closeCode
}

func (s *fakeStream) Poll() bool {
	s.pollCalls++
	return len(s.events) > 0
}

func (s *fakeStream) Read() (uint32, int) {
	s.readCalls++
	if s.readCode < 0 {
		return 0, s.readCode
	}
	if len(s.events) == 0 {
		return 0, 0
	}
	word := s.events[0]
	s.events = s.events[1:]
	return word, 1
}

func (s *fakeStream) WriteShort(timestamp int32, word uint32) int {
	if s.writeCode < 0 {
		return s.writeCode
	}
	s.shortWrites = append(s.shortWrites, shortWrite{timestamp, word})
	return 0
}

func (s *fakeStream) WriteSysEx(timestamp int32, data []byte) int {
	if s.writeCode < 0 {
		return s.writeCode
	}
	s.sysexWrites = append(s.sysexWrites, sysexWrite{timestamp, append([]byte(nil), data...)})
	return 0
}

// testMessage implements contracts.Message.
type testMessage struct {
	data  []byte
	sysex bool
}

func (m *testMessage) Bytes() []byte { return m.data }
func (m *testMessage) IsSysEx() bool { return m.sysex }

// fakeParser assembles one message per four fed bytes, which matches
// the four bytes every decoded event word produces and keeps the
// event-to-message mapping deterministic for assertions.
type fakeParser struct {
	buf      []byte
	messages []contracts.Message
	fed      []byte
}

func (p *fakeParser) FeedByte(b byte) {
	p.fed = append(p.fed, b)
	p.buf = append(p.buf, b)
	if len(p.buf) == 4 {
		p.messages = append(p.messages, &testMessage{data: p.buf})
		p.buf = nil
	}
}

func (p *fakeParser) PopMessage() (contracts.Message, bool) {
	if len(p.messages) == 0 {
		return nil, false
	}
	msg := p.messages[0]
	p.messages = p.messages[1:]
	return msg, true
}

func (p *fakeParser) Pending() int { return len(p.messages) }

type nopLogger struct{}

func (nopLogger) Info(string, ...contracts.Field)  {}
func (nopLogger) Error(string, ...contracts.Field) {}
func (nopLogger) Debug(string, ...contracts.Field) {}
func (nopLogger) Warn(string, ...contracts.Field)  {}
func (nopLogger) Field() contracts.Field           { return nopField{} }
func (nopLogger) SetLevel(contracts.LogLevel)      {}

type nopField struct{}

func (f nopField) Bool(string, bool) contracts.Field     { return f }
func (f nopField) Int(string, int) contracts.Field       { return f }
func (f nopField) String(string, string) contracts.Field { return f }
func (f nopField) Error(string, error) contracts.Field   { return f }
func (f nopField) Uint32(string, uint32) contracts.Field { return f }

func newTestRegistry(t *testing.T, drv contracts.Driver) *Registry {
	t.Helper()
	reg, err := New(contracts.WithDriver(drv), contracts.WithLogger(nopLogger{}))
	require.NoError(t, err)
	return reg
}

func device(name string, input, output bool) contracts.DeviceInfo {
	return contracts.DeviceInfo{Interface: "Test", Name: name, IsInput: input, IsOutput: output}
}
