package midiport

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/miditools/midiport/internal/driver/coremidi"
	"github.com/miditools/midiport/internal/driver/portmidi"
	"github.com/miditools/midiport/internal/logger"
	"github.com/miditools/midiport/sdk/contracts"
)

// defaultInputBufferSize is the driver-side event buffer requested for
// input streams: room for roughly a thousand pending events between
// polls.
const defaultInputBufferSize = 1000

// Direction selects which side of a device a port binds to.
type Direction int

const (
	// Input ports receive messages from a device.
	Input Direction = iota
	// Output ports send messages to a device.
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// driverInitializers maps OS names to native driver bindings.
var driverInitializers = map[string]func() (contracts.Driver, error){
	"windows": portmidi.NewDriver,
	"darwin":  coremidi.NewDriver,
}

// Registry enumerates native MIDI devices and opens ports against
// them. It owns the driver's lifetime: the driver is initialized
// lazily on first use and shut down by an explicit Shutdown call at a
// well-defined program exit point, never from a finalizer.
type Registry struct {
	drv             contracts.Driver
	log             contracts.Logger
	inputBufferSize int

	initMu      sync.Mutex
	initialized bool

	// openMu serializes the whole open transition (snapshot scan,
	// opened-flag check, driver open) so two near-simultaneous opens
	// of the same named device cannot both observe it unopened.
	openMu sync.Mutex
}

// New creates a registry. Without a WithDriver option the binding for
// the current operating system is used; ErrUnsupportedOS is returned
// when there is none.
func New(opts ...contracts.Option) (*Registry, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	options.Logger.SetLevel(options.LogLevel)

	if options.InputBufferSize == 0 {
		options.InputBufferSize = defaultInputBufferSize
	}

	drv := options.Driver
	if drv == nil {
		initializer, ok := driverInitializers[runtime.GOOS]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
		}
		d, err := initializer()
		if err != nil {
			return nil, err
		}
		drv = d
	}

	return &Registry{
		drv:             drv,
		log:             options.Logger,
		inputBufferSize: options.InputBufferSize,
	}, nil
}

// ensureInit initializes the driver exactly once. Shutdown resets the
// flag, so a registry can be reused after an explicit shutdown.
func (r *Registry) ensureInit() error {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	if r.initialized {
		return nil
	}
	if err := translate(r.drv, r.drv.Initialize()); err != nil {
		return err
	}
	r.initialized = true
	r.log.Debug("native driver initialized")
	return nil
}

// Shutdown terminates the native driver. Call it once at program exit,
// after every port is closed. Calling it on an uninitialized or
// already shut down registry is a no-op.
func (r *Registry) Shutdown() error {
	r.initMu.Lock()
	defer r.initMu.Unlock()

	if !r.initialized {
		return nil
	}
	r.initialized = false
	if err := translate(r.drv, r.drv.Terminate()); err != nil {
		r.log.Error("driver shutdown failed", r.log.Field().Error("error", err))
		return err
	}
	r.log.Debug("native driver terminated")
	return nil
}

// Devices returns a fresh snapshot of every device the driver exposes,
// in driver enumeration order.
func (r *Registry) Devices() ([]contracts.DeviceInfo, error) {
	if err := r.ensureInit(); err != nil {
		return nil, err
	}

	count := r.drv.DeviceCount()
	devices := make([]contracts.DeviceInfo, 0, count)
	for id := 0; id < count; id++ {
		info, ok := r.drv.DeviceInfo(id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrDeviceNotFound, id)
		}
		info.DeviceID = id
		devices = append(devices, info)
	}
	return devices, nil
}

// InputNames returns the names of all input devices, sorted ascending.
// Duplicate names are preserved: the driver may legitimately list the
// same name for distinct device ids.
func (r *Registry) InputNames() ([]string, error) {
	return r.names(Input)
}

// OutputNames returns the names of all output devices, sorted
// ascending, duplicates preserved.
func (r *Registry) OutputNames() ([]string, error) {
	return r.names(Output)
}

func (r *Registry) names(direction Direction) ([]string, error) {
	devices, err := r.Devices()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(devices))
	for _, device := range devices {
		if matchesDirection(device, direction) {
			names = append(names, device.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func matchesDirection(device contracts.DeviceInfo, direction Direction) bool {
	if direction == Input {
		return device.IsInput
	}
	return device.IsOutput
}

// defaultDeviceID resolves the driver's default device for a
// direction. A negative id from the driver means there is none.
func (r *Registry) defaultDeviceID(direction Direction) (int, error) {
	var id int
	if direction == Input {
		id = r.drv.DefaultInputID()
	} else {
		id = r.drv.DefaultOutputID()
	}
	if id < 0 {
		return 0, fmt.Errorf("%w: no default %s device", ErrNoDefaultDevice, direction)
	}
	return id, nil
}

// resolveDevice picks the device a port will bind to. An empty name
// selects the driver's default device for the direction. A non-empty
// name is matched against the snapshot in enumeration order: records
// of the wrong direction are skipped, and the first name match decides
// the outcome — if it is already open the resolution fails without
// scanning further, even if another device with the same name exists.
func (r *Registry) resolveDevice(name string, direction Direction) (contracts.DeviceInfo, error) {
	if name == "" {
		id, err := r.defaultDeviceID(direction)
		if err != nil {
			return contracts.DeviceInfo{}, err
		}
		info, ok := r.drv.DeviceInfo(id)
		if !ok {
			return contracts.DeviceInfo{}, fmt.Errorf("%w: id %d", ErrDeviceNotFound, id)
		}
		info.DeviceID = id
		return info, nil
	}

	devices, err := r.Devices()
	if err != nil {
		return contracts.DeviceInfo{}, err
	}
	for _, device := range devices {
		if device.Name != name || !matchesDirection(device, direction) {
			continue
		}
		if device.Opened {
			return contracts.DeviceInfo{}, fmt.Errorf("%w: %q", ErrPortAlreadyOpen, name)
		}
		return device, nil
	}
	return contracts.DeviceInfo{}, fmt.Errorf("%w: %q", ErrUnknownPort, name)
}

// openStream performs the open transition: resolve the device, open
// the driver stream with direction-specific parameters, and mark the
// bound record open. On any failure the state is untouched and the
// device's opened flag is left as the driver reported it.
func (r *Registry) openStream(name string, direction Direction) (contracts.DeviceInfo, contracts.Stream, error) {
	if err := r.ensureInit(); err != nil {
		return contracts.DeviceInfo{}, nil, err
	}

	r.openMu.Lock()
	defer r.openMu.Unlock()

	device, err := r.resolveDevice(name, direction)
	if err != nil {
		return contracts.DeviceInfo{}, nil, err
	}

	var (
		stream contracts.Stream
		status int
	)
	if direction == Input {
		stream, status = r.drv.OpenInput(device.DeviceID, r.inputBufferSize)
	} else {
		stream, status = r.drv.OpenOutput(device.DeviceID, 0, 0)
	}
	if err := translate(r.drv, status); err != nil {
		r.log.Error("failed to open driver stream",
			r.log.Field().String("direction", direction.String()),
			r.log.Field().String("name", device.Name),
			r.log.Field().Error("error", err))
		return contracts.DeviceInfo{}, nil, err
	}

	device.Opened = true
	r.log.Info("port opened",
		r.log.Field().String("direction", direction.String()),
		r.log.Field().String("name", device.Name),
		r.log.Field().Int("deviceID", device.DeviceID))
	return device, stream, nil
}

// OpenInput opens an input port. An empty name selects the default
// input device. The parser collaborator assembles the raw byte stream
// into messages and owns all message buffering.
//
// Close the port on every exit path, typically with defer.
func (r *Registry) OpenInput(name string, parser contracts.Parser) (*InputPort, error) {
	if parser == nil {
		return nil, ErrNilParser
	}
	device, stream, err := r.openStream(name, Input)
	if err != nil {
		return nil, err
	}
	return &InputPort{
		port:   port{reg: r, direction: Input, device: device, stream: stream},
		parser: parser,
	}, nil
}

// OpenOutput opens an output port. An empty name selects the default
// output device.
//
// Close the port on every exit path, typically with defer.
func (r *Registry) OpenOutput(name string) (*OutputPort, error) {
	device, stream, err := r.openStream(name, Output)
	if err != nil {
		return nil, err
	}
	return &OutputPort{
		port: port{reg: r, direction: Output, device: device, stream: stream},
	}, nil
}
