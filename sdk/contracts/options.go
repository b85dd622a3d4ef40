package contracts

// ClientOptions defines the configuration options for a registry.
type ClientOptions struct {
	Logger          Logger   // Logger for lifecycle events and driver failures.
	LogLevel        LogLevel // Level of logging to use.
	Driver          Driver   // Native driver binding; defaults to the platform driver.
	InputBufferSize int      // Driver-side event buffer for input streams.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the registry and its ports.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithDriver substitutes the native driver binding. Intended for
// tests and for embedding alternative backends.
func WithDriver(d Driver) Option {
	return func(opts *ClientOptions) {
		opts.Driver = d
	}
}

// WithInputBufferSize overrides the driver-side event buffer requested
// when opening input streams.
func WithInputBufferSize(size int) Option {
	return func(opts *ClientOptions) {
		opts.InputBufferSize = size
	}
}
