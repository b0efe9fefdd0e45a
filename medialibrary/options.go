package medialibrary

// Option is a function that configures Options
type Option func(*Options)

// Options holds the configuration shared by sessions, synchronizers and orchestrators
type Options struct {
	Logger          Logger
	LogLevel        LogLevel
	Notifier        Notifier
	SyncConcurrency int
	Uploader        *Uploader
}

func newOptions(options ...Option) *Options {
	opts := &Options{
		LogLevel:        LogLevelInfo,
		SyncConcurrency: 1,
	}
	for _, opt := range options {
		opt(opts)
	}
	if opts.Logger == nil {
		opts.Logger = NewDefaultLogger(opts.LogLevel)
	}
	if opts.Notifier == nil {
		opts.Notifier = NewLogNotifier(opts.Logger)
	}
	if opts.SyncConcurrency < 1 {
		opts.SyncConcurrency = 1
	}
	return opts
}

// WithLogger sets the logger
func WithLogger(logger Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithLogLevel sets the level of the default logger
func WithLogLevel(level LogLevel) Option {
	return func(o *Options) {
		o.LogLevel = level
	}
}

// WithNotifier sets where user-facing messages go
func WithNotifier(n Notifier) Option {
	return func(o *Options) {
		o.Notifier = n
	}
}

// WithSyncConcurrency bounds how many order updates run at once.
// 1 keeps the updates strictly sequential and stops at the first failure.
func WithSyncConcurrency(n int) Option {
	return func(o *Options) {
		o.SyncConcurrency = n
	}
}

// WithUploader enables file uploads in a Session
func WithUploader(u *Uploader) Option {
	return func(o *Options) {
		o.Uploader = u
	}
}
