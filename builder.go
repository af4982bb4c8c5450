// FILE: builder.go
package ringlog

// Builder provides a fluent configuration idiom for assembling a Config
// before constructing a Logger.
type Builder struct {
	cfg *Config
	err error
}

// NewBuilder creates a new configuration builder seeded with defaults.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Build validates the accumulated configuration, constructs a Logger,
// and Initializes it.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	l := NewLogger()
	if err := l.Initialize(b.cfg); err != nil {
		return nil, err
	}
	return l, nil
}

func (b *Builder) LogDir(dir string) *Builder {
	b.cfg.LogDir = dir
	return b
}

func (b *Builder) FilePrefix(prefix string) *Builder {
	b.cfg.FilePrefix = prefix
	return b
}

func (b *Builder) MaxFileBytes(n int64) *Builder {
	b.cfg.MaxFileBytes = n
	return b
}

func (b *Builder) MaxFiles(n int) *Builder {
	b.cfg.MaxFiles = n
	return b
}

func (b *Builder) MinLevel(level Level) *Builder {
	b.cfg.MinLevel = level
	return b
}

// MinLevelString sets the minimum level from its textual name.
func (b *Builder) MinLevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	lv, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.MinLevel = lv
	return b
}

func (b *Builder) ConsoleOutput(enable bool) *Builder {
	b.cfg.ConsoleOutput = enable
	return b
}

func (b *Builder) FileOutput(enable bool) *Builder {
	b.cfg.FileOutput = enable
	return b
}

func (b *Builder) UseColors(enable bool) *Builder {
	b.cfg.UseColors = enable
	return b
}

func (b *Builder) RingCapacity(capacity int64) *Builder {
	b.cfg.RingCapacity = capacity
	return b
}

func (b *Builder) CompressRotated(enable bool) *Builder {
	b.cfg.CompressRotated = enable
	return b
}

func (b *Builder) RetentionWorkers(n int) *Builder {
	b.cfg.RetentionWorkers = n
	return b
}

func (b *Builder) InternalDiagPath(path string) *Builder {
	b.cfg.InternalDiagPath = path
	return b
}

// Example usage:
// logger, err := ringlog.NewBuilder().
//
//	LogDir("/var/log/app").
//	MinLevelString("debug").
//	RingCapacity(1 << 17).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown(5 * time.Second)
//	 p := logger.NewProducer("worker")
//	 p.Info("logger initialized")
//
// }
