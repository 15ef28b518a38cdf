package nativebridge

import (
	"context"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kurobaex/native-bridge/bridge"
	"github.com/kurobaex/native-bridge/config"
	"github.com/kurobaex/native-bridge/engine"
	"github.com/kurobaex/native-bridge/engine/plaintext"
	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/schema"
)

var (
	initOnce sync.Once
	initErr  error
	logger   *zap.Logger
	sentryOn bool
)

// Init sets up process-wide logging and error reporting. It runs once; later
// calls return the first result. It is the library load hook.
func Init(cfg config.Config) error {
	initOnce.Do(func() {
		initErr = setup(cfg)
	})
	return initErr
}

func setup(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "init sentry")
		}
		sentryOn = true
	}

	logger = l
	bridge.SetLogger(l.Named("bridge"))
	engine.SetLogger(l.Named("engine"))
	return nil
}

// NewLogger builds a zap logger for level ("debug", "info", ...) writing
// format ("json" or "console") to stderr.
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// Shutdown flushes pending error reports and log entries. It is the library
// unload hook.
func Shutdown() {
	if sentryOn {
		sentry.Flush(time.Second * 5)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

// Library is a bridge together with the engine it owns.
type Library struct {
	*bridge.Bridge
	engine engine.Engine
}

// Open builds the registry, the engine selected by cfg and the bridge.
func Open(ctx context.Context, cfg config.Config) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := schema.New(cfg.Namespaces)
	if err != nil {
		return nil, err
	}

	var eng engine.Engine = plaintext.New()
	if cfg.EngineWASM != "" {
		w, err := engine.LoadWASM(ctx, cfg.EngineWASM, nil)
		if err != nil {
			return nil, err
		}
		eng = w
	}

	b, err := bridge.New(reg, eng, &bridge.Config{ExceptionClass: cfg.ExceptionClass})
	if err != nil {
		return nil, err
	}
	return &Library{Bridge: b, engine: eng}, nil
}

// Close releases the engine.
func (l *Library) Close(ctx context.Context) error {
	if c, ok := l.engine.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}
