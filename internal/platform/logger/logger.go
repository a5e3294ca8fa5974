// Package logger owns the process root zerolog logger and request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"bear/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type used across the module
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       env.Get("LEVEL", "debug"),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var once sync.Once

// Init builds the root logger; only the first call has any effect
// the root also becomes zerolog's default context logger
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opt.Writer
		if w == nil {
			w = os.Stdout
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}
		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.DebugLevel
		}

		zc := zerolog.New(w).Level(lvl).With().Timestamp()
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		if opt.WithCaller {
			zc = zc.Caller()
		}
		l := zc.Logger()
		if opt.SampleEvery > 1 {
			l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}
		zerolog.DefaultContextLogger = &l
	})
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	Init(FromEnv())
	return zerolog.DefaultContextLogger
}

// C returns the logger carried by ctx, or the root logger
func C(ctx context.Context) *Logger {
	Get()
	return zerolog.Ctx(ctx)
}

// WithRequest tags the ctx logger with request_id and tenant_key
func WithRequest(ctx context.Context, reqID, tenantKey string) context.Context {
	if reqID == "" && tenantKey == "" {
		return ctx
	}
	zc := C(ctx).With()
	if reqID != "" {
		zc = zc.Str("request_id", reqID)
	}
	if tenantKey != "" {
		zc = zc.Str("tenant_key", tenantKey)
	}
	return zc.Logger().WithContext(ctx)
}

// WithActor tags the ctx logger with the admin behind the request
// an empty role means anonymous and leaves ctx untouched
func WithActor(ctx context.Context, adminID int64, role string) context.Context {
	if role == "" {
		return ctx
	}
	return C(ctx).With().Int64("admin_id", adminID).Str("role", role).Logger().WithContext(ctx)
}

// Named returns a child of the root logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
