package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	ServiceName string
	Level       string
	LokiURL     string
	Development bool

	// Output defaults to stdout.
	Output zapcore.WriteSyncer
}

// LokiLogger is a zap logger correlated with the active trace that also
// ships every entry to Loki when a push URL is configured.
type LokiLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
	pusher      *pusher
}

func New(opts Options) (*LokiLogger, error) {
	level := zapcore.InfoLevel

	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)

		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}

		level = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"

	var encoder zapcore.Encoder

	if opts.Development {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	output := opts.Output

	if output == nil {
		output = zapcore.Lock(os.Stdout)
	}

	core := zapcore.NewCore(encoder, output, level)

	l := &LokiLogger{ServiceName: opts.ServiceName}

	if opts.LokiURL != "" {
		l.pusher = newPusher(opts.LokiURL, opts.ServiceName, 100, 2*time.Second)
		core = zapcore.NewTee(core, newLokiCore(level, zapcore.NewJSONEncoder(encoderConfig), l.pusher))
	}

	zapLogger := zap.New(core, zap.AddCaller()).With(zap.String("service", opts.ServiceName))

	l.Logger = otelzap.New(zapLogger, otelzap.WithMinLevel(level))

	return l, nil
}

// Nop discards everything. Used by tests and as a fallback.
func Nop() *LokiLogger {
	return &LokiLogger{Logger: otelzap.New(zap.NewNop())}
}

func (l *LokiLogger) Zap() *zap.Logger {
	return l.Logger.Logger
}

func (l *LokiLogger) Ctx(ctx context.Context) otelzap.LoggerWithCtx {
	return l.Logger.Ctx(ctx)
}

func (l *LokiLogger) Sync() error {
	_ = l.Logger.Sync()

	if l.pusher != nil {
		return l.pusher.flush()
	}

	return nil
}

// Close flushes pending Loki entries and stops the pusher.
func (l *LokiLogger) Close(ctx context.Context) error {
	_ = l.Logger.Sync()

	if l.pusher == nil {
		return nil
	}

	return l.pusher.close(ctx)
}
