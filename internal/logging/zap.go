package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts *zap.Logger to the Logger interface.
type zapLogger struct {
	core *zap.Logger
}

// NewProduction returns a Logger that writes JSON to stdout at the
// given minimum level, suitable for production deployment.
func NewProduction(level Level) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{core: core}, nil
}

// NewNop returns a Logger that discards everything; useful in tests.
func NewNop() Logger {
	return &zapLogger{core: zap.NewNop()}
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.core.Debug(msg, toZapFields(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.core.Info(msg, toZapFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.core.Warn(msg, toZapFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.core.Error(msg, toZapFields(ctx, fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{core: l.core.With(toZapFields(context.Background(), fields)...)}
}

func (l *zapLogger) Sync() error {
	return l.core.Sync()
}

func toZapFields(ctx context.Context, fields []Field) []zap.Field {
	all := extractContextFields(ctx)
	all = append(all, fields...)

	out := make([]zap.Field, 0, len(all))
	for _, f := range all {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
