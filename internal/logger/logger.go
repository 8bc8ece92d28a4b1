package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khrees2412/hireflow/pkg/models"
)

// New builds the process logger. Console output unless json is set.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// WithFields attaches fields to the logger, tolerating a nil logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// CandidacyFields describes a candidacy in log entries.
func CandidacyFields(c *models.Candidacy) []zap.Field {
	if c == nil {
		return nil
	}
	return []zap.Field{
		zap.String("candidacy_id", c.ID),
		zap.String("job_id", c.JobID),
		zap.String("status", string(c.Status)),
	}
}

// InterviewFields describes an interview slot in log entries.
func InterviewFields(i *models.Interview) []zap.Field {
	if i == nil {
		return nil
	}
	return []zap.Field{
		zap.String("interview_id", i.ID),
		zap.String("kind", string(i.Kind)),
		zap.String("recruiter_id", i.CreatedBy),
		zap.Time("starts_at", i.StartsAt),
		zap.Int("duration_minutes", i.DurationMinutes),
	}
}
