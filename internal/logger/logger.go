package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger and provides structured logging capabilities.
type Logger struct {
	zlog zerolog.Logger
}

type settings struct {
	out   io.Writer
	level *zerolog.Level
}

// Option customizes a Logger built by New.
type Option func(*settings)

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.out = w }
}

// WithLevel overrides the environment's default level.
func WithLevel(level zerolog.Level) Option {
	return func(s *settings) { s.level = &level }
}

// New creates a Logger for the given environment. Development gets
// colored console output at debug level; every other environment gets
// JSON at info level.
func New(env string, opts ...Option) *Logger {
	s := settings{out: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	out := s.out
	level := zerolog.InfoLevel
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: s.out, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	if s.level != nil {
		level = *s.level
	}

	return &Logger{zlog: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// ParseLevel converts a level name such as "debug" or "warn". An empty
// name is reported as zerolog.NoLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	return zerolog.ParseLevel(name)
}

func withFields(event *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	return event
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	withFields(l.zlog.Debug(), fields).Msg(msg)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	withFields(l.zlog.Info(), fields).Msg(msg)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	withFields(l.zlog.Warn(), fields).Msg(msg)
}

// Error logs an error message with an error and optional fields.
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	withFields(l.zlog.Error().Err(err), fields).Msg(msg)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, err error, fields map[string]interface{}) {
	withFields(l.zlog.Fatal().Err(err), fields).Msg(msg)
}

// With creates a child logger carrying the given fields on every line.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithRequestID creates a child logger with a request ID field.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("request_id", requestID).Logger()}
}

// Level reports the minimum level that is written.
func (l *Logger) Level() zerolog.Level {
	return l.zlog.GetLevel()
}
