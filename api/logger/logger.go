package logger

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/lordralex/absol/api/env"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

var root zerolog.Logger
var logFile *os.File
var sentryEnabled atomic.Bool

func init() {
	var err error
	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime},
		sentryWriter{capture: captureEvent},
	}

	if path := env.Get("log.file"); path != "" {
		logFile, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString("Error loading log file: " + err.Error() + "\n")
		} else {
			writers = append(writers, logFile)
		}
	}

	level, err := zerolog.ParseLevel(env.GetOr("log.level", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	root = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
}

// EnableSentry forwards every error level event to the given DSN.
func EnableSentry(dsn string) error {
	err := sentry.Init(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		return err
	}
	sentryEnabled.Store(true)
	return nil
}

func Close() error {
	if sentryEnabled.Load() {
		sentry.Flush(2 * time.Second)
	}
	if logFile == nil {
		return nil
	}
	return logFile.Close()
}

func Out() *zerolog.Event {
	return root.Info()
}

func Err() *zerolog.Event {
	return root.Error()
}

func Warn() *zerolog.Event {
	return root.Warn()
}

func Debug() *zerolog.Event {
	return root.Debug()
}

// For returns a child logger tagged with the component name.
func For(component string) *zerolog.Logger {
	l := root.With().Str("component", component).Logger()
	return &l
}

// sentryWriter forwards error level events to Sentry with their error and
// fields attached.
type sentryWriter struct {
	capture func(*sentry.Event)
}

func (sentryWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (w sentryWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.ErrorLevel || level == zerolog.NoLevel || !sentryEnabled.Load() {
		return len(p), nil
	}
	if event := sentryEvent(level, p); event != nil {
		w.capture(event)
	}
	return len(p), nil
}

func captureEvent(event *sentry.Event) {
	sentry.CaptureEvent(event)
}

func sentryEvent(level zerolog.Level, p []byte) *sentry.Event {
	fields := make(map[string]interface{})
	if err := jsoniter.Unmarshal(p, &fields); err != nil {
		return nil
	}

	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	if level >= zerolog.FatalLevel {
		event.Level = sentry.LevelFatal
	}
	event.Message = cast.ToString(fields[zerolog.MessageFieldName])
	if msg := cast.ToString(fields[zerolog.ErrorFieldName]); msg != "" {
		event.Exception = []sentry.Exception{{Type: "error", Value: msg}}
	}

	for _, k := range []string{zerolog.MessageFieldName, zerolog.ErrorFieldName, zerolog.LevelFieldName, zerolog.TimestampFieldName} {
		delete(fields, k)
	}
	event.Extra = fields
	return event
}
