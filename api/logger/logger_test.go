package logger

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

func TestSentryWriter(t *testing.T) {
	var captured []*sentry.Event
	log := zerolog.New(sentryWriter{capture: func(e *sentry.Event) {
		captured = append(captured, e)
	}}).With().Timestamp().Logger()

	t.Run("disabled", func(t *testing.T) {
		log.Error().Msg("not sent")
		if len(captured) != 0 {
			t.Errorf("captured %d events while sentry is disabled", len(captured))
		}
	})

	sentryEnabled.Store(true)
	defer sentryEnabled.Store(false)

	t.Run("below error level", func(t *testing.T) {
		log.Warn().Msg("not sent")
		if len(captured) != 0 {
			t.Errorf("captured %d warnings", len(captured))
		}
	})

	t.Run("error carries cause and fields", func(t *testing.T) {
		log.Error().Str("poll", "p1").Err(errors.New("unknown message")).Msg("unable to render poll results")
		if len(captured) != 1 {
			t.Fatalf("captured %d events, want 1", len(captured))
		}

		event := captured[0]
		if event.Message != "unable to render poll results" {
			t.Errorf("Message = %q", event.Message)
		}
		if event.Level != sentry.LevelError {
			t.Errorf("Level = %q", event.Level)
		}
		if len(event.Exception) != 1 || event.Exception[0].Value != "unknown message" {
			t.Errorf("Exception = %+v", event.Exception)
		}
		if event.Extra["poll"] != "p1" {
			t.Errorf("Extra = %v", event.Extra)
		}
		if _, ok := event.Extra[zerolog.TimestampFieldName]; ok {
			t.Error("timestamp leaked into Extra")
		}
	})
}

func TestSentryEvent_InvalidPayload(t *testing.T) {
	if event := sentryEvent(zerolog.ErrorLevel, []byte("not json")); event != nil {
		t.Errorf("sentryEvent() = %+v, want nil", event)
	}
}
