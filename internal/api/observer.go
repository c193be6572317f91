package api

import (
	"time"

	"github.com/alexanderramin/revint/internal/logging"
)

// CallEvent records one completed request.
type CallEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Latency   time.Duration
	Err       error
}

// Observer is notified after every request.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to the structured log.
type LogObserver struct{}

func (LogObserver) OnCallComplete(ev CallEvent) {
	log := logging.Component("api")
	if ev.Err != nil {
		log.Error().
			Str("method", ev.Method).
			Str("path", ev.Path).
			Str("request_id", ev.RequestID).
			Int("status", ev.Status).
			Dur("latency", ev.Latency).
			Err(ev.Err).
			Msg("request failed")
		return
	}
	log.Debug().
		Str("method", ev.Method).
		Str("path", ev.Path).
		Str("request_id", ev.RequestID).
		Int("status", ev.Status).
		Dur("latency", ev.Latency).
		Msg("request ok")
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
