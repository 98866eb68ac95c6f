// Package log routes zerolog JSON output through credential redaction to one
// or more sinks (colored console, per-run JSON file).
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/fablerun/fable/pkg/security"
)

// Event is one parsed log event on its way to the sinks.
type Event struct {
	Level     zerolog.Level
	Message   string
	Fields    map[string]any
	Timestamp time.Time
}

// Sink is a log output destination.
type Sink interface {
	Write(event *Event) error
	io.Closer
}

// Router is the io.Writer handed to zerolog. It parses each JSON line,
// redacts secrets, and fans the event out to every sink. Sink errors are
// reported to stderr and never fail the write; logging must not take the
// engine down.
type Router struct {
	sinks    []Sink
	redactor *security.Redactor
}

// NewRouter builds a router over the given sinks.
func NewRouter(sinks ...Sink) *Router {
	return &Router{sinks: sinks}
}

// AddSink appends a sink.
func (r *Router) AddSink(sink Sink) {
	r.sinks = append(r.sinks, sink)
}

// SetRedactor installs the secret redactor. Call before any credential is
// decrypted.
func (r *Router) SetRedactor(redactor *security.Redactor) {
	r.redactor = redactor
}

func (r *Router) Write(p []byte) (int, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "log router: unparseable log line: %v: %s\n", err, p)
		return len(p), nil
	}

	evt := &Event{Fields: make(map[string]any), Timestamp: time.Now()}

	if lvl, ok := raw[zerolog.LevelFieldName].(string); ok {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			evt.Level = parsed
		}
	}
	if msg, ok := raw[zerolog.MessageFieldName].(string); ok {
		evt.Message = msg
	}
	if ts, ok := raw[zerolog.TimestampFieldName].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			evt.Timestamp = parsed
		}
	}

	reserved := map[string]struct{}{
		zerolog.LevelFieldName:     {},
		zerolog.MessageFieldName:   {},
		zerolog.TimestampFieldName: {},
	}
	for k, v := range raw {
		if _, skip := reserved[k]; !skip {
			evt.Fields[k] = v
		}
	}

	if r.redactor != nil {
		evt.Message = r.redactor.Redact(evt.Message)
		for k, v := range evt.Fields {
			if s, ok := v.(string); ok {
				evt.Fields[k] = r.redactor.Redact(s)
			}
		}
	}

	for _, sink := range r.sinks {
		if err := sink.Write(evt); err != nil {
			fmt.Fprintf(os.Stderr, "log router: sink write failed: %v\n", err)
		}
	}
	return len(p), nil
}

// Close closes every sink, returning the first error.
func (r *Router) Close() error {
	var firstErr error
	for _, sink := range r.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
