package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cbodonnell/rocketjam/pkg/messages"
)

const (
	SSEEventMessage    = "message"
	SSEEventSuperseded = "superseded"
)

// SSEWriter writes envelopes as server-sent events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the event stream headers and flushes them so the client
// sees the stream open right away.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{
		w:       w,
		flusher: flusher,
	}, nil
}

func (s *SSEWriter) WriteEnvelope(ctx context.Context, envelope messages.Envelope) error {
	data, err := messages.SerializeEnvelope(envelope)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %v", err)
	}

	event := SSEEventMessage
	if envelope.IsSuperseded() {
		event = SSEEventSuperseded
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("failed to write event: %v", err)
	}
	s.flusher.Flush()
	return nil
}
