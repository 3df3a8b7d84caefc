package network

import (
	"context"

	"github.com/cbodonnell/rocketjam/pkg/messages"
)

// EnvelopeWriter writes envelopes to one client connection.
type EnvelopeWriter interface {
	WriteEnvelope(ctx context.Context, envelope messages.Envelope) error
}

// Pump forwards envelopes from ch to w until ctx is done, a write fails or
// the stream is superseded. The supersession signal is written before Pump
// returns so the client knows not to reconnect.
func Pump(ctx context.Context, w EnvelopeWriter, ch <-chan messages.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case envelope := <-ch:
			if err := w.WriteEnvelope(ctx, envelope); err != nil {
				return err
			}
			if envelope.IsSuperseded() {
				return nil
			}
		}
	}
}
