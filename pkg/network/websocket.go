package network

import (
	"context"
	"fmt"

	"github.com/cbodonnell/rocketjam/pkg/messages"
	"nhooyr.io/websocket"
)

// WebsocketWriter writes envelopes as zstd compressed binary frames.
type WebsocketWriter struct {
	conn *websocket.Conn
}

func NewWebsocketWriter(conn *websocket.Conn) *WebsocketWriter {
	return &WebsocketWriter{
		conn: conn,
	}
}

func (ws *WebsocketWriter) WriteEnvelope(ctx context.Context, envelope messages.Envelope) error {
	data, err := messages.SerializeCompressedEnvelope(envelope)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %v", err)
	}
	if err := ws.conn.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("failed to write websocket message: %v", err)
	}
	return nil
}
