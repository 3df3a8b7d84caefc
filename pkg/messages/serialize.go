package messages

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var (
	// EncodeAll and DecodeAll are safe for concurrent use, so one
	// encoder and decoder are shared by every stream.
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	decoder, _ = zstd.NewReader(nil)
)

// SerializeEnvelope encodes an envelope as JSON.
func SerializeEnvelope(e Envelope) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %v", err)
	}
	return b, nil
}

// DeserializeEnvelope decodes a JSON envelope.
func DeserializeEnvelope(b []byte) (*Envelope, error) {
	e := &Envelope{}
	if err := json.Unmarshal(b, e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %v", err)
	}
	return e, nil
}

// SerializeCompressedEnvelope encodes an envelope as zstd compressed JSON,
// the format of binary websocket frames.
func SerializeCompressedEnvelope(e Envelope) ([]byte, error) {
	b, err := SerializeEnvelope(e)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(b, make([]byte, 0, len(b))), nil
}

// DeserializeCompressedEnvelope reverses SerializeCompressedEnvelope.
func DeserializeCompressedEnvelope(data []byte) (*Envelope, error) {
	b, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress envelope: %v", err)
	}
	return DeserializeEnvelope(b)
}

// DeserializeActionEnvelope decodes and validates an action envelope.
func DeserializeActionEnvelope(b []byte) (*ActionEnvelope, error) {
	action := &ActionEnvelope{}
	if err := json.Unmarshal(b, action); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action: %v", err)
	}
	if action.Token == "" {
		return nil, fmt.Errorf("action has no token")
	}
	if err := action.Command.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %v", err)
	}
	return action, nil
}
