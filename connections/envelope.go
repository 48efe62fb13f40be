// Package connections holds the demo transport layer: a trivial
// length-prefixed JSON envelope shared by connections/loopback and
// connections/ws, plus the two concrete connection implementations
// themselves. None of this is part of the dialogue core — it exists so
// cmd/agentdialogued can drive the core over something other than direct
// Go function calls.
package connections

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	uuid "github.com/satori/go.uuid"
)

// Envelope is the frame every connection in this package carries: a
// protocol tag identifying which protocol package can decode Payload, and
// the payload itself. Decoding Payload into a concrete protocol message is
// the receiving protocol package's job, not this package's — mirroring
// spec.md's non-goal that the dialogue core never parses wire content.
type Envelope struct {
	ID       string          `json:"id"`
	Protocol string          `json:"protocol"`
	Payload  json.RawMessage `json:"payload"`
}

// NewEnvelope builds an Envelope with a fresh id for a message already
// encoded to JSON by its protocol package.
func NewEnvelope(protocol string, payload []byte) (Envelope, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Envelope{}, fmt.Errorf("connections: generating envelope id: %w", err)
	}
	return Envelope{ID: id.String(), Protocol: protocol, Payload: payload}, nil
}

// WriteEnvelope writes env to w as a 4-byte big-endian length prefix
// followed by its JSON encoding.
func WriteEnvelope(w io.Writer, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("connections: encoding envelope: %w", err)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("connections: writing envelope header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("connections: writing envelope body: %w", err)
	}
	return nil
}

// ReadEnvelope reads one length-prefixed envelope from r, blocking until a
// full frame is available.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Envelope{}, err
	}
	size := binary.BigEndian.Uint32(header[:])
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Envelope{}, fmt.Errorf("connections: reading envelope body: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("connections: decoding envelope: %w", err)
	}
	return env, nil
}
