// Package dialogue implements the per-agent dialogue-management core: the
// dialogue label identity, the per-conversation state machine, and the
// per-agent registry that routes inbound messages to the right dialogue.
//
// The package never defines a protocol. A concrete protocol plugs into the
// core through the ProtocolDescriptor struct.
package dialogue

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Address identifies an agent endpoint. Treated as an opaque, immutable
// byte-string key; the core never inspects its structure.
type Address = string

// UnassignedReference is the sentinel denoting an as-yet-unassigned half of
// a dialogue reference. It must never be produced by the nonce source.
const UnassignedReference = ""

// NonceBytes is the amount of entropy, in bytes, used to generate a fresh
// dialogue reference half.
const NonceBytes = 32

// Reference is the (starter, responder) pair that, together with the
// opponent and starter addresses, identifies a conversation. Exactly one of
// Starter/Responder may be UnassignedReference (the incomplete state); if
// both are unassigned the reference is invalid, if both are set it is
// complete.
type Reference struct {
	Starter   string
	Responder string
}

// IsComplete reports whether both halves of the reference are assigned.
func (r Reference) IsComplete() bool {
	return r.Starter != UnassignedReference && r.Responder != UnassignedReference
}

// IsInvalid reports whether neither half of the reference is assigned.
func (r Reference) IsInvalid() bool {
	return r.Starter == UnassignedReference && r.Responder == UnassignedReference
}

// Label is the sole identity of a conversation: a dialogue reference plus
// the addresses of the opponent and of whichever party started the
// dialogue. Labels are value objects — copy by value, no interior
// mutability.
type Label struct {
	Reference    Reference
	OpponentAddr Address
	StarterAddr  Address
}

// Incomplete returns the incomplete form of this label, i.e. the label with
// its responder reference cleared. Used both to cache a dialogue's
// "original" label and to reconstruct lookup keys for in-flight messages.
func (l Label) Incomplete() Label {
	return Label{
		Reference:    Reference{Starter: l.Reference.Starter, Responder: UnassignedReference},
		OpponentAddr: l.OpponentAddr,
		StarterAddr:  l.StarterAddr,
	}
}

// String renders the bit-exact textual form:
// "{starter_ref}_{responder_ref}_{opponent_addr}_{starter_addr}".
//
// The underscore separator means addresses and references must not
// themselves contain underscores at rest; that is guaranteed by the wire
// format, not by this package.
func (l Label) String() string {
	return strings.Join([]string{
		l.Reference.Starter,
		l.Reference.Responder,
		l.OpponentAddr,
		l.StarterAddr,
	}, "_")
}

// LabelFromString parses the textual form produced by Label.String. It
// returns an error if obj does not split into exactly four underscore-
// separated components.
func LabelFromString(obj string) (Label, error) {
	parts := strings.Split(obj, "_")
	if len(parts) != 4 {
		return Label{}, fmt.Errorf("dialogue: invalid label string %q: expected 4 underscore-separated fields, found %d", obj, len(parts))
	}
	return Label{
		Reference:    Reference{Starter: parts[0], Responder: parts[1]},
		OpponentAddr: parts[2],
		StarterAddr:  parts[3],
	}, nil
}

// labelJSON mirrors the bit-exact field names required by spec §6.
type labelJSON struct {
	StarterRef   string `json:"dialogue_starter_reference"`
	ResponderRef string `json:"dialogue_responder_reference"`
	OpponentAddr string `json:"dialogue_opponent_addr"`
	StarterAddr  string `json:"dialogue_starter_addr"`
}

// MarshalJSON implements json.Marshaler using the bit-exact field names.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(labelJSON{
		StarterRef:   l.Reference.Starter,
		ResponderRef: l.Reference.Responder,
		OpponentAddr: l.OpponentAddr,
		StarterAddr:  l.StarterAddr,
	})
}

// UnmarshalJSON implements json.Unmarshaler using the bit-exact field names.
func (l *Label) UnmarshalJSON(data []byte) error {
	var v labelJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	l.Reference = Reference{Starter: v.StarterRef, Responder: v.ResponderRef}
	l.OpponentAddr = v.OpponentAddr
	l.StarterAddr = v.StarterAddr
	return nil
}

// generateNonce returns a fresh, cryptographically unpredictable reference
// half: 32 bytes of OS entropy, hex-encoded to a 64-character string.
// Collisions are treated as impossible; no reuse is attempted.
func generateNonce() string {
	buf := make([]byte, NonceBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable, which is a fatal condition for any caller
		// relying on unpredictable correlation ids.
		panic(fmt.Sprintf("dialogue: reading entropy for nonce: %v", err))
	}
	return hex.EncodeToString(buf)
}
