// Package defaultproto implements the smallest protocol the dialogue core
// can drive: three performatives (bytes, error, end); bytes may be answered
// by bytes, error, or end, and error and end take no reply. It mirrors the role the aea
// framework's own "default" protocol plays: the protocol every agent speaks
// even when it hasn't agreed on anything richer with its counterparty, and
// the reference implementation protocol authors copy to start a new one.
package defaultproto

import "github.com/edgarnunogubinvest/agents-aea/dialogue"

// Performative enumerates this protocol's three speech acts.
type Performative string

const (
	// Bytes carries an opaque payload with no further structure.
	Bytes Performative = "bytes"
	// Error reports that the sender could not process a prior message.
	Error Performative = "error"
	// End closes the conversation with no payload.
	End Performative = "end"
)

// Role is this agent's position in a default-protocol exchange.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleResponder Role = "responder"
)

// EndState is a terminal outcome of a default-protocol exchange, used only
// for dialogue.Stats.
type EndState int

const (
	EndStateSuccessful EndState = iota
	EndStateErrored
)

// Content carries the payload for Bytes and Error messages. ErrorCode and
// ErrorMsg are meaningful only when Performative is Error; Payload only
// when it is Bytes.
type Content struct {
	Payload  []byte `json:"payload,omitempty"`
	ErrorCode int   `json:"error_code,omitempty"`
	ErrorMsg string `json:"error_msg,omitempty"`
}

// Message is this protocol's concrete Message implementation. Sender/To
// follow dialogue.UnassignedReference's convention: the empty string means
// "not yet set," so HasSender/HasTo survive a JSON round trip over the
// wire without a separate, easy-to-forget-to-serialize boolean field.
type Message struct {
	Ref    dialogue.Reference `json:"dialogue_reference"`
	ID     int                `json:"message_id"`
	Tgt    int                `json:"target"`
	Perf   Performative       `json:"performative"`
	From   dialogue.Address   `json:"sender,omitempty"`
	ToAddr dialogue.Address   `json:"to,omitempty"`
	Body   Content            `json:"content"`
}

func (m *Message) DialogueReference() dialogue.Reference { return m.Ref }
func (m *Message) MessageID() int                        { return m.ID }
func (m *Message) Target() int                            { return m.Tgt }
func (m *Message) Performative() dialogue.Performative    { return m.Perf }
func (m *Message) Sender() dialogue.Address               { return m.From }
func (m *Message) To() dialogue.Address                   { return m.ToAddr }
func (m *Message) HasSender() bool                        { return m.From != "" }
func (m *Message) HasTo() bool                             { return m.ToAddr != "" }

func (m *Message) SetSender(a dialogue.Address) { m.From = a }
func (m *Message) SetTo(a dialogue.Address)     { m.ToAddr = a }
