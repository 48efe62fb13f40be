// Package fipa implements a small FIPA-style negotiation protocol on top of
// the dialogue core: call-for-proposal, propose, accept, decline,
// match-accept, inform, and end. It is the protocol exercised by
// spec.md's end-to-end scenarios (P_REQUEST/P_OFFER/P_ACCEPT/P_DECLINE).
package fipa

import "github.com/edgarnunogubinvest/agents-aea/dialogue"

// Performative enumerates this protocol's speech acts.
type Performative string

const (
	CFP         Performative = "cfp"
	Propose     Performative = "propose"
	Accept      Performative = "accept"
	Decline     Performative = "decline"
	MatchAccept Performative = "match_accept"
	Inform      Performative = "inform"
	End         Performative = "end"
)

// Role is this agent's position in a fipa negotiation.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleResponder Role = "responder"
)

// EndState is a terminal outcome of a fipa negotiation, used only for
// dialogue.Stats.
type EndState int

const (
	EndStateSuccessful EndState = iota
	EndStateDeclined
	EndStateNoResponse
)

// Content carries the negotiation payload. Which fields are meaningful
// depends on Performative; the dialogue core never inspects this struct.
type Content struct {
	Proposal string `json:"proposal,omitempty"`
	Info     string `json:"info,omitempty"`
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
