package fipa

import (
	"fmt"

	"github.com/edgarnunogubinvest/agents-aea/dialogue"
)

func performativeSet(perfs ...Performative) map[dialogue.Performative]struct{} {
	s := make(map[dialogue.Performative]struct{}, len(perfs))
	for _, p := range perfs {
		s[p] = struct{}{}
	}
	return s
}

func repliesFor(perfs ...Performative) map[dialogue.Performative]struct{} {
	return performativeSet(perfs...)
}

// newMessage is the dialogue.MessageFactory for this protocol. contentFields
// must be a Content (or nil, for performatives that carry none).
func newMessage(ref dialogue.Reference, messageID, target int, performative dialogue.Performative, contentFields any) (dialogue.Message, error) {
	var body Content
	switch v := contentFields.(type) {
	case nil:
	case Content:
		body = v
	case *Content:
		if v != nil {
			body = *v
		}
	default:
		return nil, fmt.Errorf("fipa: unsupported content type %T", contentFields)
	}

	perf, ok := performative.(Performative)
	if !ok {
		return nil, fmt.Errorf("fipa: unsupported performative type %T", performative)
	}

	return &Message{Ref: ref, ID: messageID, Tgt: target, Perf: perf, Body: body}, nil
}

// roleFromFirstMessage assigns Initiator to forAddress when it is the
// opening CFP's sender, Responder otherwise.
func roleFromFirstMessage(first dialogue.Message, forAddress dialogue.Address) dialogue.Role {
	if first.Sender() == forAddress {
		return RoleInitiator
	}
	return RoleResponder
}

// isValid performs this protocol's content-type checks the reply grammar
// cannot express: a propose must carry a non-empty proposal.
func isValid(d *dialogue.Dialogue, message dialogue.Message) (bool, string) {
	m, ok := message.(*Message)
	if !ok {
		return false, fmt.Sprintf("fipa: unexpected message type %T", message)
	}
	if m.Perf == Propose && m.Body.Proposal == "" {
		return false, "fipa: propose must carry a non-empty proposal"
	}
	return true, ""
}

// Descriptor builds the dialogue.ProtocolDescriptor for this negotiation
// protocol.
func Descriptor() *dialogue.ProtocolDescriptor {
	return &dialogue.ProtocolDescriptor{
		Name: "fipa",
		InitialPerformatives: performativeSet(CFP),
		TerminalPerformatives: performativeSet(Decline, MatchAccept, End),
		ValidReplies: map[dialogue.Performative]map[dialogue.Performative]struct{}{
			CFP:         repliesFor(Propose, Decline),
			Propose:     repliesFor(Accept, Decline),
			Accept:      repliesFor(MatchAccept, Decline),
			Decline:     {},
			MatchAccept: repliesFor(Inform, End),
			Inform:      repliesFor(Inform, End),
			End:         {},
		},
		EndStates: map[dialogue.EndState]struct{}{
			EndStateSuccessful: {},
			EndStateDeclined:   {},
			EndStateNoResponse: {},
		},
		RoleFromFirstMessage:    roleFromFirstMessage,
		NewMessage:              newMessage,
		IsValid:                 isValid,
		StrictTargetPredecessor: true,
	}
}
